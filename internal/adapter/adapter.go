// Package adapter connects Otter documents to an editing session: it reads a
// stream into a curation set with computed bounds and writes sets back out.
package adapter

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/inodb/otterxml/internal/model"
	"github.com/inodb/otterxml/internal/otter"
)

// CurationSet is an annotation set loaded for editing, with the genomic range it covers.
type CurationSet struct {
	Source string // file path or other label, may be empty
	Set    *model.AnnotationSet
	Bounds model.Bounds
}

// Low returns the lowest covered coordinate, or 0 when the set is empty.
func (c *CurationSet) Low() int64 {
	if !c.Bounds.Valid {
		return 0
	}
	return c.Bounds.Low
}

// High returns the highest covered coordinate, or 0 when the set is empty.
func (c *CurationSet) High() int64 {
	if !c.Bounds.Valid {
		return 0
	}
	return c.Bounds.High
}

// Adapter reads and writes Otter documents.
type Adapter struct {
	parser      *otter.Parser
	author      string
	emailDomain string
	logger      *zap.Logger
}

// New creates an adapter for the Otter dialect.
func New() *Adapter {
	return &Adapter{
		parser: otter.NewParser(),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for per-document summaries.
func (a *Adapter) SetLogger(l *zap.Logger) {
	a.logger = l
}

// SetAuthor sets the fallback gene author used when writing.
func (a *Adapter) SetAuthor(name string) {
	a.author = name
}

// SetEmailDomain sets the domain of the fallback author_email used when writing.
func (a *Adapter) SetEmailDomain(domain string) {
	a.emailDomain = domain
}

// Read parses one document and returns its first annotation set with bounds
// computed over the set's top-level features.
func (a *Adapter) Read(r io.Reader) (*CurationSet, error) {
	return a.read(r, "")
}

// ReadFile opens and reads the document at path.
func (a *Adapter) ReadFile(path string) (*CurationSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cs, err := a.read(bufio.NewReader(f), path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return cs, nil
}

func (a *Adapter) read(r io.Reader, source string) (*CurationSet, error) {
	set, err := a.parser.ParseOne(r)
	if err != nil {
		return nil, err
	}

	cs := &CurationSet{
		Source: source,
		Set:    set,
		Bounds: set.Bounds(),
	}
	a.logger.Debug("read annotation set",
		zap.String("source", source),
		zap.Int("features", len(set.Features)),
		zap.Int("genes", len(set.Genes())),
		zap.Int64("low", cs.Low()),
		zap.Int64("high", cs.High()))
	return cs, nil
}

// Write renders set and writes it to w. The output is flushed before Write returns.
func (a *Adapter) Write(w io.Writer, set *model.AnnotationSet) error {
	r := otter.NewRenderer()
	r.SetAuthor(a.author)
	r.SetEmailDomain(a.emailDomain)
	if err := r.Render(set); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	bw := bufio.NewWriter(w)
	if _, err := r.WriteTo(bw); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	a.logger.Debug("wrote annotation set", zap.Int("features", len(set.Features)))
	return nil
}

// WriteFile renders set into the file at path, replacing its contents.
func (a *Adapter) WriteFile(path string, set *model.AnnotationSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := a.Write(f, set); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
