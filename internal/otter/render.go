package otter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"os/user"
	"strconv"

	"github.com/inodb/otterxml/internal/model"
)

// DefaultEmailDomain completes the fallback author_email address.
const DefaultEmailDomain = "sanger.ac.uk"

const indentUnit = "  "

// Tag literals written by the renderer.
const (
	tagOtter             = "otter"
	tagSequenceSet       = "sequence_set"
	tagSequenceFragment  = "sequencefragment"
	tagID                = "id"
	tagChromosome        = "chromosome"
	tagAssemblyStart     = "assemblystart"
	tagAssemblyEnd       = "assemblyend"
	tagAssemblyOri       = "assemblyori"
	tagAssemblyOffset    = "assemblyoffsetstart"
	tagGene              = "gene"
	tagStableID          = "stable_id"
	tagName              = "name"
	tagSynonym           = "synonym"
	tagRemark            = "remark"
	tagAuthor            = "author"
	tagAuthorEmail       = "author_email"
	tagTranscript        = "transcript"
	tagTranscriptClass   = "transcript_class"
	tagCDSStartNotFound  = "cds_start_not_found"
	tagCDSEndNotFound    = "cds_end_not_found"
	tagMRNAStartNotFound = "mRNA_start_not_found"
	tagMRNAEndNotFound   = "mRNA_end_not_found"
	tagTranslationStart  = "translation_start"
	tagTranslationEnd    = "translation_end"
	tagEvidence          = "evidence"
	tagExon              = "exon"
	tagStart             = "start"
	tagEnd               = "end"
	tagStrand            = "strand"
	tagFrame             = "frame"
)

// Renderer serializes a model graph to the Otter dialect. Use one Renderer per
// traversal; output accumulates in a private buffer.
type Renderer struct {
	buf         bytes.Buffer
	depth       int
	indent      string
	author      string
	emailDomain string
}

// NewRenderer creates a renderer whose fallback author is the current OS user.
func NewRenderer() *Renderer {
	return &Renderer{
		author:      currentUser(),
		emailDomain: DefaultEmailDomain,
	}
}

// SetAuthor sets the author written for genes that carry none.
func (r *Renderer) SetAuthor(name string) {
	if name != "" {
		r.author = name
	}
}

// SetEmailDomain sets the domain of the fallback author_email.
func (r *Renderer) SetEmailDomain(domain string) {
	if domain != "" {
		r.emailDomain = domain
	}
}

// Render writes v, which must be an *model.AnnotationSet or a feature reachable
// from one. Any other value fails with ErrUnsupported.
func (r *Renderer) Render(v any) error {
	switch f := v.(type) {
	case *model.AnnotationSet:
		return r.visitSet(f)
	case *model.AssemblyFeature:
		r.visitFragment(f)
	case *model.Gene:
		return r.visitGene(f)
	case *model.Transcript:
		return r.visitTranscript(f)
	case *model.Exon:
		r.visitExon(f)
	case *model.Evidence:
		r.visitEvidence(f)
	default:
		return &Error{Kind: ErrUnsupported, Msg: fmt.Sprintf("no visit behavior for %T", v)}
	}
	return nil
}

// Bytes returns the rendered output.
func (r *Renderer) Bytes() []byte { return r.buf.Bytes() }

// String returns the rendered output.
func (r *Renderer) String() string { return r.buf.String() }

// WriteTo writes the rendered output to w.
func (r *Renderer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.buf.Bytes())
	return int64(n), err
}

// Marshal renders a complete annotation set.
func Marshal(set *model.AnnotationSet) ([]byte, error) {
	r := NewRenderer()
	if err := r.Render(set); err != nil {
		return nil, err
	}
	return r.Bytes(), nil
}

func (r *Renderer) visitSet(set *model.AnnotationSet) error {
	r.openLine(tagOtter)
	r.push()
	r.openLine(tagSequenceSet)
	r.push()
	for _, f := range set.Features {
		if err := r.Render(f); err != nil {
			return err
		}
		r.buf.WriteByte('\n')
	}
	r.pop()
	r.closeLine(tagSequenceSet)
	r.pop()
	r.buf.WriteString(r.indent)
	r.closeTag(tagOtter)
	return nil
}

func (r *Renderer) visitFragment(f *model.AssemblyFeature) {
	r.openLine(tagSequenceFragment)
	r.push()
	r.wrap(tagID, f.ID)
	r.wrap(tagChromosome, f.Chromosome)
	r.wrap(tagAssemblyStart, strconv.FormatInt(f.Start, 10))
	r.wrap(tagAssemblyEnd, strconv.FormatInt(f.End, 10))
	r.wrap(tagAssemblyOri, strconv.Itoa(int(f.Strand)))
	r.wrap(tagAssemblyOffset, strconv.FormatInt(f.AssemblyOffset, 10))
	r.pop()
	r.closeLine(tagSequenceFragment)
}

func (r *Renderer) visitGene(g *model.Gene) error {
	r.openLine(tagGene)
	r.push()

	r.wrap(tagStableID, g.ID)
	for _, x := range g.DbXrefs {
		if x.IDType == model.OtterNameXref {
			r.wrap(tagName, x.IDValue)
		}
	}
	for _, s := range g.Synonyms {
		r.wrap(tagSynonym, s)
	}
	for _, c := range g.Comments {
		r.wrap(tagRemark, c.Text)
	}

	author := g.Author
	if author == "" {
		author = r.author
	}
	r.wrap(tagAuthor, author)

	email := g.AuthorEmail
	if email == "" {
		email = r.author + "@" + r.emailDomain
	}
	r.wrap(tagAuthorEmail, email)

	for _, t := range g.Transcripts {
		if err := r.visitTranscript(t); err != nil {
			return err
		}
		r.buf.WriteByte('\n')
	}

	r.pop()
	r.closeLine(tagGene)
	return nil
}

func (r *Renderer) visitTranscript(t *model.Transcript) error {
	r.openLine(tagTranscript)
	r.push()

	r.wrap(tagStableID, t.ID)
	if len(t.Synonyms) == 0 {
		r.wrap(tagName, "")
	}
	for _, s := range t.Synonyms {
		r.wrap(tagName, s)
	}
	for _, c := range t.Comments {
		r.wrap(tagRemark, c.Text)
	}
	r.wrap(tagTranscriptClass, t.Biotype)
	r.wrap(tagCDSStartNotFound, t.CDSStartNotFound)
	r.wrap(tagCDSEndNotFound, t.CDSEndNotFound)
	r.wrap(tagMRNAStartNotFound, t.MRNAStartNotFound)
	r.wrap(tagMRNAEndNotFound, t.MRNAEndNotFound)

	for _, e := range t.Evidence {
		r.visitEvidence(e)
	}

	if t.HasTranslation() {
		r.wrap(tagTranslationStart, strconv.FormatInt(t.TranslationStart, 10))
		r.wrap(tagTranslationEnd, strconv.FormatInt(t.TranslationEnd, 10))
	}

	for _, e := range t.Exons {
		r.visitExon(e)
		r.buf.WriteByte('\n')
	}

	r.pop()
	r.closeLine(tagTranscript)
	return nil
}

func (r *Renderer) visitExon(e *model.Exon) {
	r.openLine(tagExon)
	r.push()
	r.wrap(tagStableID, e.ID)
	r.wrap(tagStart, strconv.FormatInt(e.Start, 10))
	r.wrap(tagEnd, strconv.FormatInt(e.End, 10))
	r.wrap(tagStrand, strconv.Itoa(int(e.Strand)))
	r.wrap(tagFrame, strconv.Itoa(FrameFromPhase(e.Phase)))
	r.pop()
	r.closeLine(tagExon)
}

func (r *Renderer) visitEvidence(e *model.Evidence) {
	r.openLine(tagEvidence)
	r.push()
	r.wrap(tagName, e.SetID)
	r.pop()
	r.closeLine(tagEvidence)
}

func (r *Renderer) push() {
	r.depth++
	r.indent += indentUnit
}

func (r *Renderer) pop() {
	if r.depth == 0 {
		return
	}
	r.depth--
	r.indent = r.indent[:len(r.indent)-len(indentUnit)]
}

func (r *Renderer) openTag(tag string) {
	r.buf.WriteByte('<')
	r.buf.WriteString(tag)
	r.buf.WriteByte('>')
}

func (r *Renderer) closeTag(tag string) {
	r.buf.WriteString("</")
	r.buf.WriteString(tag)
	r.buf.WriteByte('>')
}

func (r *Renderer) openLine(tag string) {
	r.buf.WriteString(r.indent)
	r.openTag(tag)
	r.buf.WriteByte('\n')
}

func (r *Renderer) closeLine(tag string) {
	r.buf.WriteString(r.indent)
	r.closeTag(tag)
	r.buf.WriteByte('\n')
}

// wrap writes <indent><tag>value</tag>\n with the value escaped.
func (r *Renderer) wrap(tag, value string) {
	r.buf.WriteString(r.indent)
	r.openTag(tag)
	// bytes.Buffer writes never fail.
	_ = xml.EscapeText(&r.buf, []byte(value))
	r.closeTag(tag)
	r.buf.WriteByte('\n')
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
