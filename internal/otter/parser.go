// Package otter reads and writes the Otter XML annotation dialect.
//
// Parsing is path-addressed: every recognized element is identified by the
// colon-joined chain of its ancestors' local names (otter:sequenceset:gene:transcript:exon)
// and dispatched through a Registry of TagHandlers. Unknown elements are skipped
// together with their subtree. Rendering walks the model graph and writes the
// same dialect back out.
package otter

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/inodb/otterxml/internal/model"
)

// Parser reads Otter documents. A Parser holds only its immutable registry;
// each Parse call runs on a fresh State, so one Parser may serve many goroutines.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser for the Otter dialect.
func NewParser() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

// NewParserWithRegistry creates a parser that dispatches through r.
func NewParserWithRegistry(r *Registry) *Parser {
	return &Parser{registry: r}
}

// Parse reads one document and returns every annotation set it contains.
// The reader is not closed.
func (p *Parser) Parse(r io.Reader) ([]*model.AnnotationSet, error) {
	if r == nil {
		return nil, parseError("", "nil input", nil)
	}

	d := xml.NewDecoder(r)
	d.CharsetReader = charsetReader
	s := NewState(p.registry)

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := d.InputPos()
			return nil, &Error{Kind: ErrParse, Line: line, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if _, err := s.StartElement(t.Name.Local); err != nil {
				return nil, withLine(err, d)
			}
		case xml.CharData:
			s.Characters(t)
		case xml.EndElement:
			if err := s.EndElement(t.Name.Local); err != nil {
				return nil, withLine(err, d)
			}
		}
	}

	return s.EndDocument()
}

// ParseOne reads a document expected to hold a single annotation set and
// returns the first one.
func (p *Parser) ParseOne(r io.Reader) (*model.AnnotationSet, error) {
	sets, err := p.Parse(r)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, parseError("", "no sequence set in document", nil)
	}
	return sets[0], nil
}

// charsetReader decodes documents whose declaration names a non-UTF-8 encoding.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func withLine(err error, d *xml.Decoder) error {
	var e *Error
	if errors.As(err, &e) && e.Line == 0 {
		e.Line, _ = d.InputPos()
	}
	return err
}
