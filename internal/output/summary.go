// Package output provides tabular formatters for annotation sets.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/otterxml/internal/model"
)

// SummaryWriter writes one tab-delimited row per transcript.
type SummaryWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewSummaryWriter creates a new transcript summary writer.
func NewSummaryWriter(w io.Writer) *SummaryWriter {
	return &SummaryWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"gene_stable_id",
			"gene_name",
			"transcript_stable_id",
			"transcript_class",
			"strand",
			"low",
			"high",
			"exons",
			"translation_start",
			"translation_end",
		},
	}
}

// WriteHeader writes the header line.
func (sw *SummaryWriter) WriteHeader() error {
	_, err := sw.w.WriteString(strings.Join(sw.columns, "\t") + "\n")
	return err
}

// Write writes the row for transcript t of gene g. A nil t writes a gene-only
// row with the transcript columns empty.
func (sw *SummaryWriter) Write(g *model.Gene, t *model.Transcript) error {
	name, _ := g.OtterName()

	values := []string{
		orDash(g.ID),
		orDash(name),
		"-", "-", "-", "-", "-", "-", "-", "-",
	}
	if t != nil {
		values[2] = orDash(t.ID)
		values[3] = orDash(t.Biotype)
		values[4] = strconv.Itoa(int(t.Strand))
		if len(t.Exons) > 0 {
			values[5] = strconv.FormatInt(t.Low(), 10)
			values[6] = strconv.FormatInt(t.High(), 10)
		}
		values[7] = strconv.Itoa(len(t.Exons))
		if t.HasTranslation() {
			values[8] = strconv.FormatInt(t.TranslationStart, 10)
			values[9] = strconv.FormatInt(t.TranslationEnd, 10)
		}
	}

	_, err := sw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteSet writes rows for every gene in set, in document order.
func (sw *SummaryWriter) WriteSet(set *model.AnnotationSet) error {
	for _, g := range set.Genes() {
		if len(g.Transcripts) == 0 {
			if err := sw.Write(g, nil); err != nil {
				return err
			}
			continue
		}
		for _, t := range g.Transcripts {
			if err := sw.Write(g, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (sw *SummaryWriter) Flush() error {
	return sw.w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
