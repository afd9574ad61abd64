package otter

import (
	"strconv"
	"strings"

	"github.com/inodb/otterxml/internal/model"
)

// Paths of the set element. The parser accepts both spellings; the renderer
// writes the second.
const (
	setPath      = "otter:sequenceset"
	setAliasPath = "otter:sequence_set"
)

// Values assigned to the Type of features as they close.
const (
	GeneType    = "gene"
	FeatureType = "otter"
)

// otterHandlers returns the full handler table, with every path under the set
// element registered under both set spellings.
func otterHandlers() []TagHandler {
	handlers := []TagHandler{{FullName: "otter", LeafName: "otter"}}
	for _, h := range setHandlers() {
		alias := h
		alias.FullName = setAliasPath + strings.TrimPrefix(h.FullName, setPath)
		if h.FullName == setPath {
			alias.LeafName = leafOf(setAliasPath)
		}
		handlers = append(handlers, h, alias)
	}
	return handlers
}

func setHandlers() []TagHandler {
	return []TagHandler{
		{
			FullName: "otter:sequenceset", LeafName: "sequenceset",
			Open: func(s *State) error {
				s.setCurrent(&model.AnnotationSet{})
				return nil
			},
			Close: func(s *State) error { return s.finishCurrent() },
		},
		{
			FullName: "otter:sequenceset:author", LeafName: "author",
			Text: func(s *State, text string) error {
				set, err := s.Current()
				if err != nil {
					return err
				}
				set.Author = text
				return nil
			},
		},

		// Sequence fragments.
		{
			FullName: "otter:sequenceset:sequencefragment", LeafName: "sequencefragment",
			Open: func(s *State) error {
				s.Push(&model.AssemblyFeature{})
				return nil
			},
			Close: func(s *State) error {
				frag, err := pop[*model.AssemblyFeature](s)
				if err != nil {
					return err
				}
				set, err := s.Current()
				if err != nil {
					return err
				}
				set.AddFeature(frag)
				return nil
			},
		},
		{
			FullName: "otter:sequenceset:sequencefragment:id", LeafName: "id",
			Text: assign(func(a *model.AssemblyFeature, v string) { a.ID = v }),
		},
		{
			FullName: "otter:sequenceset:sequencefragment:chromosome", LeafName: "chromosome",
			Text: assign(func(a *model.AssemblyFeature, v string) { a.Chromosome = v }),
		},
		{
			FullName: "otter:sequenceset:sequencefragment:assemblystart", LeafName: "assemblystart",
			Text: convert(parseCoord, func(a *model.AssemblyFeature, n int64) { a.Start = n }),
		},
		{
			FullName: "otter:sequenceset:sequencefragment:assemblyend", LeafName: "assemblyend",
			Text: convert(parseCoord, func(a *model.AssemblyFeature, n int64) { a.End = n }),
		},
		{
			FullName: "otter:sequenceset:sequencefragment:assemblyori", LeafName: "assemblyori",
			Text: convert(parseStrand, func(a *model.AssemblyFeature, n int8) { a.Strand = n }),
		},
		{
			FullName: "otter:sequenceset:sequencefragment:assemblyoffsetstart", LeafName: "assemblyoffsetstart",
			Text: convert(parseCoord, func(a *model.AssemblyFeature, n int64) { a.AssemblyOffset = n }),
		},
		{
			// Older writers emitted this spelling.
			FullName: "otter:sequenceset:sequencefragment:assemblyoffset", LeafName: "assemblyoffset",
			Text: convert(parseCoord, func(a *model.AssemblyFeature, n int64) { a.AssemblyOffset = n }),
		},

		// Genes.
		{
			FullName: "otter:sequenceset:gene", LeafName: "gene",
			Open: func(s *State) error {
				s.Push(&model.Gene{})
				return nil
			},
			Close: func(s *State) error {
				gene, err := pop[*model.Gene](s)
				if err != nil {
					return err
				}
				set, err := s.Current()
				if err != nil {
					return err
				}
				set.AddFeature(gene)
				gene.Holder = true
				gene.Type = GeneType
				return nil
			},
		},
		{
			FullName: "otter:sequenceset:gene:author", LeafName: "author",
			Text: assign(func(g *model.Gene, v string) { g.Author = v }),
		},
		{
			FullName: "otter:sequenceset:gene:author_email", LeafName: "author_email",
			Text: assign(func(g *model.Gene, v string) { g.AuthorEmail = v }),
		},
		{
			FullName: "otter:sequenceset:gene:stable_id", LeafName: "stable_id",
			Text: assign((*model.Gene).SetStableID),
		},
		{
			FullName: "otter:sequenceset:gene:remark", LeafName: "remark",
			Text: assign(func(g *model.Gene, v string) {
				g.Comments = append(g.Comments, model.NewComment(g.ID, v))
			}),
		},
		{
			FullName: "otter:sequenceset:gene:name", LeafName: "name",
			Text: assign(func(g *model.Gene, v string) {
				g.DbXrefs = append(g.DbXrefs, model.DbXref{IDType: model.OtterNameXref, IDValue: v, DB: "otter"})
			}),
		},
		{
			FullName: "otter:sequenceset:gene:synonym", LeafName: "synonym",
			Text: assign(func(g *model.Gene, v string) { g.Synonyms = append(g.Synonyms, v) }),
		},

		// Transcripts.
		{
			FullName: "otter:sequenceset:gene:transcript", LeafName: "transcript",
			Open: func(s *State) error {
				s.Push(&model.Transcript{})
				return nil
			},
			Close: closeTranscript,
		},
		{
			FullName: "otter:sequenceset:gene:transcript:name", LeafName: "name",
			Text: assign(func(t *model.Transcript, v string) { t.Synonyms = append(t.Synonyms, v) }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:cds_start_not_found", LeafName: "cds_start_not_found",
			Text: assign(func(t *model.Transcript, v string) { t.CDSStartNotFound = v }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:cds_end_not_found", LeafName: "cds_end_not_found",
			Text: assign(func(t *model.Transcript, v string) { t.CDSEndNotFound = v }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:mRNA_start_not_found", LeafName: "mRNA_start_not_found",
			Text: assign(func(t *model.Transcript, v string) { t.MRNAStartNotFound = v }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:mRNA_end_not_found", LeafName: "mRNA_end_not_found",
			Text: assign(func(t *model.Transcript, v string) { t.MRNAEndNotFound = v }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:translation_start", LeafName: "translation_start",
			Text: assign(func(t *model.Transcript, v string) { t.SetProperty(model.PropTranslationStart, v) }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:translation_end", LeafName: "translation_end",
			Text: assign(func(t *model.Transcript, v string) { t.SetProperty(model.PropTranslationEnd, v) }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:remark", LeafName: "remark",
			Text: assign(func(t *model.Transcript, v string) {
				t.Comments = append(t.Comments, model.NewComment(t.ID, v))
			}),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:stable_id", LeafName: "stable_id",
			Text: assign((*model.Transcript).SetStableID),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:transcript_class", LeafName: "transcript_class",
			Text: assign(func(t *model.Transcript, v string) { t.Biotype = v }),
		},

		// Evidence.
		{
			FullName: "otter:sequenceset:gene:transcript:evidence", LeafName: "evidence",
			Open: func(s *State) error {
				s.Push(&model.Evidence{})
				return nil
			},
			Close: func(s *State) error {
				ev, err := pop[*model.Evidence](s)
				if err != nil {
					return err
				}
				t, err := peek[*model.Transcript](s)
				if err != nil {
					return err
				}
				t.Evidence = append(t.Evidence, ev)
				return nil
			},
		},
		{
			FullName: "otter:sequenceset:gene:transcript:evidence:name", LeafName: "name",
			Text: assign(func(e *model.Evidence, v string) { e.SetID = v }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:evidence:type", LeafName: "type",
			Text: assign(func(e *model.Evidence, v string) { e.DBType = v }),
		},

		// Exons.
		{
			FullName: "otter:sequenceset:gene:transcript:exon", LeafName: "exon",
			Open: func(s *State) error {
				s.Push(&model.Exon{})
				return nil
			},
			Close: func(s *State) error {
				exon, err := pop[*model.Exon](s)
				if err != nil {
					return err
				}
				t, err := peek[*model.Transcript](s)
				if err != nil {
					return err
				}
				t.AddExon(exon)
				t.Strand = exon.Strand
				exon.Type = FeatureType
				return nil
			},
		},
		{
			FullName: "otter:sequenceset:gene:transcript:exon:stable_id", LeafName: "stable_id",
			Text: assign((*model.Exon).SetStableID),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:exon:start", LeafName: "start",
			Text: convert(parseCoord, func(e *model.Exon, n int64) { e.Start = n }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:exon:end", LeafName: "end",
			Text: convert(parseCoord, func(e *model.Exon, n int64) { e.End = n }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:exon:strand", LeafName: "strand",
			Text: convert(parseStrand, func(e *model.Exon, n int8) { e.Strand = n }),
		},
		{
			FullName: "otter:sequenceset:gene:transcript:exon:frame", LeafName: "frame",
			Text: convert(PhaseFromFrame, func(e *model.Exon, n int) { e.Phase = n }),
		},
	}
}

// closeTranscript attaches the transcript to its gene, copies its strand up,
// and derives the translation interval when both bounds are present and numeric.
func closeTranscript(s *State) error {
	t, err := pop[*model.Transcript](s)
	if err != nil {
		return err
	}
	gene, err := peek[*model.Gene](s)
	if err != nil {
		return err
	}
	gene.AddTranscript(t)
	t.Type = FeatureType
	gene.Strand = t.Strand

	startText, hasStart := t.Property(model.PropTranslationStart)
	endText, hasEnd := t.Property(model.PropTranslationEnd)
	if !hasStart || !hasEnd {
		return nil
	}
	start, err := strconv.ParseInt(strings.TrimSpace(startText), 10, 64)
	if err != nil {
		return nil
	}
	end, err := strconv.ParseInt(strings.TrimSpace(endText), 10, 64)
	if err != nil {
		return nil
	}
	t.TranslationStart = start
	t.TranslationEnd = end
	t.RemoveProperty(model.PropTranslationStart)
	t.RemoveProperty(model.PropTranslationEnd)
	return nil
}

// assign returns a text action that sets a field on the entity atop the object stack.
func assign[T any](set func(T, string)) func(*State, string) error {
	return func(s *State, text string) error {
		v, err := peek[T](s)
		if err != nil {
			return err
		}
		set(v, text)
		return nil
	}
}

// convert is assign with a parse step; parse failures are malformed input.
func convert[T, N any](parse func(string) (N, error), set func(T, N)) func(*State, string) error {
	return func(s *State, text string) error {
		v, err := peek[T](s)
		if err != nil {
			return err
		}
		n, err := parse(text)
		if err != nil {
			return err
		}
		set(v, n)
		return nil
	}
}

// parseCoord parses an integer coordinate; blank text is 0.
func parseCoord(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	return strconv.ParseInt(text, 10, 64)
}

// parseStrand parses a strand or orientation; blank text is 0.
func parseStrand(text string) (int8, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(text, 10, 8)
	return int8(n), err
}
