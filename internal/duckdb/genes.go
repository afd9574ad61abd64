package duckdb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/inodb/otterxml/internal/model"
	"github.com/inodb/otterxml/internal/otter"
)

// GeneSpan locates a stored gene.
type GeneSpan struct {
	Path     string
	StableID string
	Name     string
	Strand   int8
	Low      int64
	High     int64
}

// LookupGene rebuilds the gene with the given stable id, including its
// transcripts, exons, evidence, remarks and names. When several documents hold
// the id, the one with the lowest path wins. It returns nil if no gene matches.
func (s *Store) LookupGene(stableID string) (*model.Gene, error) {
	var path string
	var seq int64
	err := s.db.QueryRow(`SELECT path, gene_seq FROM genes
		WHERE stable_id=? ORDER BY path, gene_seq LIMIT 1`, stableID).Scan(&path, &seq)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query gene: %w", err)
	}
	return s.loadGene(path, seq)
}

// GenesOverlapping returns the stored genes whose [low, high] range overlaps
// the query range, ordered by low coordinate. Genes without exons are excluded.
func (s *Store) GenesOverlapping(low, high int64) ([]GeneSpan, error) {
	rows, err := s.db.Query(`SELECT path, stable_id, name, strand, low, high
		FROM genes
		WHERE NOT (low = 0 AND high = 0) AND low <= ? AND high >= ?
		ORDER BY low, path, gene_seq`, high, low)
	if err != nil {
		return nil, fmt.Errorf("query overlapping genes: %w", err)
	}
	defer rows.Close()

	var spans []GeneSpan
	for rows.Next() {
		var g GeneSpan
		if err := rows.Scan(&g.Path, &g.StableID, &g.Name, &g.Strand, &g.Low, &g.High); err != nil {
			return nil, fmt.Errorf("scan gene span: %w", err)
		}
		spans = append(spans, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gene spans: %w", err)
	}
	return spans, nil
}

func (s *Store) loadGene(path string, geneSeq int64) (*model.Gene, error) {
	g := &model.Gene{Holder: true, Type: otter.GeneType}
	var id string
	var name string
	err := s.db.QueryRow(`SELECT stable_id, name, author, author_email, strand
		FROM genes WHERE path=? AND gene_seq=?`, path, geneSeq).
		Scan(&id, &name, &g.Author, &g.AuthorEmail, &g.Strand)
	if err != nil {
		return nil, fmt.Errorf("query gene %d of %s: %w", geneSeq, path, err)
	}
	g.SetStableID(id)

	names, err := s.loadStrings(path, geneSeq)
	if err != nil {
		return nil, err
	}
	remarks, err := s.loadRemarks(path, geneSeq)
	if err != nil {
		return nil, err
	}

	for _, v := range names[stringKey{geneLevel, kindName}] {
		g.DbXrefs = append(g.DbXrefs, model.DbXref{IDType: model.OtterNameXref, IDValue: v, DB: "otter"})
	}
	g.Synonyms = names[stringKey{geneLevel, kindSynonym}]
	for _, text := range remarks[geneLevel] {
		g.Comments = append(g.Comments, model.NewComment(g.ID, text))
	}

	transcripts, err := s.loadTranscripts(path, geneSeq)
	if err != nil {
		return nil, err
	}
	exons, err := s.loadExons(path, geneSeq)
	if err != nil {
		return nil, err
	}
	evidence, err := s.loadEvidence(path, geneSeq)
	if err != nil {
		return nil, err
	}

	for i, t := range transcripts {
		tseq := int64(i)
		t.Synonyms = names[stringKey{tseq, kindName}]
		for _, text := range remarks[tseq] {
			t.Comments = append(t.Comments, model.NewComment(t.ID, text))
		}
		t.Evidence = evidence[tseq]
		for _, e := range exons[tseq] {
			t.AddExon(e)
		}
		g.AddTranscript(t)
	}
	return g, nil
}

type stringKey struct {
	tseq int64
	kind string
}

func (s *Store) loadStrings(path string, geneSeq int64) (map[stringKey][]string, error) {
	rows, err := s.db.Query(`SELECT transcript_seq, kind, value FROM synonyms
		WHERE path=? AND gene_seq=? ORDER BY transcript_seq, kind, seq`, path, geneSeq)
	if err != nil {
		return nil, fmt.Errorf("query synonyms: %w", err)
	}
	defer rows.Close()

	out := make(map[stringKey][]string)
	for rows.Next() {
		var k stringKey
		var v string
		if err := rows.Scan(&k.tseq, &k.kind, &v); err != nil {
			return nil, fmt.Errorf("scan synonym: %w", err)
		}
		out[k] = append(out[k], v)
	}
	return out, rows.Err()
}

func (s *Store) loadRemarks(path string, geneSeq int64) (map[int64][]string, error) {
	rows, err := s.db.Query(`SELECT transcript_seq, text FROM remarks
		WHERE path=? AND gene_seq=? ORDER BY transcript_seq, seq`, path, geneSeq)
	if err != nil {
		return nil, fmt.Errorf("query remarks: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var tseq int64
		var text string
		if err := rows.Scan(&tseq, &text); err != nil {
			return nil, fmt.Errorf("scan remark: %w", err)
		}
		out[tseq] = append(out[tseq], text)
	}
	return out, rows.Err()
}

func (s *Store) loadTranscripts(path string, geneSeq int64) ([]*model.Transcript, error) {
	rows, err := s.db.Query(`SELECT stable_id, transcript_class, strand,
		translation_start, translation_end,
		cds_start_not_found, cds_end_not_found, mrna_start_not_found, mrna_end_not_found
		FROM transcripts WHERE path=? AND gene_seq=? ORDER BY transcript_seq`, path, geneSeq)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var out []*model.Transcript
	for rows.Next() {
		t := &model.Transcript{Type: otter.FeatureType}
		var id string
		if err := rows.Scan(&id, &t.Biotype, &t.Strand,
			&t.TranslationStart, &t.TranslationEnd,
			&t.CDSStartNotFound, &t.CDSEndNotFound, &t.MRNAStartNotFound, &t.MRNAEndNotFound,
		); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		t.SetStableID(id)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) loadExons(path string, geneSeq int64) (map[int64][]*model.Exon, error) {
	rows, err := s.db.Query(`SELECT transcript_seq, stable_id, exon_start, exon_end, strand, phase
		FROM exons WHERE path=? AND gene_seq=? ORDER BY transcript_seq, seq`, path, geneSeq)
	if err != nil {
		return nil, fmt.Errorf("query exons: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]*model.Exon)
	for rows.Next() {
		var tseq, phase int64
		var id string
		e := &model.Exon{Type: otter.FeatureType}
		if err := rows.Scan(&tseq, &id, &e.Start, &e.End, &e.Strand, &phase); err != nil {
			return nil, fmt.Errorf("scan exon: %w", err)
		}
		e.SetStableID(id)
		e.Phase = int(phase)
		out[tseq] = append(out[tseq], e)
	}
	return out, rows.Err()
}

func (s *Store) loadEvidence(path string, geneSeq int64) (map[int64][]*model.Evidence, error) {
	rows, err := s.db.Query(`SELECT transcript_seq, name, type
		FROM evidence WHERE path=? AND gene_seq=? ORDER BY transcript_seq, seq`, path, geneSeq)
	if err != nil {
		return nil, fmt.Errorf("query evidence: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]*model.Evidence)
	for rows.Next() {
		var tseq int64
		e := &model.Evidence{}
		if err := rows.Scan(&tseq, &e.SetID, &e.DBType); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		out[tseq] = append(out[tseq], e)
	}
	return out, rows.Err()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
