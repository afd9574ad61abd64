package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/otterxml/internal/model"
)

// Values of the synonyms.kind column.
const (
	kindName    = "name"
	kindSynonym = "synonym"
)

// geneLevel is the transcript_seq of rows that belong to the gene itself.
const geneLevel = -1

// DocumentInfo summarizes one stored document.
type DocumentInfo struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Author   string
	Low      int64
	High     int64
	Features int64
	Genes    int64
}

// WriteDocument stores set under fp.Path, replacing any rows previously
// stored for that path. Rows are written with the Appender API.
func (s *Store) WriteDocument(fp FileFingerprint, set *model.AnnotationSet) (err error) {
	if err := s.DeleteDocument(fp.Path); err != nil {
		return err
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	app := make(map[string]*goduckdb.Appender, len(tables))
	for _, table := range tables {
		var a *goduckdb.Appender
		if err := conn.Raw(func(driverConn any) error {
			var err error
			a, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
			return err
		}); err != nil {
			closeAppenders(app)
			return fmt.Errorf("create appender %s: %w", table, err)
		}
		app[table] = a
	}
	defer func() {
		closeAppenders(app)
		if err != nil {
			// Closing flushes whatever was appended; drop the partial document.
			s.DeleteDocument(fp.Path)
		}
	}()

	b := set.Bounds()
	if err := app["documents"].AppendRow(
		fp.Path, fp.Size, fp.ModTime.UTC(), set.Author, b.Low, b.High, int64(len(set.Features)),
	); err != nil {
		return fmt.Errorf("append document: %w", err)
	}

	for i, f := range set.Features {
		seq := int64(i)
		switch f := f.(type) {
		case *model.AssemblyFeature:
			if err := app["fragments"].AppendRow(
				fp.Path, seq, f.ID, f.Chromosome, f.Start, f.End, f.Strand, f.AssemblyOffset,
			); err != nil {
				return fmt.Errorf("append fragment: %w", err)
			}
		case *model.Gene:
			if err := appendGene(app, fp.Path, seq, f); err != nil {
				return err
			}
		}
	}

	for _, table := range tables {
		if err := app[table].Flush(); err != nil {
			return fmt.Errorf("flush %s: %w", table, err)
		}
	}
	return nil
}

func appendGene(app map[string]*goduckdb.Appender, path string, geneSeq int64, g *model.Gene) error {
	name, _ := g.OtterName()
	if err := app["genes"].AppendRow(
		path, geneSeq, g.ID, name, g.Author, g.AuthorEmail, g.Strand, g.Low(), g.High(),
	); err != nil {
		return fmt.Errorf("append gene %s: %w", g.ID, err)
	}

	var names []string
	for _, x := range g.DbXrefs {
		if x.IDType == model.OtterNameXref {
			names = append(names, x.IDValue)
		}
	}
	if err := appendStrings(app["synonyms"], path, geneSeq, geneLevel, kindName, names); err != nil {
		return err
	}
	if err := appendStrings(app["synonyms"], path, geneSeq, geneLevel, kindSynonym, g.Synonyms); err != nil {
		return err
	}
	if err := appendRemarks(app["remarks"], path, geneSeq, geneLevel, g.Comments); err != nil {
		return err
	}

	for ti, t := range g.Transcripts {
		tseq := int64(ti)
		if err := app["transcripts"].AppendRow(
			path, geneSeq, tseq, t.ID, t.Biotype, t.Strand, t.TranslationStart, t.TranslationEnd,
			t.CDSStartNotFound, t.CDSEndNotFound, t.MRNAStartNotFound, t.MRNAEndNotFound,
		); err != nil {
			return fmt.Errorf("append transcript %s: %w", t.ID, err)
		}
		if err := appendStrings(app["synonyms"], path, geneSeq, tseq, kindName, t.Synonyms); err != nil {
			return err
		}
		if err := appendRemarks(app["remarks"], path, geneSeq, tseq, t.Comments); err != nil {
			return err
		}
		for ei, e := range t.Evidence {
			if err := app["evidence"].AppendRow(path, geneSeq, tseq, int64(ei), e.SetID, e.DBType); err != nil {
				return fmt.Errorf("append evidence: %w", err)
			}
		}
		for ei, e := range t.Exons {
			if err := app["exons"].AppendRow(
				path, geneSeq, tseq, int64(ei), e.ID, e.Start, e.End, e.Strand, int64(e.Phase),
			); err != nil {
				return fmt.Errorf("append exon %s: %w", e.ID, err)
			}
		}
	}
	return nil
}

func appendStrings(a *goduckdb.Appender, path string, geneSeq, tseq int64, kind string, values []string) error {
	for i, v := range values {
		if err := a.AppendRow(path, geneSeq, tseq, kind, int64(i), v); err != nil {
			return fmt.Errorf("append %s: %w", kind, err)
		}
	}
	return nil
}

func appendRemarks(a *goduckdb.Appender, path string, geneSeq, tseq int64, comments []model.Comment) error {
	for i, c := range comments {
		if err := a.AppendRow(path, geneSeq, tseq, int64(i), c.Text); err != nil {
			return fmt.Errorf("append remark: %w", err)
		}
	}
	return nil
}

func closeAppenders(app map[string]*goduckdb.Appender) {
	for _, a := range app {
		a.Close()
	}
}

// DeleteDocument removes every row stored for path.
func (s *Store) DeleteDocument(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, table := range tables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE path=?", path); err != nil {
			tx.Rollback()
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// Documents lists the stored documents ordered by path.
func (s *Store) Documents() ([]DocumentInfo, error) {
	rows, err := s.db.Query(`SELECT
		d.path, d.size, d.mod_time, d.author, d.low, d.high, d.features,
		(SELECT count(*) FROM genes g WHERE g.path = d.path)
		FROM documents d
		ORDER BY d.path`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var d DocumentInfo
		if err := rows.Scan(&d.Path, &d.Size, &d.ModTime, &d.Author, &d.Low, &d.High, &d.Features, &d.Genes); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// LoadDocument rebuilds the annotation set stored under path, with features in
// their original order. It returns nil if the path is not stored.
func (s *Store) LoadDocument(path string) (*model.AnnotationSet, error) {
	var author string
	var features int64
	err := s.db.QueryRow("SELECT author, features FROM documents WHERE path=?", path).Scan(&author, &features)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query document: %w", err)
	}

	ordered := make([]model.Feature, features)

	frags, err := s.loadFragments(path)
	if err != nil {
		return nil, err
	}
	for seq, f := range frags {
		if seq >= 0 && seq < features {
			ordered[seq] = f
		}
	}

	seqs, err := s.geneSeqs(path)
	if err != nil {
		return nil, err
	}
	for _, seq := range seqs {
		g, err := s.loadGene(path, seq)
		if err != nil {
			return nil, err
		}
		if seq >= 0 && seq < features {
			ordered[seq] = g
		}
	}

	set := &model.AnnotationSet{Author: author}
	for _, f := range ordered {
		if f != nil {
			set.AddFeature(f)
		}
	}
	return set, nil
}

func (s *Store) loadFragments(path string) (map[int64]*model.AssemblyFeature, error) {
	rows, err := s.db.Query(`SELECT seq, id, chromosome, asm_start, asm_end, strand, asm_offset
		FROM fragments WHERE path=? ORDER BY seq`, path)
	if err != nil {
		return nil, fmt.Errorf("query fragments: %w", err)
	}
	defer rows.Close()

	frags := make(map[int64]*model.AssemblyFeature)
	for rows.Next() {
		var seq int64
		var f model.AssemblyFeature
		if err := rows.Scan(&seq, &f.ID, &f.Chromosome, &f.Start, &f.End, &f.Strand, &f.AssemblyOffset); err != nil {
			return nil, fmt.Errorf("scan fragment: %w", err)
		}
		frags[seq] = &f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fragments: %w", err)
	}
	return frags, nil
}

func (s *Store) geneSeqs(path string) ([]int64, error) {
	rows, err := s.db.Query("SELECT gene_seq FROM genes WHERE path=? ORDER BY gene_seq", path)
	if err != nil {
		return nil, fmt.Errorf("query genes: %w", err)
	}
	defer rows.Close()

	var seqs []int64
	for rows.Next() {
		var seq int64
		if err := rows.Scan(&seq); err != nil {
			return nil, fmt.Errorf("scan gene: %w", err)
		}
		seqs = append(seqs, seq)
	}
	return seqs, rows.Err()
}
