// Package duckdb stores parsed Otter documents in DuckDB so genes can be
// queried across many documents and documents can be exported again.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding annotation documents.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file, "" for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Rows of child tables refer to their gene by (path, gene_seq), where gene_seq
// is the gene's position among the document's features. transcript_seq is -1
// for gene-level remarks and names.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		path VARCHAR,
		size BIGINT,
		mod_time TIMESTAMP,
		author VARCHAR,
		low BIGINT,
		high BIGINT,
		features BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS fragments (
		path VARCHAR,
		seq BIGINT,
		id VARCHAR,
		chromosome VARCHAR,
		asm_start BIGINT,
		asm_end BIGINT,
		strand TINYINT,
		asm_offset BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS genes (
		path VARCHAR,
		gene_seq BIGINT,
		stable_id VARCHAR,
		name VARCHAR,
		author VARCHAR,
		author_email VARCHAR,
		strand TINYINT,
		low BIGINT,
		high BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS transcripts (
		path VARCHAR,
		gene_seq BIGINT,
		transcript_seq BIGINT,
		stable_id VARCHAR,
		transcript_class VARCHAR,
		strand TINYINT,
		translation_start BIGINT,
		translation_end BIGINT,
		cds_start_not_found VARCHAR,
		cds_end_not_found VARCHAR,
		mrna_start_not_found VARCHAR,
		mrna_end_not_found VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS exons (
		path VARCHAR,
		gene_seq BIGINT,
		transcript_seq BIGINT,
		seq BIGINT,
		stable_id VARCHAR,
		exon_start BIGINT,
		exon_end BIGINT,
		strand TINYINT,
		phase BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS evidence (
		path VARCHAR,
		gene_seq BIGINT,
		transcript_seq BIGINT,
		seq BIGINT,
		name VARCHAR,
		type VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS remarks (
		path VARCHAR,
		gene_seq BIGINT,
		transcript_seq BIGINT,
		seq BIGINT,
		text VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS synonyms (
		path VARCHAR,
		gene_seq BIGINT,
		transcript_seq BIGINT,
		kind VARCHAR,
		seq BIGINT,
		value VARCHAR
	)`,
}

// tables lists every table keyed by document path, in deletion order.
var tables = []string{"synonyms", "remarks", "evidence", "exons", "transcripts", "genes", "fragments", "documents"}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
