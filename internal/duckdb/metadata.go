package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// IsCurrent reports whether the document stored under fp.Path was written from
// a file with the same size and modification time.
func (s *Store) IsCurrent(fp FileFingerprint) (bool, error) {
	var size int64
	var mod time.Time
	err := s.db.QueryRow("SELECT size, mod_time FROM documents WHERE path=?", fp.Path).Scan(&size, &mod)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("query fingerprint: %w", err)
	}
	// TIMESTAMP columns keep microseconds.
	return size == fp.Size && mod.Equal(fp.ModTime.Truncate(time.Microsecond)), nil
}
