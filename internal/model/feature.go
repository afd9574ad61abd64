// Package model provides the gene-model object graph built from Otter documents.
package model

// Feature is any annotation that can sit in an AnnotationSet.
type Feature interface {
	FeatureID() string
	Low() int64
	High() int64
}

// Comment is a free-text remark attached to a gene or transcript.
// Author, AuthorID and Timestamp are placeholders; the Otter dialect does not carry them.
type Comment struct {
	FeatureID string
	Text      string
	Author    string
	AuthorID  string
	Timestamp int64
}

// Placeholder comment metadata used when a remark is read from XML.
const (
	NoAuthor   = "no author"
	NoAuthorID = "no author id"
)

// NewComment creates a comment with placeholder author metadata.
func NewComment(featureID, text string) Comment {
	return Comment{
		FeatureID: featureID,
		Text:      text,
		Author:    NoAuthor,
		AuthorID:  NoAuthorID,
	}
}

// DbXref is an external cross-reference.
type DbXref struct {
	IDType  string // e.g. "OtterName"
	IDValue string
	DB      string // e.g. "otter"
}

// OtterNameXref is the IDType of the cross-reference holding a gene's Otter name.
const OtterNameXref = "OtterName"

// AssemblyFeature is one sequence fragment of the genomic tiling path.
type AssemblyFeature struct {
	ID             string
	Chromosome     string
	Start          int64 // assembly start
	End            int64 // assembly end
	Strand         int8  // assembly orientation, +1 or -1
	AssemblyOffset int64
}

// FeatureID returns the fragment identifier.
func (a *AssemblyFeature) FeatureID() string { return a.ID }

// Low returns the assembly start.
func (a *AssemblyFeature) Low() int64 { return a.Start }

// High returns the assembly end.
func (a *AssemblyFeature) High() int64 { return a.End }

// Evidence is a supporting-evidence record on a transcript.
type Evidence struct {
	SetID  string // populated from <name>
	DBType string
}
