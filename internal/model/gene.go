package model

// Gene is a holder feature grouping transcripts.
type Gene struct {
	ID          string // stable id
	Name        string // overwritten by the stable id
	Description string // overwritten by the stable id
	Type        string
	Holder      bool
	Strand      int8 // copied up from the last closed transcript
	Synonyms    []string
	Comments    []Comment
	DbXrefs     []DbXref
	Author      string
	AuthorEmail string
	Transcripts []*Transcript
}

// FeatureID returns the gene stable id.
func (g *Gene) FeatureID() string { return g.ID }

// SetStableID sets the id, name and description to the same value.
func (g *Gene) SetStableID(id string) {
	g.ID = id
	g.Name = id
	g.Description = id
}

// AddTranscript attaches a transcript and sets its back-reference.
func (g *Gene) AddTranscript(t *Transcript) {
	t.Gene = g
	g.Transcripts = append(g.Transcripts, t)
}

// OtterName returns the value of the first OtterName cross-reference.
func (g *Gene) OtterName() (string, bool) {
	for _, x := range g.DbXrefs {
		if x.IDType == OtterNameXref {
			return x.IDValue, true
		}
	}
	return "", false
}

// Bounds returns the extent of the gene's exons. It is not Valid when no
// transcript has exons.
func (g *Gene) Bounds() Bounds {
	var b Bounds
	for _, t := range g.Transcripts {
		if tb := t.Bounds(); tb.Valid {
			b.Include(tb.Low, tb.High)
		}
	}
	return b
}

// Low returns the lowest coordinate over all transcripts, 0 if there are none.
func (g *Gene) Low() int64 { return g.Bounds().Low }

// High returns the highest coordinate over all transcripts, 0 if there are none.
func (g *Gene) High() int64 { return g.Bounds().High }

// IsForwardStrand returns true if the gene is on the forward strand.
func (g *Gene) IsForwardStrand() bool {
	return g.Strand == 1
}

// IsReverseStrand returns true if the gene is on the reverse strand.
func (g *Gene) IsReverseStrand() bool {
	return g.Strand == -1
}

// Contains returns true if the given position is within the gene boundaries.
func (g *Gene) Contains(pos int64) bool {
	return pos >= g.Low() && pos <= g.High()
}
