package model

// Property keys held in Transcript.Properties while a transcript is being read.
const (
	PropTranslationStart = "translation_start"
	PropTranslationEnd   = "translation_end"
)

// Transcript represents a specific gene isoform.
type Transcript struct {
	ID          string // stable id
	Name        string // overwritten by the stable id
	Description string // overwritten by the stable id
	Type        string
	Biotype     string // transcript_class
	Strand      int8   // copied up from the last closed exon
	Synonyms    []string
	Comments    []Comment
	Evidence    []*Evidence
	Exons       []*Exon

	// TranslationStart and TranslationEnd are genomic; both zero means no translation.
	TranslationStart int64
	TranslationEnd   int64

	CDSStartNotFound  string
	CDSEndNotFound    string
	MRNAStartNotFound string
	MRNAEndNotFound   string

	// Properties holds keys with no dedicated field.
	Properties map[string]string

	Gene *Gene
}

// FeatureID returns the transcript stable id.
func (t *Transcript) FeatureID() string { return t.ID }

// SetStableID sets the id, name and description to the same value.
func (t *Transcript) SetStableID(id string) {
	t.ID = id
	t.Name = id
	t.Description = id
}

// AddExon attaches an exon and sets its back-reference.
func (t *Transcript) AddExon(e *Exon) {
	e.Transcript = t
	t.Exons = append(t.Exons, e)
}

// SetProperty stores a value in the Properties side map.
func (t *Transcript) SetProperty(key, value string) {
	if t.Properties == nil {
		t.Properties = make(map[string]string)
	}
	t.Properties[key] = value
}

// Property returns a value from the Properties side map.
func (t *Transcript) Property(key string) (string, bool) {
	v, ok := t.Properties[key]
	return v, ok
}

// RemoveProperty deletes a key from the Properties side map.
func (t *Transcript) RemoveProperty(key string) {
	delete(t.Properties, key)
}

// HasTranslation returns true if both translation bounds are set.
func (t *Transcript) HasTranslation() bool {
	return t.TranslationStart != 0 && t.TranslationEnd != 0
}

// Bounds returns the extent of the exons; not Valid when there are none.
func (t *Transcript) Bounds() Bounds {
	var b Bounds
	for _, e := range t.Exons {
		b.Include(e.Start, e.End)
	}
	return b
}

// Low returns the lowest exon coordinate, 0 if there are no exons.
func (t *Transcript) Low() int64 { return t.Bounds().Low }

// High returns the highest exon coordinate, 0 if there are no exons.
func (t *Transcript) High() int64 { return t.Bounds().High }

// IsForwardStrand returns true if the transcript is on the forward strand.
func (t *Transcript) IsForwardStrand() bool {
	return t.Strand == 1
}

// IsReverseStrand returns true if the transcript is on the reverse strand.
func (t *Transcript) IsReverseStrand() bool {
	return t.Strand == -1
}

// Exon represents a single exon within a transcript.
type Exon struct {
	ID         string
	Name       string // overwritten by the stable id
	Type       string
	Start      int64
	End        int64
	Strand     int8
	Phase      int // 0, 1 or 2
	Transcript *Transcript
}

// FeatureID returns the exon stable id.
func (e *Exon) FeatureID() string { return e.ID }

// SetStableID sets the id and name to the same value.
func (e *Exon) SetStableID(id string) {
	e.ID = id
	e.Name = id
}

// Low returns the exon start.
func (e *Exon) Low() int64 { return e.Start }

// High returns the exon end.
func (e *Exon) High() int64 { return e.End }
