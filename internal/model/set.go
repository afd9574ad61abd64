package model

// AnnotationSet is the top-level container parsed from one <otter> document.
type AnnotationSet struct {
	Features []Feature // genes and assembly fragments, in close order
	Author   string
}

// AddFeature appends a top-level feature.
func (s *AnnotationSet) AddFeature(f Feature) {
	s.Features = append(s.Features, f)
}

// Genes returns the genes of the set in document order.
func (s *AnnotationSet) Genes() []*Gene {
	var genes []*Gene
	for _, f := range s.Features {
		if g, ok := f.(*Gene); ok {
			genes = append(genes, g)
		}
	}
	return genes
}

// Fragments returns the assembly fragments of the set in document order.
func (s *AnnotationSet) Fragments() []*AssemblyFeature {
	var frags []*AssemblyFeature
	for _, f := range s.Features {
		if a, ok := f.(*AssemblyFeature); ok {
			frags = append(frags, a)
		}
	}
	return frags
}

// FindGene returns the gene with the given stable id, or nil if not found.
func (s *AnnotationSet) FindGene(id string) *Gene {
	for _, g := range s.Genes() {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// Bounds computes the low/high extent over the set's top-level features.
func (s *AnnotationSet) Bounds() Bounds {
	return ComputeBounds(s.Features)
}

// Bounds is a low/high interval whose presence is tracked explicitly,
// so negative coordinates are valid values.
type Bounds struct {
	Low   int64
	High  int64
	Valid bool
}

// Include widens the bounds to cover [low, high].
// Low moves when it is unset or greater than the candidate; high moves
// when it is unset or less than the candidate.
func (b *Bounds) Include(low, high int64) {
	if !b.Valid || b.Low > low {
		b.Low = low
	}
	if !b.Valid || b.High < high {
		b.High = high
	}
	b.Valid = true
}

// ComputeBounds returns the extent of the given features. Features that report
// their own Bounds are skipped when those bounds are not Valid, so a gene
// without exons does not pull the range towards 0.
func ComputeBounds(features []Feature) Bounds {
	var b Bounds
	for _, f := range features {
		if e, ok := f.(interface{ Bounds() Bounds }); ok {
			fb := e.Bounds()
			if fb.Valid {
				b.Include(fb.Low, fb.High)
			}
			continue
		}
		b.Include(f.Low(), f.High())
	}
	return b
}
