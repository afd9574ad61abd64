package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/otterxml/internal/model"
	"github.com/inodb/otterxml/internal/otter"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func loadSample(t *testing.T) *model.AnnotationSet {
	t.Helper()
	f, err := os.Open("testdata/sample.xml")
	require.NoError(t, err)
	defer f.Close()
	set, err := otter.NewParser().ParseOne(f)
	require.NoError(t, err)
	return set
}

func sampleFingerprint(path string) FileFingerprint {
	return FileFingerprint{Path: path, Size: 1234, ModTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, "", s.Path())
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "otter.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteDocumentAndList(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteDocument(sampleFingerprint("a.xml"), loadSample(t)))

	docs, err := s.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	d := docs[0]
	assert.Equal(t, "a.xml", d.Path)
	assert.Equal(t, int64(1234), d.Size)
	assert.Equal(t, "jgrg", d.Author)
	assert.Equal(t, int64(1000), d.Low)
	assert.Equal(t, int64(105321), d.High)
	assert.Equal(t, int64(3), d.Features)
	assert.Equal(t, int64(2), d.Genes)
	assert.True(t, d.ModTime.Equal(sampleFingerprint("a.xml").ModTime))
}

func TestWriteDocument_Replaces(t *testing.T) {
	s := openInMemory(t)
	set := loadSample(t)
	require.NoError(t, s.WriteDocument(sampleFingerprint("a.xml"), set))
	require.NoError(t, s.WriteDocument(sampleFingerprint("a.xml"), set))

	docs, err := s.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, int64(2), docs[0].Genes)

	var exons int
	require.NoError(t, s.DB().QueryRow("SELECT count(*) FROM exons").Scan(&exons))
	assert.Equal(t, 3, exons)
}

func TestLookupGene(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteDocument(sampleFingerprint("a.xml"), loadSample(t)))

	g, err := s.LookupGene("OTTHUMG00000000001")
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.Equal(t, "OTTHUMG00000000001", g.ID)
	assert.True(t, g.Holder)
	assert.Equal(t, otter.GeneType, g.Type)
	name, ok := g.OtterName()
	require.True(t, ok)
	assert.Equal(t, "RP11-34P13.1", name)
	assert.Equal(t, []string{"FAM138A"}, g.Synonyms)
	require.Len(t, g.Comments, 1)
	assert.Equal(t, "novel gene", g.Comments[0].Text)
	assert.Equal(t, "ak1", g.Author)
	assert.Equal(t, int8(1), g.Strand)

	require.Len(t, g.Transcripts, 1)
	tr := g.Transcripts[0]
	assert.Same(t, g, tr.Gene)
	assert.Equal(t, "Coding", tr.Biotype)
	assert.Equal(t, []string{"RP11-34P13.1-001"}, tr.Synonyms)
	assert.Equal(t, int64(1250), tr.TranslationStart)
	assert.Equal(t, int64(1950), tr.TranslationEnd)
	assert.Equal(t, "1", tr.MRNAEndNotFound)
	require.Len(t, tr.Comments, 1)
	assert.Equal(t, "not for VEGA", tr.Comments[0].Text)
	require.Len(t, tr.Evidence, 1)
	assert.Equal(t, "cDNA", tr.Evidence[0].DBType)

	require.Len(t, tr.Exons, 2)
	assert.Equal(t, "OTTHUME00000000002", tr.Exons[1].ID)
	assert.Equal(t, int64(1800), tr.Exons[1].Start)
	assert.Equal(t, 1, tr.Exons[1].Phase)
	assert.Same(t, tr, tr.Exons[1].Transcript)
}

func TestLookupGene_Missing(t *testing.T) {
	s := openInMemory(t)
	g, err := s.LookupGene("NOPE")
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestGenesOverlapping(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteDocument(sampleFingerprint("a.xml"), loadSample(t)))

	spans, err := s.GenesOverlapping(1900, 5100)
	require.NoError(t, err)
	require.Len(t, spans, 2)
	assert.Equal(t, "OTTHUMG00000000001", spans[0].StableID)
	assert.Equal(t, int64(1200), spans[0].Low)
	assert.Equal(t, int64(2000), spans[0].High)
	assert.Equal(t, "RP11-34P13.1", spans[0].Name)
	assert.Equal(t, "OTTHUMG00000000002", spans[1].StableID)
	assert.Equal(t, int8(-1), spans[1].Strand)

	spans, err = s.GenesOverlapping(2001, 4999)
	require.NoError(t, err)
	assert.Empty(t, spans)
}

func TestLoadDocument_RoundTrip(t *testing.T) {
	s := openInMemory(t)
	orig := loadSample(t)
	require.NoError(t, s.WriteDocument(sampleFingerprint("a.xml"), orig))

	got, err := s.LoadDocument("a.xml")
	require.NoError(t, err)
	require.NotNil(t, got)

	r1 := otter.NewRenderer()
	r1.SetAuthor("tester")
	require.NoError(t, r1.Render(orig))
	r2 := otter.NewRenderer()
	r2.SetAuthor("tester")
	require.NoError(t, r2.Render(got))
	assert.Equal(t, r1.String(), r2.String())
	assert.Equal(t, orig.Bounds(), got.Bounds())
	assert.Equal(t, "jgrg", got.Author)
}

func TestLoadDocument_Missing(t *testing.T) {
	s := openInMemory(t)
	set, err := s.LoadDocument("missing.xml")
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestDeleteDocument(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteDocument(sampleFingerprint("a.xml"), loadSample(t)))
	require.NoError(t, s.WriteDocument(sampleFingerprint("b.xml"), loadSample(t)))
	require.NoError(t, s.DeleteDocument("a.xml"))

	docs, err := s.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b.xml", docs[0].Path)

	g, err := s.LookupGene("OTTHUMG00000000001")
	require.NoError(t, err)
	require.NotNil(t, g)
}

func TestIsCurrent(t *testing.T) {
	s := openInMemory(t)
	fp := sampleFingerprint("a.xml")

	ok, err := s.IsCurrent(fp)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.WriteDocument(fp, loadSample(t)))
	ok, err = s.IsCurrent(fp)
	require.NoError(t, err)
	assert.True(t, ok)

	changed := fp
	changed.Size++
	ok, err = s.IsCurrent(changed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatFile(t *testing.T) {
	fp, err := StatFile("testdata/sample.xml")
	require.NoError(t, err)
	assert.Equal(t, "testdata/sample.xml", fp.Path)
	assert.Positive(t, fp.Size)
	assert.False(t, fp.ModTime.IsZero())

	_, err = StatFile("testdata/missing.xml")
	assert.Error(t, err)
}
