package otter

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/otterxml/internal/model"
)

func sampleSet() *model.AnnotationSet {
	set := &model.AnnotationSet{}
	set.AddFeature(&model.AssemblyFeature{
		ID: "F1", Chromosome: "6", Start: 10, End: 500, Strand: 1, AssemblyOffset: 1,
	})

	g := &model.Gene{}
	g.SetStableID("G1")
	g.DbXrefs = append(g.DbXrefs, model.DbXref{IDType: model.OtterNameXref, IDValue: "ABC", DB: "otter"})

	tr := &model.Transcript{Biotype: "Coding", TranslationStart: 120, TranslationEnd: 180}
	tr.SetStableID("T1")
	tr.Evidence = append(tr.Evidence, &model.Evidence{SetID: "EMBL:X"})
	e := &model.Exon{Start: 100, End: 200, Strand: 1, Phase: 1}
	e.SetStableID("E1")
	tr.AddExon(e)
	g.AddTranscript(tr)
	set.AddFeature(g)
	return set
}

func TestRender_Layout(t *testing.T) {
	r := NewRenderer()
	r.SetAuthor("tester")
	require.NoError(t, r.Render(sampleSet()))

	want := `<otter>
  <sequence_set>
    <sequencefragment>
      <id>F1</id>
      <chromosome>6</chromosome>
      <assemblystart>10</assemblystart>
      <assemblyend>500</assemblyend>
      <assemblyori>1</assemblyori>
      <assemblyoffsetstart>1</assemblyoffsetstart>
    </sequencefragment>

    <gene>
      <stable_id>G1</stable_id>
      <name>ABC</name>
      <author>tester</author>
      <author_email>tester@sanger.ac.uk</author_email>
      <transcript>
        <stable_id>T1</stable_id>
        <name></name>
        <transcript_class>Coding</transcript_class>
        <cds_start_not_found></cds_start_not_found>
        <cds_end_not_found></cds_end_not_found>
        <mRNA_start_not_found></mRNA_start_not_found>
        <mRNA_end_not_found></mRNA_end_not_found>
        <evidence>
          <name>EMBL:X</name>
        </evidence>
        <translation_start>120</translation_start>
        <translation_end>180</translation_end>
        <exon>
          <stable_id>E1</stable_id>
          <start>100</start>
          <end>200</end>
          <strand>1</strand>
          <frame>2</frame>
        </exon>

      </transcript>

    </gene>

  </sequence_set>
</otter>`
	assert.Equal(t, want, r.String())
}

func TestRender_EmptySet(t *testing.T) {
	out, err := Marshal(&model.AnnotationSet{})
	require.NoError(t, err)
	assert.Equal(t, "<otter>\n  <sequence_set>\n  </sequence_set>\n</otter>", string(out))
}

func TestRender_GeneAuthorAndEmail(t *testing.T) {
	g := &model.Gene{Author: "ak1", AuthorEmail: "ak1@example.org"}
	r := NewRenderer()
	r.SetAuthor("tester")
	require.NoError(t, r.Render(g))
	assert.Contains(t, r.String(), "<author>ak1</author>")
	assert.Contains(t, r.String(), "<author_email>ak1@example.org</author_email>")
	assert.NotContains(t, r.String(), "tester")
}

func TestRender_EmailDomain(t *testing.T) {
	r := NewRenderer()
	r.SetAuthor("tester")
	r.SetEmailDomain("example.org")
	require.NoError(t, r.Render(&model.Gene{}))
	assert.Contains(t, r.String(), "<author_email>tester@example.org</author_email>")
}

func TestRender_NoTranslationWhenZero(t *testing.T) {
	r := NewRenderer()
	require.NoError(t, r.Render(&model.Transcript{TranslationStart: 120}))
	assert.NotContains(t, r.String(), "translation_start")
	assert.NotContains(t, r.String(), "translation_end")
}

func TestRender_TranscriptNamesFromSynonyms(t *testing.T) {
	r := NewRenderer()
	require.NoError(t, r.Render(&model.Transcript{Synonyms: []string{"A-001", "A-002"}}))
	out := r.String()
	assert.Contains(t, out, "<name>A-001</name>\n")
	assert.Contains(t, out, "<name>A-002</name>\n")
	assert.NotContains(t, out, "<name></name>")
}

func TestRender_Escapes(t *testing.T) {
	g := &model.Gene{Comments: []model.Comment{model.NewComment("G1", "a < b & c")}}
	r := NewRenderer()
	require.NoError(t, r.Render(g))
	assert.Contains(t, r.String(), "<remark>a &lt; b &amp; c</remark>")
}

func TestRender_Unsupported(t *testing.T) {
	r := NewRenderer()
	err := r.Render("not a feature")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)

	set := &model.AnnotationSet{}
	set.AddFeature(otherFeature{})
	_, err = Marshal(set)
	assert.ErrorIs(t, err, ErrUnsupported)
}

type otherFeature struct{}

func (otherFeature) FeatureID() string { return "x" }
func (otherFeature) Low() int64        { return 0 }
func (otherFeature) High() int64       { return 0 }

func TestRender_WriteTo(t *testing.T) {
	r := NewRenderer()
	require.NoError(t, r.Render(&model.Evidence{SetID: "EMBL:X"}))
	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "<evidence>\n  <name>EMBL:X</name>\n</evidence>\n", buf.String())
}

func TestRoundTrip_Constructed(t *testing.T) {
	orig := sampleSet()
	out, err := Marshal(orig)
	require.NoError(t, err)

	got, err := NewParser().ParseOne(bytes.NewReader(out))
	require.NoError(t, err)

	require.Len(t, got.Fragments(), 1)
	assert.Equal(t, *orig.Fragments()[0], *got.Fragments()[0])

	g := got.Genes()[0]
	assert.Equal(t, "G1", g.ID)
	name, _ := g.OtterName()
	assert.Equal(t, "ABC", name)

	tr := g.Transcripts[0]
	assert.Equal(t, "T1", tr.ID)
	assert.Equal(t, "Coding", tr.Biotype)
	assert.Equal(t, int64(120), tr.TranslationStart)
	assert.Equal(t, int64(180), tr.TranslationEnd)
	assert.Equal(t, "EMBL:X", tr.Evidence[0].SetID)

	e := tr.Exons[0]
	assert.Equal(t, "E1", e.ID)
	assert.Equal(t, int64(100), e.Start)
	assert.Equal(t, int64(200), e.End)
	assert.Equal(t, int8(1), e.Strand)
	assert.Equal(t, 1, e.Phase)
}

func TestRoundTrip_SampleFile(t *testing.T) {
	data, err := os.ReadFile("testdata/sample.xml")
	require.NoError(t, err)

	first, err := NewParser().ParseOne(bytes.NewReader(data))
	require.NoError(t, err)

	r := NewRenderer()
	r.SetAuthor("tester")
	require.NoError(t, r.Render(first))

	second, err := NewParser().ParseOne(strings.NewReader(r.String()))
	require.NoError(t, err)

	// Rendering again must be stable.
	r2 := NewRenderer()
	r2.SetAuthor("tester")
	require.NoError(t, r2.Render(second))
	assert.Equal(t, r.String(), r2.String())

	assert.Equal(t, first.Bounds(), second.Bounds())
	require.Len(t, second.Genes(), 2)
	for i, g := range first.Genes() {
		g2 := second.Genes()[i]
		assert.Equal(t, g.ID, g2.ID)
		assert.Equal(t, g.Synonyms, g2.Synonyms)
		for j, tr := range g.Transcripts {
			tr2 := g2.Transcripts[j]
			assert.Equal(t, tr.TranslationStart, tr2.TranslationStart)
			assert.Equal(t, tr.Synonyms, tr2.Synonyms)
			for k, e := range tr.Exons {
				assert.Equal(t, e.Phase, tr2.Exons[k].Phase)
				assert.Equal(t, e.Start, tr2.Exons[k].Start)
			}
		}
	}
}
