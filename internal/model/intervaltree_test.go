package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(features []Feature) []string {
	var out []string
	for _, f := range features {
		out = append(out, f.FeatureID())
	}
	return out
}

func TestBuildIntervalTree_Empty(t *testing.T) {
	tree := BuildIntervalTree(nil)
	assert.Empty(t, tree.FindOverlaps(100))
}

func TestIntervalTree_SingleFeature(t *testing.T) {
	tree := BuildIntervalTree([]Feature{fragment("F1", 100, 200)})

	assert.Equal(t, []string{"F1"}, ids(tree.FindOverlaps(150)))
	assert.Len(t, tree.FindOverlaps(100), 1, "start boundary inclusive")
	assert.Len(t, tree.FindOverlaps(200), 1, "end boundary inclusive")
	assert.Empty(t, tree.FindOverlaps(99), "before start")
	assert.Empty(t, tree.FindOverlaps(201), "after end")
}

func TestIntervalTree_Overlapping(t *testing.T) {
	tree := BuildIntervalTree([]Feature{
		fragment("A", 100, 300),
		fragment("B", 150, 250),
		fragment("C", 200, 400),
	})

	assert.Equal(t, []string{"A", "B"}, ids(tree.FindOverlaps(175)))
	assert.Equal(t, []string{"A", "B", "C"}, ids(tree.FindOverlaps(250)))
	assert.Equal(t, []string{"C"}, ids(tree.FindOverlaps(350)))
}

func TestIntervalTree_LongIntervalBeforeShortOnes(t *testing.T) {
	tree := BuildIntervalTree([]Feature{
		fragment("long", 100, 1000),
		fragment("short", 150, 160),
	})

	assert.Equal(t, []string{"long"}, ids(tree.FindOverlaps(500)))
}

func TestIntervalTree_FindRange(t *testing.T) {
	tree := BuildIntervalTree([]Feature{
		fragment("A", 10, 20),
		fragment("B", 30, 40),
		fragment("C", 50, 60),
	})

	assert.Equal(t, []string{"A", "B"}, ids(tree.FindRange(15, 35)))
	assert.Empty(t, tree.FindRange(21, 29))
	assert.Equal(t, []string{"A", "B", "C"}, ids(tree.FindRange(0, 100)))
}

func TestIntervalTree_Genes(t *testing.T) {
	g := &Gene{ID: "G1"}
	tr := &Transcript{ID: "T1"}
	tr.AddExon(&Exon{Start: 1000, End: 2000})
	g.AddTranscript(tr)

	tree := BuildIntervalTree([]Feature{g})
	assert.Equal(t, []string{"G1"}, ids(tree.FindOverlaps(1500)))
}
