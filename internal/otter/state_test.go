package otter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/otterxml/internal/model"
)

func start(t *testing.T, s *State, local string) bool {
	t.Helper()
	ok, err := s.StartElement(local)
	require.NoError(t, err)
	return ok
}

func end(t *testing.T, s *State, local string) {
	t.Helper()
	require.NoError(t, s.EndElement(local))
}

func TestState_PathTransitions(t *testing.T) {
	s := NewState(DefaultRegistry())
	assert.Equal(t, "", s.Path())

	assert.True(t, start(t, s, "otter"))
	assert.Equal(t, "otter", s.Path())
	assert.True(t, start(t, s, "sequenceset"))
	assert.True(t, start(t, s, "gene"))
	assert.Equal(t, "otter:sequenceset:gene", s.Path())
	assert.Equal(t, 3, s.Depth())
	assert.Equal(t, 1, s.ObjectDepth())

	end(t, s, "gene")
	assert.Equal(t, "otter:sequenceset", s.Path())
	assert.Equal(t, 0, s.ObjectDepth())

	end(t, s, "sequenceset")
	end(t, s, "otter")
	assert.Equal(t, "", s.Path())

	sets, err := s.EndDocument()
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Len(t, sets[0].Genes(), 1)
}

func TestState_SkipUnknownSubtree(t *testing.T) {
	s := NewState(DefaultRegistry())
	start(t, s, "otter")
	start(t, s, "sequenceset")

	assert.False(t, start(t, s, "dna"))
	assert.False(t, start(t, s, "gene"), "recognized name inside skipped subtree")
	s.Characters([]byte("ACGT"))
	end(t, s, "gene")
	end(t, s, "dna")
	assert.Equal(t, "otter:sequenceset", s.Path())

	assert.True(t, start(t, s, "gene"))
	end(t, s, "gene")
	end(t, s, "sequenceset")
	end(t, s, "otter")

	sets, err := s.EndDocument()
	require.NoError(t, err)
	assert.Len(t, sets[0].Features, 1)
}

func TestState_MismatchedCloseIgnored(t *testing.T) {
	s := NewState(DefaultRegistry())
	start(t, s, "otter")
	end(t, s, "sequenceset")
	assert.Equal(t, "otter", s.Path())
	end(t, s, "otter")
	assert.Equal(t, "", s.Path())
}

func TestState_TextDeliveredOnceAtClose(t *testing.T) {
	var got []string
	r, err := NewRegistry(TagHandler{
		FullName: "x", LeafName: "x",
		Text: func(_ *State, text string) error {
			got = append(got, text)
			return nil
		},
	})
	require.NoError(t, err)

	s := NewState(r)
	start(t, s, "x")
	s.Characters([]byte("ab"))
	s.Characters([]byte("cd"))
	assert.Empty(t, got)
	end(t, s, "x")
	assert.Equal(t, []string{"abcd"}, got)
}

func TestState_UnbalancedDocument(t *testing.T) {
	s := NewState(DefaultRegistry())
	start(t, s, "otter")
	start(t, s, "sequenceset")
	_, err := s.EndDocument()
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestState_TextOutsideEntity(t *testing.T) {
	// A gene field with no gene under construction.
	r, err := NewRegistry(otterHandlers()[0], TagHandler{
		FullName: "otter:stable_id", LeafName: "stable_id",
		Text: assign((*model.Gene).SetStableID),
	})
	require.NoError(t, err)

	s := NewState(r)
	start(t, s, "otter")
	start(t, s, "stable_id")
	s.Characters([]byte("G1"))
	err = s.EndElement("stable_id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestState_ChildCloseWithoutSet(t *testing.T) {
	r, err := NewRegistry(
		TagHandler{FullName: "otter", LeafName: "otter"},
		TagHandler{
			FullName: "otter:gene", LeafName: "gene",
			Open:  func(s *State) error { s.Push(&model.Gene{}); return nil },
			Close: func(s *State) error { _, err := s.Current(); return err },
		},
	)
	require.NoError(t, err)

	s := NewState(r)
	start(t, s, "otter")
	start(t, s, "gene")
	err = s.EndElement("gene")
	assert.ErrorIs(t, err, ErrInconsistent)
}
