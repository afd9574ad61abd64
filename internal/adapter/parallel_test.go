package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocs(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		doc := fmt.Sprintf(`<otter><sequenceset><gene><stable_id>G%d</stable_id>
<transcript><exon><start>%d</start><end>%d</end></exon></transcript></gene></sequenceset></otter>`,
			i, 100+i, 200+i)
		paths[i] = filepath.Join(dir, fmt.Sprintf("doc%03d.xml", i))
		require.NoError(t, os.WriteFile(paths[i], []byte(doc), 0o644))
	}
	return paths
}

func TestParallelRead_OrderPreservation(t *testing.T) {
	paths := writeDocs(t, 50)
	results := New().ParallelRead(Items(paths), 8)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		assert.Equal(t, fmt.Sprintf("G%d", r.Seq), r.Set.Set.Genes()[0].ID)
		assert.Equal(t, int64(100+r.Seq), r.Set.Low())
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 50)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelRead_DefaultWorkers(t *testing.T) {
	paths := writeDocs(t, 5)
	results := New().ParallelRead(Items(paths), 0)

	count := 0
	require.NoError(t, OrderedCollect(results, func(WorkResult) error {
		count++
		return nil
	}))
	assert.Equal(t, 5, count)
}

func TestParallelRead_PerItemError(t *testing.T) {
	paths := writeDocs(t, 3)
	paths[1] = filepath.Join(t.TempDir(), "missing.xml")

	var errs []error
	require.NoError(t, OrderedCollect(New().ParallelRead(Items(paths), 2), func(r WorkResult) error {
		errs = append(errs, r.Err)
		return nil
	}))
	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.NoError(t, errs[2])
}

func TestOrderedCollect_ErrorStopsEarly(t *testing.T) {
	paths := writeDocs(t, 20)
	stop := errors.New("stop")

	count := 0
	err := OrderedCollect(New().ParallelRead(Items(paths), 4), func(WorkResult) error {
		count++
		if count == 3 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, count)
}

func TestOrderedCollect_Empty(t *testing.T) {
	results := New().ParallelRead(Items(nil), 2)
	called := false
	require.NoError(t, OrderedCollect(results, func(WorkResult) error {
		called = true
		return nil
	}))
	assert.False(t, called)
}
