package tagindex

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewAppliesOptions(t *testing.T) {
	e := New[string](WithCaseSensitive(true), WithMaxTagLength(4), WithSynonyms(false))

	s := e.Settings()
	assert.True(t, s.CaseSensitive)
	assert.Equal(t, 4, s.MaxTagLength)
	assert.True(t, s.EnableHierarchy)
	assert.False(t, s.EnableSynonyms)
	assert.Equal(t, "Java", e.Normalizer().Normalize(" JavaScript"))
}

func TestEngineLogsMutations(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := New[string](WithLogger(zap.New(core).Sugar()))

	_, err := e.TagItem("a", []string{"x"})
	require.NoError(t, err)
	require.NoError(t, e.AddEdge("x", "letters"))

	entries := logs.FilterMessage("Tagged item").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ContextMap()["item"])
	assert.Equal(t, 1, logs.FilterMessage("Added hierarchy edge").Len())
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	e := New[int]()
	require.NoError(t, e.AddEdge("even", "number"))
	require.NoError(t, e.AddEdge("odd", "number"))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				item := w*100 + i
				tag := "odd"
				if item%2 == 0 {
					tag = "even"
				}
				_, err := e.TagItem(item, []string{tag, fmt.Sprintf("worker-%d", w)})
				assert.NoError(t, err)
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				res, err := e.Query([]string{"number"}, WithLimit(0))
				assert.NoError(t, err)
				assert.Equal(t, res.Total, res.Count)
				_ = e.Stats()
			}
		}()
	}
	wg.Wait()

	res, err := e.Query([]string{"number"}, WithLimit(0))
	require.NoError(t, err)
	assert.Equal(t, 400, res.Total)
	requireConsistent(t, e)
}
