package cache

import (
	"sync"
	"testing"

	"github.com/shibukawa/gqlxpath"
	"github.com/shibukawa/gqlxpath/pathparser"
	"github.com/stretchr/testify/assert"
)

func TestPathMemoization(t *testing.T) {
	c := New(Options{})

	first, err := c.Path("//query/hero")
	assert.NoError(t, err)
	assert.Equal(t, gqlxpath.ALL_MATCHES, first.Mode)

	second, err := c.Path("//query/hero")
	assert.NoError(t, err)
	assert.Same(t, first, second)

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestPathErrorNotCached(t *testing.T) {
	c := New(Options{})

	_, err := c.Path("query/hero")
	assert.ErrorIs(t, err, pathparser.ErrMissingRootSlash)

	_, err = c.Path("query/hero")
	assert.ErrorIs(t, err, pathparser.ErrMissingRootSlash)

	// The failing text was looked up twice and never stored.
	assert.Equal(t, Stats{Misses: 2}, c.Stats())
}

func TestDocumentMemoization(t *testing.T) {
	c := New(Options{})

	first, err := c.Document("a.graphql", `{ hero { name } }`)
	assert.NoError(t, err)

	// The key is the text; the source name is only a label.
	second, err := c.Document("b.graphql", `{ hero { name } }`)
	assert.NoError(t, err)
	assert.Same(t, first, second)
}

func TestDocumentParseError(t *testing.T) {
	c := New(Options{})

	_, err := c.Document("broken.graphql", `query {`)
	assert.Error(t, err)

	_, err = c.Document("broken.graphql", `query {`)
	assert.Error(t, err)

	assert.Equal(t, Stats{Misses: 2}, c.Stats())
}

func TestPrintMemoization(t *testing.T) {
	c := New(Options{})

	doc, err := c.Document("a.graphql", `{ hero { name } }`)
	assert.NoError(t, err)

	first, err := c.Print(doc)
	assert.NoError(t, err)
	assert.Contains(t, first, "hero")

	second, err := c.Print(doc)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Hits)
}

func TestPrintNilDocument(t *testing.T) {
	c := New(Options{})

	_, err := c.Print(nil)
	assert.ErrorIs(t, err, gqlxpath.ErrNilDocument)

	var nilCache *Cache

	_, err = nilCache.Print(nil)
	assert.ErrorIs(t, err, gqlxpath.ErrNilDocument)
}

func TestNilCachePassthrough(t *testing.T) {
	var c *Cache

	path, err := c.Path("/query/hero")
	assert.NoError(t, err)
	assert.Equal(t, gqlxpath.FIRST_MATCH_ONLY, path.Mode)

	doc, err := c.Document("a.graphql", `{ hero }`)
	assert.NoError(t, err)

	text, err := c.Print(doc)
	assert.NoError(t, err)
	assert.Contains(t, text, "hero")

	assert.Equal(t, Stats{}, c.Stats())
}

func TestEvictionClearsWholeMap(t *testing.T) {
	c := New(Options{MaxEntries: 2})

	_, err := c.Path("/a")
	assert.NoError(t, err)
	_, err = c.Path("/b")
	assert.NoError(t, err)

	// The third insert clears the map before storing.
	_, err = c.Path("/c")
	assert.NoError(t, err)
	assert.Equal(t, Stats{Misses: 3, Evictions: 1}, c.Stats())

	// The first entry is gone, so this is a miss again.
	_, err = c.Path("/a")
	assert.NoError(t, err)
	assert.Equal(t, Stats{Misses: 4, Evictions: 1}, c.Stats())
}

func TestNegativeMaxEntriesDisablesStoring(t *testing.T) {
	c := New(Options{MaxEntries: -1})

	first, err := c.Path("/query/hero")
	assert.NoError(t, err)

	second, err := c.Path("/query/hero")
	assert.NoError(t, err)
	assert.NotSame(t, first, second)

	assert.Equal(t, Stats{Misses: 2}, c.Stats())
}

func TestConcurrentAccess(t *testing.T) {
	c := New(Options{})

	paths := []string{"/a", "/b", "//c/d", "/e[type=fld]", "//f/{0:2}g"}
	texts := []string{`{ hero }`, `{ villain }`, `mutation { save }`}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, err := c.Path(paths[i%len(paths)])
			assert.NoError(t, err)

			doc, err := c.Document("q.graphql", texts[i%len(texts)])
			assert.NoError(t, err)

			_, err = c.Print(doc)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Every lookup lands in exactly one counter.
	stats := c.Stats()
	assert.Equal(t, 150, stats.Hits+stats.Misses)
	assert.Equal(t, 0, stats.Evictions)
}
