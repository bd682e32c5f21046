// Package cache memoizes the expensive steps around document rewriting:
// parsing GraphQL text, printing documents back to text, and compiling
// search paths. A Cache is constructed explicitly and handed to whoever
// needs it; there is no process-wide instance.
package cache

import (
	"strings"
	"sync"

	"github.com/shibukawa/gqlxpath"
	"github.com/shibukawa/gqlxpath/pathparser"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// Options configure a Cache.
type Options struct {
	// MaxEntries bounds each memo map separately. Zero selects
	// gqlxpath.DefaultCacheEntries; a negative value disables storing while
	// keeping every method usable.
	MaxEntries int
}

// Stats counts lookups across all three memo maps. Every lookup is either
// a hit or a miss; evictions count whole-map clears.
type Stats struct {
	Hits      int
	Misses    int
	Evictions int
}

// Cache memoizes parse, print and path-compile results. When a map reaches
// the configured bound it is cleared entirely rather than evicting single
// entries. All methods are safe for concurrent use, and a nil *Cache is
// valid: it performs every operation directly.
type Cache struct {
	mu         sync.RWMutex
	maxEntries int
	stats      Stats

	docs   map[string]*ast.QueryDocument
	prints map[*ast.QueryDocument]string
	paths  map[string]*gqlxpath.SearchPath
}

// New creates a Cache.
func New(opts Options) *Cache {
	maxEntries := opts.MaxEntries
	if maxEntries == 0 {
		maxEntries = gqlxpath.DefaultCacheEntries
	}

	return &Cache{
		maxEntries: maxEntries,
		docs:       make(map[string]*ast.QueryDocument),
		prints:     make(map[*ast.QueryDocument]string),
		paths:      make(map[string]*gqlxpath.SearchPath),
	}
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.stats
}

// Path returns the compiled form of a path text. Compile errors are
// returned as is and never cached.
func (c *Cache) Path(text string) (*gqlxpath.SearchPath, error) {
	if c == nil {
		return pathparser.Compile(text)
	}

	c.mu.RLock()
	path, ok := c.paths[text]
	c.mu.RUnlock()

	if ok {
		c.recordHit()
		return path, nil
	}

	c.recordMiss()

	compiled, err := pathparser.Compile(text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.maxEntries > 0 {
		if len(c.paths) >= c.maxEntries {
			c.paths = make(map[string]*gqlxpath.SearchPath)
			c.stats.Evictions++
		}

		c.paths[text] = compiled
	}
	c.mu.Unlock()

	return compiled, nil
}

// Document parses GraphQL text, memoized by the text itself. name labels
// the source in parse errors and does not take part in the cache key.
func (c *Cache) Document(name, text string) (*ast.QueryDocument, error) {
	if c == nil {
		return parser.ParseQuery(&ast.Source{Name: name, Input: text})
	}

	c.mu.RLock()
	doc, ok := c.docs[text]
	c.mu.RUnlock()

	if ok {
		c.recordHit()
		return doc, nil
	}

	c.recordMiss()

	parsed, err := parser.ParseQuery(&ast.Source{Name: name, Input: text})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.maxEntries > 0 {
		if len(c.docs) >= c.maxEntries {
			c.docs = make(map[string]*ast.QueryDocument)
			c.stats.Evictions++
		}

		c.docs[text] = parsed
	}
	c.mu.Unlock()

	return parsed, nil
}

// Print renders a document back to GraphQL text, memoized by document
// identity. Transformations produce new document values, so a rewritten
// document never collides with its source's entry.
func (c *Cache) Print(doc *ast.QueryDocument) (string, error) {
	if c == nil {
		return printDocument(doc)
	}

	if doc == nil {
		return "", gqlxpath.ErrNilDocument
	}

	c.mu.RLock()
	text, ok := c.prints[doc]
	c.mu.RUnlock()

	if ok {
		c.recordHit()
		return text, nil
	}

	c.recordMiss()

	printed, err := printDocument(doc)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	if c.maxEntries > 0 {
		if len(c.prints) >= c.maxEntries {
			c.prints = make(map[*ast.QueryDocument]string)
			c.stats.Evictions++
		}

		c.prints[doc] = printed
	}
	c.mu.Unlock()

	return printed, nil
}

func (c *Cache) recordHit() {
	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
}

func (c *Cache) recordMiss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
}

func printDocument(doc *ast.QueryDocument) (string, error) {
	if doc == nil {
		return "", gqlxpath.ErrNilDocument
	}

	var sb strings.Builder
	formatter.NewFormatter(&sb).FormatQueryDocument(doc)

	return sb.String(), nil
}
