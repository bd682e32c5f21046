package gqlxpath

import (
	"strconv"
	"strings"
)

// RootMode controls how many nodes a compiled path may select.
type RootMode int

const (
	// FIRST_MATCH_ONLY stops the search at the first matching node. Paths
	// written with a single leading slash compile to this mode.
	FIRST_MATCH_ONLY RootMode = iota + 1
	// ALL_MATCHES collects every matching node in traversal order. Paths
	// written with a double leading slash compile to this mode.
	ALL_MATCHES
)

func (m RootMode) String() string {
	switch m {
	case FIRST_MATCH_ONLY:
		return "FIRST_MATCH_ONLY"
	case ALL_MATCHES:
		return "ALL_MATCHES"
	default:
		return "UNKNOWN"
	}
}

// Range restricts a path component to a contiguous run of sibling ordinals.
// Ordinals are zero based and counted among the sibling nodes that satisfy
// the component's filters. A nil bound leaves that side open.
type Range struct {
	Start *int
	End   *int
}

// Contains reports whether the ordinal falls inside the range. Both bounds
// are inclusive.
func (r Range) Contains(ordinal int) bool {
	if r.Start != nil && ordinal < *r.Start {
		return false
	}
	if r.End != nil && ordinal > *r.End {
		return false
	}

	return true
}

func (r Range) String() string {
	var sb strings.Builder

	sb.WriteByte('{')
	if r.Start != nil {
		sb.WriteString(strconv.Itoa(*r.Start))
	}
	sb.WriteByte(':')
	if r.End != nil {
		sb.WriteString(strconv.Itoa(*r.End))
	}
	sb.WriteByte('}')

	return sb.String()
}

// PathComponent is one step of a compiled path. Zero values mean "no
// constraint": a component with Kind UNKNOWN accepts any kind, an empty
// Name or Alias accepts any name or alias.
type PathComponent struct {
	Kind     NodeKind
	Name     string
	Alias    string
	Wildcard bool
	Range    *Range
}

// String renders the component in canonical path syntax. Names given as a
// bare segment and names given through [name=...] both render as the bare
// form; ranges render glued to the segment they restrict.
func (c PathComponent) String() string {
	if c.Wildcard {
		return "..."
	}

	var sb strings.Builder

	if c.Range != nil {
		sb.WriteString(c.Range.String())
	}
	sb.WriteString(escapeName(c.Name))
	if c.Kind != UNKNOWN {
		sb.WriteString("[type=")
		sb.WriteString(ShortTokenOf(c.Kind))
		sb.WriteByte(']')
	}
	if c.Alias != "" {
		sb.WriteString("[alias=")
		sb.WriteString(escapeName(c.Alias))
		sb.WriteByte(']')
	}

	return sb.String()
}

// SearchPath is the compiled, immutable form of a path expression. Compiled
// paths are safe to share between goroutines and to reuse across documents.
type SearchPath struct {
	Mode       RootMode
	Components []PathComponent
}

// String reconstructs the canonical text of the path. Compiling the result
// yields a structurally equal SearchPath.
func (p *SearchPath) String() string {
	var sb strings.Builder

	if p.Mode == ALL_MATCHES {
		sb.WriteString("//")
	} else {
		sb.WriteString("/")
	}
	for i, c := range p.Components {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(c.String())
	}

	return sb.String()
}

// escapeName re-applies the backslash escaping the tokenizer strips, so that
// reconstructed paths survive a second compilation.
func escapeName(name string) string {
	if !strings.ContainsAny(name, `/[]{}=:.\`) {
		return name
	}

	var sb strings.Builder
	for _, r := range name {
		switch r {
		case '/', '[', ']', '{', '}', '=', ':', '.', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}

	return sb.String()
}
