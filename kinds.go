package gqlxpath

import "fmt"

// NodeKind identifies the structural category of a node inside a GraphQL
// document. Every node the traverser emits carries exactly one kind, and
// path expressions select nodes by these kinds through their short tokens
// (see KindOf and ShortTokenOf).
type NodeKind int

const (
	// UNKNOWN is the zero value. A path component whose kind filter is
	// UNKNOWN accepts nodes of any kind.
	UNKNOWN NodeKind = iota

	// DOCUMENT is the traversal root. Like the structural kinds below it is
	// transparent to matching unless a component names it explicitly.
	DOCUMENT

	// Addressable kinds. Nodes of these kinds are tested against path
	// components during matching.
	QUERY_OPERATION
	MUTATION_OPERATION
	SUBSCRIPTION_OPERATION
	FIELD
	ARGUMENT
	DIRECTIVE
	FRAGMENT_DEFINITION
	INLINE_FRAGMENT
	FRAGMENT_SPREAD
	VARIABLE_DEFINITION

	// Structural kinds. These group sibling nodes during traversal and are
	// transparent to matching unless a component names them explicitly.
	SELECTION_SET
	DEFINITIONS
	VARIABLE_DEFINITIONS
	ARGUMENTS
	DIRECTIVES
)

func (n NodeKind) String() string {
	switch n {
	case DOCUMENT:
		return "DOCUMENT"
	case QUERY_OPERATION:
		return "QUERY_OPERATION"
	case MUTATION_OPERATION:
		return "MUTATION_OPERATION"
	case SUBSCRIPTION_OPERATION:
		return "SUBSCRIPTION_OPERATION"
	case FIELD:
		return "FIELD"
	case ARGUMENT:
		return "ARGUMENT"
	case DIRECTIVE:
		return "DIRECTIVE"
	case FRAGMENT_DEFINITION:
		return "FRAGMENT_DEFINITION"
	case INLINE_FRAGMENT:
		return "INLINE_FRAGMENT"
	case FRAGMENT_SPREAD:
		return "FRAGMENT_SPREAD"
	case VARIABLE_DEFINITION:
		return "VARIABLE_DEFINITION"
	case SELECTION_SET:
		return "SELECTION_SET"
	case DEFINITIONS:
		return "DEFINITIONS"
	case VARIABLE_DEFINITIONS:
		return "VARIABLE_DEFINITIONS"
	case ARGUMENTS:
		return "ARGUMENTS"
	case DIRECTIVES:
		return "DIRECTIVES"
	default:
		return "UNKNOWN"
	}
}

// shortTokens maps each kind to the token accepted by [type=...] filters.
// The mapping is bijective; kindsByToken is derived from it at init time.
var shortTokens = map[NodeKind]string{
	DOCUMENT:               "doc",
	QUERY_OPERATION:        "query",
	MUTATION_OPERATION:     "mutation",
	SUBSCRIPTION_OPERATION: "subscription",
	FIELD:                  "fld",
	ARGUMENT:               "arg",
	DIRECTIVE:              "direc",
	FRAGMENT_DEFINITION:    "frag",
	INLINE_FRAGMENT:        "infrag",
	FRAGMENT_SPREAD:        "spread",
	VARIABLE_DEFINITION:    "var",
	SELECTION_SET:          "selset",
	DEFINITIONS:            "defs",
	VARIABLE_DEFINITIONS:   "vars",
	ARGUMENTS:              "args",
	DIRECTIVES:             "direcs",
}

var kindsByToken map[string]NodeKind

func init() {
	kindsByToken = make(map[string]NodeKind, len(shortTokens))
	for kind, token := range shortTokens {
		kindsByToken[token] = kind
	}
}

// KindOf resolves a short type token to its node kind. It returns
// ErrUnknownTypeToken when the token is not registered.
func KindOf(token string) (NodeKind, error) {
	kind, ok := kindsByToken[token]
	if !ok {
		return UNKNOWN, fmt.Errorf("%w: %q", ErrUnknownTypeToken, token)
	}

	return kind, nil
}

// ShortTokenOf returns the short type token for a kind, or the empty string
// for UNKNOWN.
func ShortTokenOf(kind NodeKind) string {
	return shortTokens[kind]
}

// IsOperation reports whether the kind is one of the three operation kinds.
func (n NodeKind) IsOperation() bool {
	return n == QUERY_OPERATION || n == MUTATION_OPERATION || n == SUBSCRIPTION_OPERATION
}

// IsCollection reports whether the kind is a grouping node that exists for
// traversal bookkeeping rather than for document content.
func (n NodeKind) IsCollection() bool {
	switch n {
	case DEFINITIONS, VARIABLE_DEFINITIONS, ARGUMENTS, DIRECTIVES:
		return true
	default:
		return false
	}
}

// Addressable reports whether nodes of this kind are tested against path
// components. Non-addressable kinds are transparent during matching unless
// a component's type filter names them explicitly.
func (n NodeKind) Addressable() bool {
	switch n {
	case QUERY_OPERATION, MUTATION_OPERATION, SUBSCRIPTION_OPERATION,
		FIELD, ARGUMENT, DIRECTIVE,
		FRAGMENT_DEFINITION, INLINE_FRAGMENT, FRAGMENT_SPREAD,
		VARIABLE_DEFINITION:
		return true
	default:
		return false
	}
}
