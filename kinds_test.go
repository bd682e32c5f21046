package gqlxpath

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    NodeKind
		wantErr bool
	}{
		{"document token", "doc", DOCUMENT, false},
		{"query token", "query", QUERY_OPERATION, false},
		{"mutation token", "mutation", MUTATION_OPERATION, false},
		{"subscription token", "subscription", SUBSCRIPTION_OPERATION, false},
		{"field token", "fld", FIELD, false},
		{"argument token", "arg", ARGUMENT, false},
		{"directive token", "direc", DIRECTIVE, false},
		{"fragment definition token", "frag", FRAGMENT_DEFINITION, false},
		{"inline fragment token", "infrag", INLINE_FRAGMENT, false},
		{"fragment spread token", "spread", FRAGMENT_SPREAD, false},
		{"variable definition token", "var", VARIABLE_DEFINITION, false},
		{"selection set token", "selset", SELECTION_SET, false},
		{"unknown token", "field", UNKNOWN, true},
		{"empty token", "", UNKNOWN, true},
		{"case sensitive", "FLD", UNKNOWN, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := KindOf(tt.token)
			if tt.wantErr {
				assert.IsError(t, err, ErrUnknownTypeToken)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestShortTokenBijection(t *testing.T) {
	// Every registered kind must round-trip through its short token
	for kind, token := range shortTokens {
		got, err := KindOf(token)
		assert.NoError(t, err)
		assert.Equal(t, kind, got)
		assert.Equal(t, token, ShortTokenOf(kind))
	}

	// Distinct kinds must not share a token
	assert.Equal(t, len(shortTokens), len(kindsByToken))
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "FIELD", FIELD.String())
	assert.Equal(t, "QUERY_OPERATION", QUERY_OPERATION.String())
	assert.Equal(t, "SELECTION_SET", SELECTION_SET.String())
	assert.Equal(t, "UNKNOWN", UNKNOWN.String())
	assert.Equal(t, "UNKNOWN", NodeKind(999).String())
}

func TestNodeKindPredicates(t *testing.T) {
	tests := []struct {
		name        string
		kind        NodeKind
		operation   bool
		collection  bool
		addressable bool
	}{
		{"query operation", QUERY_OPERATION, true, false, true},
		{"mutation operation", MUTATION_OPERATION, true, false, true},
		{"subscription operation", SUBSCRIPTION_OPERATION, true, false, true},
		{"field", FIELD, false, false, true},
		{"argument", ARGUMENT, false, false, true},
		{"fragment spread", FRAGMENT_SPREAD, false, false, true},
		{"document", DOCUMENT, false, false, false},
		{"selection set", SELECTION_SET, false, false, false},
		{"arguments collection", ARGUMENTS, false, true, false},
		{"directives collection", DIRECTIVES, false, true, false},
		{"definitions collection", DEFINITIONS, false, true, false},
		{"variable definitions collection", VARIABLE_DEFINITIONS, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.operation, tt.kind.IsOperation())
			assert.Equal(t, tt.collection, tt.kind.IsCollection())
			assert.Equal(t, tt.addressable, tt.kind.Addressable())
		})
	}
}
