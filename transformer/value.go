package transformer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// BuildValue parses a scalar GraphQL literal into an AST value. Accepted
// forms: `$name` variables, integers, floats, `true`/`false`, `null`,
// double-quoted strings, and enum names. Lists and objects are not
// supported.
func BuildValue(literal string) (*ast.Value, error) {
	trimmed := strings.TrimSpace(literal)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty literal", ErrInvalidValue)
	}

	switch {
	case strings.HasPrefix(trimmed, "$"):
		name := trimmed[1:]
		if !validName(name) {
			return nil, fmt.Errorf("%w: %q is not a variable reference", ErrInvalidValue, trimmed)
		}

		return &ast.Value{Kind: ast.Variable, Raw: name}, nil

	case trimmed == "true", trimmed == "false":
		return &ast.Value{Kind: ast.BooleanValue, Raw: trimmed}, nil

	case trimmed == "null":
		return &ast.Value{Kind: ast.NullValue, Raw: trimmed}, nil

	case strings.HasPrefix(trimmed, `"`):
		unquoted, err := strconv.Unquote(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidValue, literal, err)
		}

		return &ast.Value{Kind: ast.StringValue, Raw: unquoted}, nil

	case strings.HasPrefix(trimmed, "["), strings.HasPrefix(trimmed, "{"):
		return nil, fmt.Errorf("%w: list and object literals are not supported", ErrInvalidValue)

	case strings.HasPrefix(trimmed, "+"):
		return nil, fmt.Errorf("%w: %q", ErrInvalidValue, literal)
	}

	if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return &ast.Value{Kind: ast.IntValue, Raw: trimmed}, nil
	}

	// Names win over floats so enums like "Inf" are not eaten by ParseFloat.
	if validName(trimmed) {
		return &ast.Value{Kind: ast.EnumValue, Raw: trimmed}, nil
	}

	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return &ast.Value{Kind: ast.FloatValue, Raw: trimmed}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidValue, literal)
}

// validName reports whether s is a GraphQL name: an ASCII letter or
// underscore followed by letters, underscores and digits.
func validName(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			continue
		}

		if i > 0 && r >= '0' && r <= '9' {
			continue
		}

		return false
	}

	return true
}
