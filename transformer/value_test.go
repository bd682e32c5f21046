package transformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestBuildValue(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		kind    ast.ValueKind
		raw     string
	}{
		{"variable", "$ep", ast.Variable, "ep"},
		{"int", "42", ast.IntValue, "42"},
		{"negative int", "-7", ast.IntValue, "-7"},
		{"float", "3.14", ast.FloatValue, "3.14"},
		{"exponent float", "1e10", ast.FloatValue, "1e10"},
		{"true", "true", ast.BooleanValue, "true"},
		{"false", "false", ast.BooleanValue, "false"},
		{"null", "null", ast.NullValue, "null"},
		{"string", `"hello world"`, ast.StringValue, "hello world"},
		{"escaped string", `"a\"b"`, ast.StringValue, `a"b`},
		{"enum", "EMPIRE", ast.EnumValue, "EMPIRE"},
		{"surrounding space", "  JEDI  ", ast.EnumValue, "JEDI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := BuildValue(tt.literal)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, value.Kind)
			assert.Equal(t, tt.raw, value.Raw)
		})
	}
}

func TestBuildValueErrors(t *testing.T) {
	tests := []struct {
		name    string
		literal string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"list", "[1, 2]"},
		{"object", "{a: 1}"},
		{"bad variable", "$9x"},
		{"bare dollar", "$"},
		{"plus sign number", "+5"},
		{"unterminated string", `"oops`},
		{"not a name", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildValue(tt.literal)
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}
