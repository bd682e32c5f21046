package tokenizer

import "errors"

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrIncompleteEllipsis  = errors.New("incomplete ellipsis")
	ErrTrailingEscape      = errors.New("trailing escape")
)

// TokenType represents the type of a token
type TokenType int

const (
	EOF            TokenType = iota
	IDENTIFIER               // names, operation keywords, filter keys and values
	NUMBER                   // range bounds
	SLASH                    // /
	EQUAL                    // =
	COLON                    // :
	ELLIPSIS                 // ...
	OPENED_BRACKET           // [
	CLOSED_BRACKET           // ]
	OPENED_BRACE             // {
	CLOSED_BRACE             // }
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case IDENTIFIER:
		return "IDENTIFIER"
	case NUMBER:
		return "NUMBER"
	case SLASH:
		return "SLASH"
	case EQUAL:
		return "EQUAL"
	case COLON:
		return "COLON"
	case ELLIPSIS:
		return "ELLIPSIS"
	case OPENED_BRACKET:
		return "OPENED_BRACKET"
	case CLOSED_BRACKET:
		return "CLOSED_BRACKET"
	case OPENED_BRACE:
		return "OPENED_BRACE"
	case CLOSED_BRACE:
		return "CLOSED_BRACE"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the path expression
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a token. For IDENTIFIER tokens Value holds the unescaped
// text: backslash escapes are resolved during scanning.
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}
