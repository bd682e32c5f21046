package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// PathTokenizer is a tokenizer for path expressions that returns an iterator
type PathTokenizer struct {
	input string
}

// NewPathTokenizer creates a new PathTokenizer
func NewPathTokenizer(input string) *PathTokenizer {
	return &PathTokenizer{
		input: input,
	}
}

// Tokens returns an iterator of tokens
func (t *PathTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := &tokenizer{
			input:    t.input,
			position: 0,
			line:     1,
			column:   1,
		}

		tokenizer.readChar()

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				if !yield(Token{}, err) {
					return
				}
				continue
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice. The EOF token is included as the
// last element of a successful scan.
func (t *PathTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 16)

	for token, err := range t.Tokens() {
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
		if token.Type == EOF {
			break
		}
	}

	return tokens, nil
}

// Internal tokenizer implementation
type tokenizer struct {
	input    string
	position int
	line     int
	column   int
	current  rune
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	switch t.current {
	case 0:
		return t.newToken(EOF, ""), nil
	case '/':
		token := t.newToken(SLASH, string(t.current))
		t.readChar()

		return token, nil
	case '[':
		token := t.newToken(OPENED_BRACKET, string(t.current))
		t.readChar()

		return token, nil
	case ']':
		token := t.newToken(CLOSED_BRACKET, string(t.current))
		t.readChar()

		return token, nil
	case '{':
		token := t.newToken(OPENED_BRACE, string(t.current))
		t.readChar()

		return token, nil
	case '}':
		token := t.newToken(CLOSED_BRACE, string(t.current))
		t.readChar()

		return token, nil
	case '=':
		token := t.newToken(EQUAL, string(t.current))
		t.readChar()

		return token, nil
	case ':':
		token := t.newToken(COLON, string(t.current))
		t.readChar()

		return token, nil
	case '.':
		return t.readEllipsis()
	default:
		if unicode.IsDigit(t.current) {
			return t.readNumber(), nil
		}

		if isIdentifierStart(t.current) {
			return t.readIdentifier()
		}

		ch := t.current
		line := t.line
		column := t.column - 1
		t.readChar()

		return Token{}, fmt.Errorf("%w: %q at line %d, column %d", ErrUnexpectedCharacter, ch, line, column)
	}
}

// readEllipsis reads the three-dot wildcard. Single and double dots have no
// meaning in path expressions.
func (t *tokenizer) readEllipsis() (Token, error) {
	startLine := t.line
	startColumn := t.column - 1
	startOffset := t.position - 1

	dots := 0
	for t.current == '.' && dots < 3 {
		dots++
		t.readChar()
	}

	if dots != 3 {
		return Token{}, fmt.Errorf("%w: %d dot(s) at line %d, column %d", ErrIncompleteEllipsis, dots, startLine, startColumn)
	}

	return Token{
		Type:  ELLIPSIS,
		Value: "...",
		Position: Position{
			Line:   startLine,
			Column: startColumn,
			Offset: startOffset,
		},
	}, nil
}

// readNumber reads a range bound. Bounds are unsigned decimal integers.
func (t *tokenizer) readNumber() Token {
	var builder strings.Builder

	startLine := t.line
	startColumn := t.column - 1
	startOffset := t.position - 1

	for unicode.IsDigit(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{
		Type:  NUMBER,
		Value: builder.String(),
		Position: Position{
			Line:   startLine,
			Column: startColumn,
			Offset: startOffset,
		},
	}
}

// readIdentifier reads a name, resolving backslash escapes. An escaped rune
// is taken literally, which lets names contain the path metacharacters.
func (t *tokenizer) readIdentifier() (Token, error) {
	var builder strings.Builder

	startLine := t.line
	startColumn := t.column - 1
	startOffset := t.position - 1

	for isIdentifierPart(t.current) {
		if t.current == '\\' {
			t.readChar()
			if t.current == 0 {
				return Token{}, fmt.Errorf("%w at line %d, column %d", ErrTrailingEscape, startLine, startColumn)
			}
		}

		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{
		Type:  IDENTIFIER,
		Value: builder.String(),
		Position: Position{
			Line:   startLine,
			Column: startColumn,
			Offset: startOffset,
		},
	}, nil
}

func isIdentifierStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_' || ch == '\\'
}

func isIdentifierPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '\\'
}

func (t *tokenizer) readChar() {
	if t.position >= len(t.input) {
		t.current = 0
		t.position++

		return
	}

	t.current = rune(t.input[t.position])
	t.position++

	if t.current == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
}

func (t *tokenizer) newToken(tokenType TokenType, value string) Token {
	return Token{
		Type:  tokenType,
		Value: value,
		Position: Position{
			Line:   t.line,
			Column: t.column - len([]rune(value)),
			Offset: t.position - len(value),
		},
	}
}
