package pathparser

import (
	"errors"
	"fmt"

	tok "github.com/shibukawa/gqlxpath/tokenizer"
	pc "github.com/shibukawa/parsercombinator"
)

// Sentinel errors
var (
	ErrEmptyPath        = errors.New("empty path")
	ErrInvalidPath      = errors.New("invalid path")
	ErrMissingRootSlash = errors.New("path must start with '/' or '//'")
	ErrEmptySegment     = errors.New("empty path segment")
	ErrUnexpectedToken  = errors.New("unexpected token")
	ErrInvalidRange     = errors.New("invalid range group")
	ErrInvertedRange    = errors.New("range end is smaller than range start")
	ErrDuplicateRange   = errors.New("duplicate range on segment")
	ErrRangeOnWildcard  = errors.New("wildcard cannot have a range")
	ErrTrailingWildcard = errors.New("path cannot end with a wildcard")
	ErrInvalidFilter    = errors.New("invalid filter group")
	ErrUnknownFilterKey = errors.New("unknown filter key")
	ErrDuplicateFilter  = errors.New("duplicate filter on segment")
	ErrAliasOnNonField  = errors.New("alias filter is only valid for field segments")
	ErrUnmatchedBracket = errors.New("unmatched bracket")
	ErrUnmatchedBrace   = errors.New("unmatched brace")
)

// SyntaxError reports where compilation of a path expression failed and why.
// It unwraps both to its reason and to pc.ErrCritical, so parser combinators
// propagate it instead of backtracking over it.
type SyntaxError struct {
	Token  string
	Pos    tok.Position
	Reason error
}

func (e *SyntaxError) Error() string {
	if e.Pos == (tok.Position{}) {
		return fmt.Sprintf("invalid path: %s", e.Reason)
	}

	if e.Token == "" {
		return fmt.Sprintf("invalid path at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Reason)
	}

	return fmt.Sprintf("invalid path at %d:%d: %s: %q", e.Pos.Line, e.Pos.Column, e.Reason, e.Token)
}

func (e *SyntaxError) Unwrap() []error {
	return []error{e.Reason, pc.ErrCritical}
}

func newSyntaxError(t tok.Token, reason error) *SyntaxError {
	return &SyntaxError{
		Token:  t.Value,
		Pos:    t.Position,
		Reason: reason,
	}
}
