// Package pathparser compiles path expressions into the immutable form the
// selector and transformer consume.
//
// A path starts with / (first match only) or // (all matches) followed by
// slash separated segments. A segment is either the ... wildcard or a
// combination of a bare name, [type=...] [name=...] [alias=...] filter
// groups and a glued {start:end} range prefix. A leading range before the
// root slashes binds to the final component.
package pathparser

import (
	"errors"

	"github.com/shibukawa/gqlxpath"
	tok "github.com/shibukawa/gqlxpath/tokenizer"
	pc "github.com/shibukawa/parsercombinator"
)

// Compile parses a path expression and returns its compiled form. All
// failures are reported as *SyntaxError.
func Compile(path string) (*gqlxpath.SearchPath, error) {
	if path == "" {
		return nil, &SyntaxError{Reason: ErrEmptyPath}
	}

	tokens, err := tok.NewPathTokenizer(path).AllTokens()
	if err != nil {
		return nil, &SyntaxError{Reason: err}
	}

	if err := validateGroups(tokens); err != nil {
		return nil, err
	}

	entityTokens := tokenToEntity(tokens)
	pctx := pc.NewParseContext[entity]()

	_, parsed, err := parsePath()(pctx, entityTokens)
	if err != nil {
		var syntaxErr *SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, syntaxErr
		}

		return nil, &SyntaxError{Reason: ErrInvalidPath}
	}

	return parsed[0].Val.path, nil
}

// MustCompile is like Compile but panics on error. It simplifies package
// level path variables.
func MustCompile(path string) *gqlxpath.SearchPath {
	sp, err := Compile(path)
	if err != nil {
		panic(err)
	}

	return sp
}

// validateGroups checks that bracket and brace groups are properly matched
// before the grammar runs, so unmatched group errors point at the exact
// offending token.
func validateGroups(tokens []tok.Token) error {
	var brackets, braces []tok.Token

	for _, t := range tokens {
		switch t.Type {
		case tok.OPENED_BRACKET:
			brackets = append(brackets, t)
		case tok.CLOSED_BRACKET:
			if len(brackets) == 0 {
				return newSyntaxError(t, ErrUnmatchedBracket)
			}

			brackets = brackets[:len(brackets)-1]
		case tok.OPENED_BRACE:
			braces = append(braces, t)
		case tok.CLOSED_BRACE:
			if len(braces) == 0 {
				return newSyntaxError(t, ErrUnmatchedBrace)
			}

			braces = braces[:len(braces)-1]
		}
	}

	if len(brackets) > 0 {
		return newSyntaxError(brackets[len(brackets)-1], ErrUnmatchedBracket)
	}

	if len(braces) > 0 {
		return newSyntaxError(braces[len(braces)-1], ErrUnmatchedBrace)
	}

	return nil
}

func parsePath() pc.Parser[entity] {
	return pc.Trace("path", func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if len(tokens) == 0 {
			return 0, nil, &SyntaxError{Reason: ErrEmptyPath}
		}

		offset := 0

		// Optional leading range, which binds to the final component
		var leading *gqlxpath.Range

		consumed, ranges, err := rangeGroup(pctx, tokens)
		if err == nil {
			leading = ranges[0].Val.rng
			offset += consumed
		} else if !errors.Is(err, pc.ErrNotMatch) {
			return 0, nil, err
		}

		// Root mode: / selects the first match, // selects all matches
		if offset >= len(tokens) || tokens[offset].Val.original.Type != tok.SLASH {
			at := tokens[len(tokens)-1].Val.original
			if offset < len(tokens) {
				at = tokens[offset].Val.original
			}

			return 0, nil, newSyntaxError(at, ErrMissingRootSlash)
		}

		offset++

		mode := gqlxpath.FIRST_MATCH_ONLY
		if offset < len(tokens) && tokens[offset].Val.original.Type == tok.SLASH {
			mode = gqlxpath.ALL_MATCHES
			offset++
		}

		var (
			components []gqlxpath.PathComponent
			starts     []tok.Token
		)

		for {
			if offset >= len(tokens) {
				return 0, nil, newSyntaxError(tokens[len(tokens)-1].Val.original, ErrEmptySegment)
			}

			if tokens[offset].Val.original.Type == tok.SLASH {
				return 0, nil, newSyntaxError(tokens[offset].Val.original, ErrEmptySegment)
			}

			consumed, segs, err := segment(pctx, tokens[offset:])
			if err != nil {
				if errors.Is(err, pc.ErrNotMatch) {
					return 0, nil, newSyntaxError(tokens[offset].Val.original, ErrUnexpectedToken)
				}

				return 0, nil, err
			}

			components = append(components, *segs[0].Val.component)
			starts = append(starts, tokens[offset].Val.original)
			offset += consumed

			if offset >= len(tokens) {
				break
			}

			if tokens[offset].Val.original.Type != tok.SLASH {
				return 0, nil, newSyntaxError(tokens[offset].Val.original, ErrUnexpectedToken)
			}

			offset++
		}

		path, err := finalize(mode, leading, components, starts)
		if err != nil {
			return 0, nil, err
		}

		return offset, []pc.Token[entity]{
			{
				Type: "path",
				Pos:  tokens[0].Pos,
				Val: entity{
					path: path,
				},
			},
		}, nil
	})
}

// finalize collapses redundant wildcards, applies the leading range to the
// final component, and rejects paths that end on a wildcard.
func finalize(mode gqlxpath.RootMode, leading *gqlxpath.Range, components []gqlxpath.PathComponent, starts []tok.Token) (*gqlxpath.SearchPath, error) {
	collapsed := make([]gqlxpath.PathComponent, 0, len(components))
	collapsedStarts := make([]tok.Token, 0, len(starts))

	for i, c := range components {
		if c.Wildcard && len(collapsed) > 0 && collapsed[len(collapsed)-1].Wildcard {
			continue
		}

		collapsed = append(collapsed, c)
		collapsedStarts = append(collapsedStarts, starts[i])
	}

	last := len(collapsed) - 1
	if collapsed[last].Wildcard {
		return nil, newSyntaxError(collapsedStarts[last], ErrTrailingWildcard)
	}

	if leading != nil {
		if collapsed[last].Range != nil {
			return nil, newSyntaxError(collapsedStarts[last], ErrDuplicateRange)
		}

		collapsed[last].Range = leading
	}

	return &gqlxpath.SearchPath{
		Mode:       mode,
		Components: collapsed,
	}, nil
}
