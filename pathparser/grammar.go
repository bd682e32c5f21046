package pathparser

import (
	"errors"
	"slices"
	"strconv"

	"github.com/shibukawa/gqlxpath"
	tok "github.com/shibukawa/gqlxpath/tokenizer"
	pc "github.com/shibukawa/parsercombinator"
)

var (
	slash        = primitiveType("slash", tok.SLASH)
	identifier   = primitiveType("identifier", tok.IDENTIFIER)
	number       = primitiveType("number", tok.NUMBER)
	equal        = primitiveType("equal", tok.EQUAL)
	colon        = primitiveType("colon", tok.COLON)
	braceOpen    = primitiveType("braceOpen", tok.OPENED_BRACE)
	braceClose   = primitiveType("braceClose", tok.CLOSED_BRACE)
	bracketOpen  = primitiveType("bracketOpen", tok.OPENED_BRACKET)
	bracketClose = primitiveType("bracketClose", tok.CLOSED_BRACKET)
)

// Group shapes. The custom parsers below match these first and then build
// values from the raw tokens they consumed.
var (
	rangeShape  = pc.Seq(braceOpen, pc.Optional(number), colon, pc.Optional(number), braceClose)
	filterShape = pc.Seq(bracketOpen, identifier, equal, identifier, bracketClose)
)

func primitiveType(typeName string, types ...tok.TokenType) pc.Parser[entity] {
	return func(pctx *pc.ParseContext[entity], tokens []pc.Token[entity]) (int, []pc.Token[entity], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.original.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// rangeGroup parses {start:end} with either bound optional and synthesizes
// a range token. An inverted range is a critical error, not a mismatch.
func rangeGroup(pctx *pc.ParseContext[entity], t []pc.Token[entity]) (int, []pc.Token[entity], error) {
	consumed, _, err := rangeShape(pctx, t)
	if err != nil {
		return 0, nil, err
	}

	rng := &gqlxpath.Range{}

	idx := 1
	if t[idx].Val.original.Type == tok.NUMBER {
		start, err := strconv.Atoi(t[idx].Val.original.Value)
		if err != nil {
			return 0, nil, newSyntaxError(t[idx].Val.original, ErrInvalidRange)
		}

		rng.Start = &start
		idx++
	}

	idx++ // colon
	if t[idx].Val.original.Type == tok.NUMBER {
		end, err := strconv.Atoi(t[idx].Val.original.Value)
		if err != nil {
			return 0, nil, newSyntaxError(t[idx].Val.original, ErrInvalidRange)
		}

		rng.End = &end
	}

	if rng.Start != nil && rng.End != nil && *rng.End < *rng.Start {
		return 0, nil, newSyntaxError(t[0].Val.original, ErrInvertedRange)
	}

	return consumed, []pc.Token[entity]{
		{
			Type: "range",
			Pos:  t[0].Pos,
			Val: entity{
				original: t[0].Val.original,
				rng:      rng,
			},
		},
	}, nil
}

// filterGroup parses [key=value] and synthesizes a filter token. Unknown
// keys are critical errors.
func filterGroup(pctx *pc.ParseContext[entity], t []pc.Token[entity]) (int, []pc.Token[entity], error) {
	consumed, _, err := filterShape(pctx, t)
	if err != nil {
		return 0, nil, err
	}

	key := t[1].Val.original
	value := t[3].Val.original

	switch key.Value {
	case "type", "name", "alias":
	default:
		return 0, nil, newSyntaxError(key, ErrUnknownFilterKey)
	}

	return consumed, []pc.Token[entity]{
		{
			Type: "filter",
			Pos:  t[0].Pos,
			Val: entity{
				original:  t[0].Val.original,
				filterKey: key.Value,
				filterVal: value.Value,
			},
		},
	}, nil
}

// segment parses one path segment: a wildcard, or an optional glued range
// followed by a bare name and filter groups. It synthesizes a segment token
// carrying the built component.
func segment(pctx *pc.ParseContext[entity], t []pc.Token[entity]) (int, []pc.Token[entity], error) {
	if len(t) == 0 {
		return 0, nil, pc.ErrNotMatch
	}

	if t[0].Val.original.Type == tok.ELLIPSIS {
		return 1, []pc.Token[entity]{
			{
				Type: "segment",
				Pos:  t[0].Pos,
				Val: entity{
					original:  t[0].Val.original,
					component: &gqlxpath.PathComponent{Wildcard: true},
				},
			},
		}, nil
	}

	comp := &gqlxpath.PathComponent{}
	offset := 0

	// Optional glued range prefix
	consumed, ranges, err := rangeGroup(pctx, t)
	if err == nil {
		comp.Range = ranges[0].Val.rng
		offset += consumed
	} else if !errors.Is(err, pc.ErrNotMatch) {
		return 0, nil, err
	}

	if comp.Range != nil && offset < len(t) && t[offset].Val.original.Type == tok.ELLIPSIS {
		return 0, nil, newSyntaxError(t[offset].Val.original, ErrRangeOnWildcard)
	}

	// A second brace group is either a duplicate range or a malformed one
	if offset < len(t) && t[offset].Val.original.Type == tok.OPENED_BRACE {
		if comp.Range != nil {
			return 0, nil, newSyntaxError(t[offset].Val.original, ErrDuplicateRange)
		}

		return 0, nil, newSyntaxError(t[offset].Val.original, ErrInvalidRange)
	}

	// Bare name
	if offset < len(t) && t[offset].Val.original.Type == tok.IDENTIFIER {
		comp.Name = t[offset].Val.original.Value
		offset++
	}

	// Filter groups
	for offset < len(t) && t[offset].Val.original.Type == tok.OPENED_BRACKET {
		consumed, filters, err := filterGroup(pctx, t[offset:])
		if err != nil {
			if errors.Is(err, pc.ErrNotMatch) {
				return 0, nil, newSyntaxError(t[offset].Val.original, ErrInvalidFilter)
			}

			return 0, nil, err
		}

		f := filters[0].Val
		switch f.filterKey {
		case "type":
			if comp.Kind != gqlxpath.UNKNOWN {
				return 0, nil, newSyntaxError(f.original, ErrDuplicateFilter)
			}

			kind, err := gqlxpath.KindOf(f.filterVal)
			if err != nil {
				return 0, nil, &SyntaxError{
					Token:  f.filterVal,
					Pos:    f.original.Position,
					Reason: err,
				}
			}

			comp.Kind = kind
		case "name":
			// A bare segment name counts as a name filter
			if comp.Name != "" {
				return 0, nil, newSyntaxError(f.original, ErrDuplicateFilter)
			}

			comp.Name = f.filterVal
		case "alias":
			if comp.Alias != "" {
				return 0, nil, newSyntaxError(f.original, ErrDuplicateFilter)
			}

			comp.Alias = f.filterVal
		}

		offset += consumed
	}

	// A brace group after the name or filters is a misplaced range
	if offset < len(t) && t[offset].Val.original.Type == tok.OPENED_BRACE {
		return 0, nil, newSyntaxError(t[offset].Val.original, ErrInvalidRange)
	}

	if offset == 0 {
		return 0, nil, pc.ErrNotMatch
	}

	// A lone range selects nothing
	if comp.Range != nil && comp.Name == "" && comp.Kind == gqlxpath.UNKNOWN && comp.Alias == "" {
		return 0, nil, newSyntaxError(t[0].Val.original, ErrEmptySegment)
	}

	if comp.Alias != "" && comp.Kind != gqlxpath.UNKNOWN && comp.Kind != gqlxpath.FIELD {
		return 0, nil, newSyntaxError(t[0].Val.original, ErrAliasOnNonField)
	}

	return offset, []pc.Token[entity]{
		{
			Type: "segment",
			Pos:  t[0].Pos,
			Val: entity{
				original:  t[0].Val.original,
				component: comp,
			},
		},
	}, nil
}
