package pathparser

import (
	"github.com/shibukawa/gqlxpath"
	tok "github.com/shibukawa/gqlxpath/tokenizer"
	pc "github.com/shibukawa/parsercombinator"
)

// entity is the value carried by parser combinator tokens. Raw tokens hold
// only original; the grammar synthesizes tokens whose other fields carry the
// structures built so far.
type entity struct {
	original  tok.Token
	rng       *gqlxpath.Range         // synthesized range group
	filterKey string                  // synthesized filter group
	filterVal string                  //
	component *gqlxpath.PathComponent // synthesized segment
	path      *gqlxpath.SearchPath    // synthesized whole path
}

func tokenToEntity(tokens []tok.Token) []pc.Token[entity] {
	results := make([]pc.Token[entity], 0, len(tokens))

	for _, token := range tokens {
		if token.Type == tok.EOF {
			continue
		}

		pcToken := pc.Token[entity]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: entity{
				original: token,
			},
			Raw: token.Value,
		}
		results = append(results, pcToken)
	}

	return results
}
