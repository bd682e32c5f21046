package traverser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/gqlxpath"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func parseDoc(t *testing.T, src string) *ast.QueryDocument {
	t.Helper()

	doc, err := parser.ParseQuery(&ast.Source{Name: "query.graphql", Input: src})
	assert.NoError(t, err)

	return doc
}

type event struct {
	phase string
	kind  gqlxpath.NodeKind
	name  string
}

func (e event) String() string {
	if e.name == "" {
		return e.phase + " " + e.kind.String()
	}

	return e.phase + " " + e.kind.String() + " " + e.name
}

// recorder keeps the full event sequence as readable lines.
type recorder struct {
	events []event
}

func (r *recorder) OnEnter(ctx *NodeContext) Action {
	r.events = append(r.events, event{"enter", ctx.Node.Kind, ctx.Node.Name})
	return CONTINUE
}

func (r *recorder) OnExit(ctx *NodeContext) Action {
	r.events = append(r.events, event{"exit", ctx.Node.Kind, ctx.Node.Name})
	return CONTINUE
}

func (r *recorder) lines() []string {
	lines := make([]string, len(r.events))
	for i, e := range r.events {
		lines[i] = e.String()
	}

	return lines
}

// funcObserver adapts plain functions for one-off behaviors.
type funcObserver struct {
	onEnter func(ctx *NodeContext) Action
	onExit  func(ctx *NodeContext) Action
}

func (o *funcObserver) OnEnter(ctx *NodeContext) Action {
	if o.onEnter != nil {
		return o.onEnter(ctx)
	}

	return CONTINUE
}

func (o *funcObserver) OnExit(ctx *NodeContext) Action {
	if o.onExit != nil {
		return o.onExit(ctx)
	}

	return CONTINUE
}

func TestTraverseNilDocument(t *testing.T) {
	err := Traverse(nil, &recorder{})
	assert.IsError(t, err, gqlxpath.ErrNilDocument)
}

func TestTraverseEventOrder(t *testing.T) {
	doc := parseDoc(t, `
		query HeroQuery($ep: Episode!) @cached(ttl: 60) {
			hero(episode: $ep) {
				name @include(if: true)
				... on Droid {
					primaryFunction
				}
				...friendNames
			}
		}

		fragment friendNames on Character {
			friends {
				name
			}
		}
	`)

	rec := &recorder{}
	err := Traverse(doc, rec)
	assert.NoError(t, err)

	expected := []string{
		"enter DOCUMENT",
		"enter DEFINITIONS",
		"enter QUERY_OPERATION query",
		"enter VARIABLE_DEFINITIONS",
		"enter VARIABLE_DEFINITION ep",
		"exit VARIABLE_DEFINITION ep",
		"exit VARIABLE_DEFINITIONS",
		"enter DIRECTIVES",
		"enter DIRECTIVE cached",
		"enter ARGUMENTS",
		"enter ARGUMENT ttl",
		"exit ARGUMENT ttl",
		"exit ARGUMENTS",
		"exit DIRECTIVE cached",
		"exit DIRECTIVES",
		"enter SELECTION_SET",
		"enter FIELD hero",
		"enter ARGUMENTS",
		"enter ARGUMENT episode",
		"exit ARGUMENT episode",
		"exit ARGUMENTS",
		"enter SELECTION_SET",
		"enter FIELD name",
		"enter DIRECTIVES",
		"enter DIRECTIVE include",
		"enter ARGUMENTS",
		"enter ARGUMENT if",
		"exit ARGUMENT if",
		"exit ARGUMENTS",
		"exit DIRECTIVE include",
		"exit DIRECTIVES",
		"exit FIELD name",
		"enter INLINE_FRAGMENT Droid",
		"enter SELECTION_SET",
		"enter FIELD primaryFunction",
		"exit FIELD primaryFunction",
		"exit SELECTION_SET",
		"exit INLINE_FRAGMENT Droid",
		"enter FRAGMENT_SPREAD friendNames",
		"exit FRAGMENT_SPREAD friendNames",
		"exit SELECTION_SET",
		"exit FIELD hero",
		"exit SELECTION_SET",
		"exit QUERY_OPERATION query",
		"enter FRAGMENT_DEFINITION friendNames",
		"enter SELECTION_SET",
		"enter FIELD friends",
		"enter SELECTION_SET",
		"enter FIELD name",
		"exit FIELD name",
		"exit SELECTION_SET",
		"exit FIELD friends",
		"exit SELECTION_SET",
		"exit FRAGMENT_DEFINITION friendNames",
		"exit DEFINITIONS",
		"exit DOCUMENT",
	}
	assert.Equal(t, expected, rec.lines())
}

func TestTraverseEmptyDocument(t *testing.T) {
	rec := &recorder{}
	err := Traverse(&ast.QueryDocument{}, rec)
	assert.NoError(t, err)

	assert.Equal(t, []string{"enter DOCUMENT", "exit DOCUMENT"}, rec.lines())
}

func TestTraverseEmptyCollectionsOmitted(t *testing.T) {
	doc := parseDoc(t, `{ hero }`)

	rec := &recorder{}
	err := Traverse(doc, rec)
	assert.NoError(t, err)

	expected := []string{
		"enter DOCUMENT",
		"enter DEFINITIONS",
		"enter QUERY_OPERATION query",
		"enter SELECTION_SET",
		"enter FIELD hero",
		"exit FIELD hero",
		"exit SELECTION_SET",
		"exit QUERY_OPERATION query",
		"exit DEFINITIONS",
		"exit DOCUMENT",
	}
	assert.Equal(t, expected, rec.lines())
}

func TestTraverseOperationKinds(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"query keyword", "query Q { hero }", "enter QUERY_OPERATION query"},
		{"shorthand query", "{ hero }", "enter QUERY_OPERATION query"},
		{"mutation", "mutation M { createHero }", "enter MUTATION_OPERATION mutation"},
		{"subscription", "subscription S { heroUpdated }", "enter SUBSCRIPTION_OPERATION subscription"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			err := Traverse(parseDoc(t, tt.src), rec)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, rec.lines()[2])
		})
	}
}

func TestTraverseFieldAlias(t *testing.T) {
	doc := parseDoc(t, `{ big: hero empire: hero hero }`)

	var aliases []string
	obs := &funcObserver{
		onEnter: func(ctx *NodeContext) Action {
			if ctx.Node.Kind == gqlxpath.FIELD {
				aliases = append(aliases, ctx.Node.Alias)
			}

			return CONTINUE
		},
	}

	err := Traverse(doc, obs)
	assert.NoError(t, err)
	assert.Equal(t, []string{"big", "empire", ""}, aliases)
}

func TestTraverseDefinitionsInSourceOrder(t *testing.T) {
	doc := parseDoc(t, `
		fragment friendNames on Character {
			name
		}

		query Hero {
			hero
		}
	`)

	var order []string
	obs := &funcObserver{
		onEnter: func(ctx *NodeContext) Action {
			switch ctx.Node.Kind {
			case gqlxpath.FRAGMENT_DEFINITION, gqlxpath.QUERY_OPERATION:
				order = append(order, ctx.Node.Kind.String())
			}

			return CONTINUE
		},
	}

	err := Traverse(doc, obs)
	assert.NoError(t, err)
	assert.Equal(t, []string{"FRAGMENT_DEFINITION", "QUERY_OPERATION"}, order)
}

func TestTraverseVariableDefinitionDirectives(t *testing.T) {
	// Built by hand: definitions without positions keep list order, and the
	// walker visits directives attached to a variable definition.
	doc := &ast.QueryDocument{
		Operations: ast.OperationList{
			{
				Operation: ast.Query,
				Name:      "Q",
				VariableDefinitions: ast.VariableDefinitionList{
					{
						Variable:   "ep",
						Directives: ast.DirectiveList{{Name: "deprecated"}},
					},
				},
			},
		},
	}

	rec := &recorder{}
	err := Traverse(doc, rec)
	assert.NoError(t, err)

	expected := []string{
		"enter DOCUMENT",
		"enter DEFINITIONS",
		"enter QUERY_OPERATION query",
		"enter VARIABLE_DEFINITIONS",
		"enter VARIABLE_DEFINITION ep",
		"enter DIRECTIVES",
		"enter DIRECTIVE deprecated",
		"exit DIRECTIVE deprecated",
		"exit DIRECTIVES",
		"exit VARIABLE_DEFINITION ep",
		"exit VARIABLE_DEFINITIONS",
		"exit QUERY_OPERATION query",
		"exit DEFINITIONS",
		"exit DOCUMENT",
	}
	assert.Equal(t, expected, rec.lines())
}

func TestTraverseEntryExitPairing(t *testing.T) {
	doc := parseDoc(t, `
		query HeroQuery($ep: Episode!) {
			hero(episode: $ep) @include(if: true) {
				name
				friends {
					name
				}
			}
		}
	`)

	var stack []*NodeContext
	obs := &funcObserver{
		onEnter: func(ctx *NodeContext) Action {
			stack = append(stack, ctx)
			return CONTINUE
		},
		onExit: func(ctx *NodeContext) Action {
			assert.True(t, len(stack) > 0)

			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			// The exact context built on entry comes back on exit.
			assert.True(t, top == ctx)

			return CONTINUE
		},
	}

	err := Traverse(doc, obs)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(stack))
}

func TestTraverseStopOnEnter(t *testing.T) {
	doc := parseDoc(t, `{ hero { name } }`)

	rec := &recorder{}
	entered := 0
	stopper := &funcObserver{
		onEnter: func(ctx *NodeContext) Action {
			entered++
			if entered == 2 {
				return STOP
			}

			return CONTINUE
		},
	}

	tr := New(rec)
	tr.Register(stopper)

	err := tr.Traverse(doc)
	assert.NoError(t, err)

	// The aborted node still reached every observer, then nothing more: no
	// descent, and no exit events for the nodes already entered.
	assert.Equal(t, []string{"enter DOCUMENT", "enter DEFINITIONS"}, rec.lines())
}

func TestTraverseStopOnExit(t *testing.T) {
	doc := parseDoc(t, `{ hero { name } }`)

	rec := &recorder{}
	stopper := &funcObserver{
		onExit: func(ctx *NodeContext) Action {
			return STOP
		},
	}

	err := Traverse(doc, rec, stopper)
	assert.NoError(t, err)

	expected := []string{
		"enter DOCUMENT",
		"enter DEFINITIONS",
		"enter QUERY_OPERATION query",
		"enter SELECTION_SET",
		"enter FIELD hero",
		"enter SELECTION_SET",
		"enter FIELD name",
		"exit FIELD name",
	}
	assert.Equal(t, expected, rec.lines())
}

func TestTraverseSkipChildren(t *testing.T) {
	doc := parseDoc(t, `{ hero(episode: EMPIRE) { name } villain { name } }`)

	rec := &recorder{}
	skipper := &funcObserver{
		onEnter: func(ctx *NodeContext) Action {
			if ctx.Node.Kind == gqlxpath.FIELD && ctx.Node.Name == "hero" {
				return SKIP_CHILDREN
			}

			return CONTINUE
		},
	}

	err := Traverse(doc, rec, skipper)
	assert.NoError(t, err)

	expected := []string{
		"enter DOCUMENT",
		"enter DEFINITIONS",
		"enter QUERY_OPERATION query",
		"enter SELECTION_SET",
		"enter FIELD hero",
		"exit FIELD hero",
		"enter FIELD villain",
		"enter SELECTION_SET",
		"enter FIELD name",
		"exit FIELD name",
		"exit SELECTION_SET",
		"exit FIELD villain",
		"exit SELECTION_SET",
		"exit QUERY_OPERATION query",
		"exit DEFINITIONS",
		"exit DOCUMENT",
	}
	assert.Equal(t, expected, rec.lines())
}

func TestTraverseMostRestrictiveActionWins(t *testing.T) {
	doc := parseDoc(t, `{ hero }`)

	rec := &recorder{}
	continuer := &funcObserver{}
	skipper := &funcObserver{
		onEnter: func(ctx *NodeContext) Action {
			if ctx.Node.Kind == gqlxpath.SELECTION_SET {
				return SKIP_CHILDREN
			}

			return CONTINUE
		},
	}

	err := Traverse(doc, continuer, rec, skipper)
	assert.NoError(t, err)

	expected := []string{
		"enter DOCUMENT",
		"enter DEFINITIONS",
		"enter QUERY_OPERATION query",
		"enter SELECTION_SET",
		"exit SELECTION_SET",
		"exit QUERY_OPERATION query",
		"exit DEFINITIONS",
		"exit DOCUMENT",
	}
	assert.Equal(t, expected, rec.lines())
}

func TestTraverseNodeContext(t *testing.T) {
	doc := parseDoc(t, `{ hero { name } }`)

	var captured *NodeContext
	obs := &funcObserver{
		onEnter: func(ctx *NodeContext) Action {
			if ctx.Node.Kind == gqlxpath.FIELD && ctx.Node.Name == "name" {
				captured = ctx
			}

			return CONTINUE
		},
	}

	err := Traverse(doc, obs)
	assert.NoError(t, err)
	assert.NotZero(t, captured)

	// Ancestors is a snapshot from the root to the node itself, unchanged
	// by the rest of the traversal.
	kinds := make([]gqlxpath.NodeKind, len(captured.Ancestors))
	for i, node := range captured.Ancestors {
		kinds[i] = node.Kind
	}

	assert.Equal(t, []gqlxpath.NodeKind{
		gqlxpath.DOCUMENT,
		gqlxpath.DEFINITIONS,
		gqlxpath.QUERY_OPERATION,
		gqlxpath.SELECTION_SET,
		gqlxpath.FIELD,
		gqlxpath.SELECTION_SET,
		gqlxpath.FIELD,
	}, kinds)

	assert.Equal(t, 7, captured.Depth)
	assert.Equal(t, "name", captured.Node.Name)
	assert.NotZero(t, captured.Parent)
	assert.Equal(t, gqlxpath.SELECTION_SET, captured.Parent.Kind)

	field, ok := captured.Node.Node.(*ast.Field)
	assert.True(t, ok)
	assert.Equal(t, "name", field.Name)
}

func TestTraverseScratchShared(t *testing.T) {
	doc := parseDoc(t, `{ hero { name } }`)

	var total int
	counter := &funcObserver{
		onEnter: func(ctx *NodeContext) Action {
			n, _ := ctx.Scratch["entered"].(int)
			ctx.Scratch["entered"] = n + 1

			return CONTINUE
		},
		onExit: func(ctx *NodeContext) Action {
			if ctx.Node.Kind == gqlxpath.DOCUMENT {
				total, _ = ctx.Scratch["entered"].(int)
			}

			return CONTINUE
		},
	}

	tr := New(counter)

	err := tr.Traverse(doc)
	assert.NoError(t, err)
	assert.Equal(t, 7, total)

	// Each traversal starts with a fresh scratch map.
	err = tr.Traverse(doc)
	assert.NoError(t, err)
	assert.Equal(t, 7, total)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "CONTINUE", CONTINUE.String())
	assert.Equal(t, "SKIP_CHILDREN", SKIP_CHILDREN.String())
	assert.Equal(t, "STOP", STOP.String())
	assert.Equal(t, "UNKNOWN", Action(99).String())
}
