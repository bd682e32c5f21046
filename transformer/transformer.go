// Package transformer rewrites GraphQL query documents at locations
// addressed by search paths. Every operation produces a new document: the
// spine from the edited node to the root is rebuilt from shallow copies and
// everything off the spine is shared with the source, which is never
// mutated.
package transformer

import (
	"fmt"

	"github.com/shibukawa/gqlxpath"
	"github.com/shibukawa/gqlxpath/cache"
	"github.com/shibukawa/gqlxpath/selector"
	"github.com/shibukawa/gqlxpath/traverser"
	"github.com/vektah/gqlparser/v2/ast"
)

// Transformer applies edits to documents. The optional cache memoizes path
// compilation across operations; nil works and compiles directly.
type Transformer struct {
	cache *cache.Cache
}

// New creates a Transformer. c may be nil.
func New(c *cache.Cache) *Transformer {
	return &Transformer{cache: c}
}

func (t *Transformer) resolve(doc *ast.QueryDocument, path string) (*traverser.NodeContext, error) {
	compiled, err := t.cache.Path(path)
	if err != nil {
		return nil, err
	}

	return selector.Select(doc, compiled)
}

// AddField appends a field with the given name and optional alias to the
// selection set of the node at path. The path must resolve to a selection
// set owner: an operation, a field, an inline fragment or a fragment
// definition.
func (t *Transformer) AddField(doc *ast.QueryDocument, path, name, alias string) (*ast.QueryDocument, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: field name is required", ErrMissingParameter)
	}

	ctx, err := t.resolve(doc, path)
	if err != nil {
		return nil, err
	}

	// Unaliased fields carry their name in the alias slot, matching what
	// the parser produces.
	field := &ast.Field{Name: name, Alias: name}
	if alias != "" {
		field.Alias = alias
	}

	owner, err := copyOwner(ctx.Node)
	if err != nil {
		return nil, err
	}

	owner.setSelections(appendSelection(owner.selections(), field))

	return rebuild(ctx.Ancestors, owner.node())
}

// UpdateArgument replaces the value of the argument at path. The new value
// is a scalar GraphQL literal; see BuildValue for the accepted forms.
func (t *Transformer) UpdateArgument(doc *ast.QueryDocument, path, value string) (*ast.QueryDocument, error) {
	ctx, err := t.resolve(doc, path)
	if err != nil {
		return nil, err
	}

	arg, ok := ctx.Node.Node.(*ast.Argument)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an argument", ErrInvalidTarget, ctx.Node.Kind)
	}

	parsed, err := BuildValue(value)
	if err != nil {
		return nil, err
	}

	updated := *arg
	updated.Value = parsed

	return rebuild(ctx.Ancestors, &updated)
}

// RemoveArgument deletes the argument at path from its owner's argument
// list.
func (t *Transformer) RemoveArgument(doc *ast.QueryDocument, path string) (*ast.QueryDocument, error) {
	ctx, err := t.resolve(doc, path)
	if err != nil {
		return nil, err
	}

	if _, ok := ctx.Node.Node.(*ast.Argument); !ok {
		return nil, fmt.Errorf("%w: %s is not an argument", ErrInvalidTarget, ctx.Node.Kind)
	}

	return rebuild(ctx.Ancestors, nil)
}

// RemoveField deletes the field at path from its enclosing selection set.
func (t *Transformer) RemoveField(doc *ast.QueryDocument, path string) (*ast.QueryDocument, error) {
	ctx, err := t.resolve(doc, path)
	if err != nil {
		return nil, err
	}

	if _, ok := ctx.Node.Node.(*ast.Field); !ok {
		return nil, fmt.Errorf("%w: %s is not a field", ErrInvalidTarget, ctx.Node.Kind)
	}

	return rebuild(ctx.Ancestors, nil)
}

// InlineFragment replaces the fragment spread at path with the referenced
// definition's selections, then drops every fragment definition the
// document no longer references.
func (t *Transformer) InlineFragment(doc *ast.QueryDocument, path string) (*ast.QueryDocument, error) {
	ctx, err := t.resolve(doc, path)
	if err != nil {
		return nil, err
	}

	spread, ok := ctx.Node.Node.(*ast.FragmentSpread)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a fragment spread", ErrInvalidTarget, ctx.Node.Kind)
	}

	frag := findFragment(doc, spread.Name)
	if frag == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFragment, spread.Name)
	}

	rebuilt, err := rebuild(ctx.Ancestors, frag.SelectionSet)
	if err != nil {
		return nil, err
	}

	return dropUnusedFragments(rebuilt), nil
}

// ExtractFragment moves the selections of the node at path into a new
// fragment definition with the given name and type condition, leaving a
// single spread in their place. The path must resolve to a selection set
// owner.
func (t *Transformer) ExtractFragment(doc *ast.QueryDocument, path, name, typeCondition string) (*ast.QueryDocument, error) {
	if name == "" || typeCondition == "" {
		return nil, fmt.Errorf("%w: fragment name and type condition are required", ErrMissingParameter)
	}

	if findFragment(doc, name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrFragmentExists, name)
	}

	ctx, err := t.resolve(doc, path)
	if err != nil {
		return nil, err
	}

	owner, err := copyOwner(ctx.Node)
	if err != nil {
		return nil, err
	}

	selections := owner.selections()
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: target has no selections to extract", ErrInvalidTarget)
	}

	owner.setSelections(ast.SelectionSet{&ast.FragmentSpread{Name: name}})

	rebuilt, err := rebuild(ctx.Ancestors, owner.node())
	if err != nil {
		return nil, err
	}

	frag := &ast.FragmentDefinition{
		Name:          name,
		TypeCondition: typeCondition,
		SelectionSet:  selections,
	}

	out := *rebuilt
	out.Fragments = appendFragment(rebuilt.Fragments, frag)

	return &out, nil
}

// selectionOwner is a copied node whose selection set can be rewritten
// before the spine rebuild.
type selectionOwner interface {
	selections() ast.SelectionSet
	setSelections(set ast.SelectionSet)
	node() any
}

type operationOwner struct{ op ast.OperationDefinition }

func (o *operationOwner) selections() ast.SelectionSet       { return o.op.SelectionSet }
func (o *operationOwner) setSelections(set ast.SelectionSet) { o.op.SelectionSet = set }
func (o *operationOwner) node() any                          { return &o.op }

type fieldOwner struct{ f ast.Field }

func (o *fieldOwner) selections() ast.SelectionSet       { return o.f.SelectionSet }
func (o *fieldOwner) setSelections(set ast.SelectionSet) { o.f.SelectionSet = set }
func (o *fieldOwner) node() any                          { return &o.f }

type inlineFragmentOwner struct{ inline ast.InlineFragment }

func (o *inlineFragmentOwner) selections() ast.SelectionSet       { return o.inline.SelectionSet }
func (o *inlineFragmentOwner) setSelections(set ast.SelectionSet) { o.inline.SelectionSet = set }
func (o *inlineFragmentOwner) node() any                          { return &o.inline }

type fragmentDefinitionOwner struct{ frag ast.FragmentDefinition }

func (o *fragmentDefinitionOwner) selections() ast.SelectionSet       { return o.frag.SelectionSet }
func (o *fragmentDefinitionOwner) setSelections(set ast.SelectionSet) { o.frag.SelectionSet = set }
func (o *fragmentDefinitionOwner) node() any                          { return &o.frag }

func copyOwner(node traverser.GqlNode) (selectionOwner, error) {
	switch node.Kind {
	case gqlxpath.QUERY_OPERATION, gqlxpath.MUTATION_OPERATION, gqlxpath.SUBSCRIPTION_OPERATION:
		return &operationOwner{op: *node.Node.(*ast.OperationDefinition)}, nil
	case gqlxpath.FIELD:
		return &fieldOwner{f: *node.Node.(*ast.Field)}, nil
	case gqlxpath.INLINE_FRAGMENT:
		return &inlineFragmentOwner{inline: *node.Node.(*ast.InlineFragment)}, nil
	case gqlxpath.FRAGMENT_DEFINITION:
		return &fragmentDefinitionOwner{frag: *node.Node.(*ast.FragmentDefinition)}, nil
	default:
		return nil, fmt.Errorf("%w: %s does not own a selection set", ErrInvalidTarget, node.Kind)
	}
}

func appendSelection(set ast.SelectionSet, sel ast.Selection) ast.SelectionSet {
	out := make(ast.SelectionSet, len(set), len(set)+1)
	copy(out, set)

	return append(out, sel)
}

func appendFragment(list ast.FragmentDefinitionList, frag *ast.FragmentDefinition) ast.FragmentDefinitionList {
	out := make(ast.FragmentDefinitionList, len(list), len(list)+1)
	copy(out, list)

	return append(out, frag)
}

func findFragment(doc *ast.QueryDocument, name string) *ast.FragmentDefinition {
	for _, frag := range doc.Fragments {
		if frag.Name == name {
			return frag
		}
	}

	return nil
}

// dropUnusedFragments removes fragment definitions no spread references,
// repeating until stable so chains of fragments that only referenced each
// other disappear together.
func dropUnusedFragments(doc *ast.QueryDocument) *ast.QueryDocument {
	for {
		used := spreadNames(doc)

		kept := make(ast.FragmentDefinitionList, 0, len(doc.Fragments))
		for _, frag := range doc.Fragments {
			if used[frag.Name] {
				kept = append(kept, frag)
			}
		}

		if len(kept) == len(doc.Fragments) {
			return doc
		}

		next := *doc
		next.Fragments = kept
		doc = &next
	}
}

type spreadCollector struct {
	names map[string]bool
}

func (s *spreadCollector) OnEnter(ctx *traverser.NodeContext) traverser.Action {
	if ctx.Node.Kind == gqlxpath.FRAGMENT_SPREAD {
		s.names[ctx.Node.Name] = true
	}

	return traverser.CONTINUE
}

func (s *spreadCollector) OnExit(ctx *traverser.NodeContext) traverser.Action {
	return traverser.CONTINUE
}

func spreadNames(doc *ast.QueryDocument) map[string]bool {
	collector := &spreadCollector{names: make(map[string]bool)}
	// The document is never nil here, so Traverse cannot fail.
	_ = traverser.Traverse(doc, collector)

	return collector.names
}
