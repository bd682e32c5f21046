// Package traverser walks GraphQL query documents depth first and reports
// every node to registered observers. Child order is fixed per node kind
// (operations: variable definitions, directives, selection set; fields:
// arguments, directives, selection set), so repeated traversals of the same
// document always produce the same event sequence.
package traverser

import (
	"cmp"
	"math"
	"slices"

	"github.com/shibukawa/gqlxpath"
	"github.com/vektah/gqlparser/v2/ast"
)

// Action is an observer's verdict on how the traversal should proceed.
type Action int

const (
	// CONTINUE descends into the node's children.
	CONTINUE Action = iota
	// SKIP_CHILDREN visits the node's exit event without descending.
	SKIP_CHILDREN
	// STOP aborts the whole traversal. No further entry or exit events are
	// delivered, including exit events for nodes already entered.
	STOP
)

func (a Action) String() string {
	switch a {
	case CONTINUE:
		return "CONTINUE"
	case SKIP_CHILDREN:
		return "SKIP_CHILDREN"
	case STOP:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}

// GqlNode is the traverser's uniform view of one document node.
type GqlNode struct {
	Kind gqlxpath.NodeKind
	// Name is the identifier the node is matched by: the field, argument,
	// directive, fragment or variable name, the operation keyword for
	// operations, or the type condition for inline fragments. Structural
	// nodes have no name.
	Name string
	// Alias is set for fields only, and only when the query aliases the
	// field under a different name.
	Alias string
	// Node is the underlying AST value: *ast.Field, *ast.Argument and so
	// on. Collection nodes carry their list; DOCUMENT and DEFINITIONS carry
	// the *ast.QueryDocument.
	Node any
}

// NodeContext describes one visited node. A fresh context is built on entry
// and the same context is passed to the matching exit event.
type NodeContext struct {
	Node   GqlNode
	Parent *GqlNode
	// Ancestors is the traversal stack snapshot from the document root to
	// this node, this node last.
	Ancestors []GqlNode
	// Depth is the stack size: 1 for the document node.
	Depth int
	// Scratch is shared by all contexts of a single traversal. Observers
	// may use it to accumulate state.
	Scratch map[string]any
}

// Observer receives entry and exit events for every visited node.
type Observer interface {
	OnEnter(ctx *NodeContext) Action
	OnExit(ctx *NodeContext) Action
}

// Traverser drives observers over query documents. The zero value is usable.
type Traverser struct {
	observers []Observer
}

// New creates a Traverser with the given observers.
func New(observers ...Observer) *Traverser {
	return &Traverser{
		observers: observers,
	}
}

// Register appends an observer. Observers are notified in registration
// order, and the most restrictive of their actions wins.
func (t *Traverser) Register(obs Observer) {
	t.observers = append(t.observers, obs)
}

// Traverse walks the document once. Aborting via STOP is not an error.
func (t *Traverser) Traverse(doc *ast.QueryDocument) error {
	if doc == nil {
		return gqlxpath.ErrNilDocument
	}

	w := &walker{
		observers: t.observers,
		stack:     make([]GqlNode, 0, 16),
		scratch:   make(map[string]any),
	}
	w.walkDocument(doc)

	return nil
}

// Traverse walks the document with the given observers.
func Traverse(doc *ast.QueryDocument, observers ...Observer) error {
	return New(observers...).Traverse(doc)
}

// walker holds the per-traversal state. The walk methods return false when
// an observer requested STOP, which unwinds the recursion without emitting
// further events.
type walker struct {
	observers []Observer
	stack     []GqlNode
	scratch   map[string]any
}

func (w *walker) push(node GqlNode) {
	w.stack = append(w.stack, node)
}

func (w *walker) pop() {
	w.stack = w.stack[:len(w.stack)-1]
}

func (w *walker) context() *NodeContext {
	ancestors := make([]GqlNode, len(w.stack))
	copy(ancestors, w.stack)

	ctx := &NodeContext{
		Node:      ancestors[len(ancestors)-1],
		Ancestors: ancestors,
		Depth:     len(ancestors),
		Scratch:   w.scratch,
	}
	if len(ancestors) > 1 {
		ctx.Parent = &ancestors[len(ancestors)-2]
	}

	return ctx
}

func (w *walker) enter(ctx *NodeContext) Action {
	result := CONTINUE

	for _, obs := range w.observers {
		if action := obs.OnEnter(ctx); action > result {
			result = action
		}
	}

	return result
}

func (w *walker) exit(ctx *NodeContext) Action {
	result := CONTINUE

	for _, obs := range w.observers {
		if action := obs.OnExit(ctx); action > result {
			result = action
		}
	}

	return result
}

// definition is one entry of the document's definition list, restored to
// source order.
type definition struct {
	pos  int
	op   *ast.OperationDefinition
	frag *ast.FragmentDefinition
}

// mergedDefinitions interleaves operations and fragment definitions by
// source position. Hand built documents without positions keep operations
// first, in list order.
func mergedDefinitions(doc *ast.QueryDocument) []definition {
	defs := make([]definition, 0, len(doc.Operations)+len(doc.Fragments))

	for _, op := range doc.Operations {
		pos := math.MaxInt
		if op.Position != nil {
			pos = op.Position.Start
		}

		defs = append(defs, definition{pos: pos, op: op})
	}

	for _, frag := range doc.Fragments {
		pos := math.MaxInt
		if frag.Position != nil {
			pos = frag.Position.Start
		}

		defs = append(defs, definition{pos: pos, frag: frag})
	}

	slices.SortStableFunc(defs, func(a, b definition) int {
		return cmp.Compare(a.pos, b.pos)
	})

	return defs
}

func operationKind(op ast.Operation) gqlxpath.NodeKind {
	switch op {
	case ast.Mutation:
		return gqlxpath.MUTATION_OPERATION
	case ast.Subscription:
		return gqlxpath.SUBSCRIPTION_OPERATION
	default:
		return gqlxpath.QUERY_OPERATION
	}
}

// fieldAlias returns the alias only when it differs from the field name.
// The GraphQL parser copies the name into the alias slot when the query
// does not alias the field.
func fieldAlias(f *ast.Field) string {
	if f.Alias != "" && f.Alias != f.Name {
		return f.Alias
	}

	return ""
}

func (w *walker) walkDocument(doc *ast.QueryDocument) bool {
	w.push(GqlNode{Kind: gqlxpath.DOCUMENT, Node: doc})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		defs := mergedDefinitions(doc)
		if len(defs) > 0 && !w.walkDefinitions(doc, defs) {
			return false
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkDefinitions(doc *ast.QueryDocument, defs []definition) bool {
	w.push(GqlNode{Kind: gqlxpath.DEFINITIONS, Node: doc})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		for _, def := range defs {
			if def.op != nil {
				if !w.walkOperation(def.op) {
					return false
				}
			} else if !w.walkFragmentDefinition(def.frag) {
				return false
			}
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkOperation(op *ast.OperationDefinition) bool {
	kind := operationKind(op.Operation)
	w.push(GqlNode{Kind: kind, Name: gqlxpath.ShortTokenOf(kind), Node: op})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		if len(op.VariableDefinitions) > 0 && !w.walkVariableDefinitions(op.VariableDefinitions) {
			return false
		}

		if len(op.Directives) > 0 && !w.walkDirectives(op.Directives) {
			return false
		}

		if len(op.SelectionSet) > 0 && !w.walkSelectionSet(op.SelectionSet) {
			return false
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkFragmentDefinition(frag *ast.FragmentDefinition) bool {
	w.push(GqlNode{Kind: gqlxpath.FRAGMENT_DEFINITION, Name: frag.Name, Node: frag})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		if len(frag.Directives) > 0 && !w.walkDirectives(frag.Directives) {
			return false
		}

		if len(frag.SelectionSet) > 0 && !w.walkSelectionSet(frag.SelectionSet) {
			return false
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkVariableDefinitions(defs ast.VariableDefinitionList) bool {
	w.push(GqlNode{Kind: gqlxpath.VARIABLE_DEFINITIONS, Node: defs})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		for _, def := range defs {
			if !w.walkVariableDefinition(def) {
				return false
			}
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkVariableDefinition(def *ast.VariableDefinition) bool {
	w.push(GqlNode{Kind: gqlxpath.VARIABLE_DEFINITION, Name: def.Variable, Node: def})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		if len(def.Directives) > 0 && !w.walkDirectives(def.Directives) {
			return false
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkSelectionSet(set ast.SelectionSet) bool {
	w.push(GqlNode{Kind: gqlxpath.SELECTION_SET, Node: set})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		for _, sel := range set {
			switch sel := sel.(type) {
			case *ast.Field:
				if !w.walkField(sel) {
					return false
				}
			case *ast.FragmentSpread:
				if !w.walkFragmentSpread(sel) {
					return false
				}
			case *ast.InlineFragment:
				if !w.walkInlineFragment(sel) {
					return false
				}
			}
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkField(f *ast.Field) bool {
	w.push(GqlNode{Kind: gqlxpath.FIELD, Name: f.Name, Alias: fieldAlias(f), Node: f})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		if len(f.Arguments) > 0 && !w.walkArguments(f.Arguments) {
			return false
		}

		if len(f.Directives) > 0 && !w.walkDirectives(f.Directives) {
			return false
		}

		if len(f.SelectionSet) > 0 && !w.walkSelectionSet(f.SelectionSet) {
			return false
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkFragmentSpread(spread *ast.FragmentSpread) bool {
	w.push(GqlNode{Kind: gqlxpath.FRAGMENT_SPREAD, Name: spread.Name, Node: spread})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		if len(spread.Directives) > 0 && !w.walkDirectives(spread.Directives) {
			return false
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkInlineFragment(inline *ast.InlineFragment) bool {
	w.push(GqlNode{Kind: gqlxpath.INLINE_FRAGMENT, Name: inline.TypeCondition, Node: inline})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		if len(inline.Directives) > 0 && !w.walkDirectives(inline.Directives) {
			return false
		}

		if len(inline.SelectionSet) > 0 && !w.walkSelectionSet(inline.SelectionSet) {
			return false
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkDirectives(directives ast.DirectiveList) bool {
	w.push(GqlNode{Kind: gqlxpath.DIRECTIVES, Node: directives})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		for _, d := range directives {
			if !w.walkDirective(d) {
				return false
			}
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkDirective(d *ast.Directive) bool {
	w.push(GqlNode{Kind: gqlxpath.DIRECTIVE, Name: d.Name, Node: d})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		if len(d.Arguments) > 0 && !w.walkArguments(d.Arguments) {
			return false
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkArguments(args ast.ArgumentList) bool {
	w.push(GqlNode{Kind: gqlxpath.ARGUMENTS, Node: args})
	ctx := w.context()

	switch w.enter(ctx) {
	case STOP:
		return false
	case SKIP_CHILDREN:
	default:
		for _, a := range args {
			if !w.walkArgument(a) {
				return false
			}
		}
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}

func (w *walker) walkArgument(a *ast.Argument) bool {
	w.push(GqlNode{Kind: gqlxpath.ARGUMENT, Name: a.Name, Node: a})
	ctx := w.context()

	action := w.enter(ctx)
	if action == STOP {
		return false
	}

	if w.exit(ctx) == STOP {
		return false
	}

	w.pop()

	return true
}
