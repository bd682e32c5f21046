// Package selector evaluates compiled search paths against GraphQL query
// documents. Matching runs in a single traversal pass: an observer keeps a
// per-branch cursor over the path components and collects candidate nodes
// in traversal order.
package selector

import (
	"github.com/shibukawa/gqlxpath"
	"github.com/shibukawa/gqlxpath/pathparser"
	"github.com/shibukawa/gqlxpath/traverser"
	"github.com/vektah/gqlparser/v2/ast"
)

// Select returns the first node matching path in traversal order. When no
// node matches it returns a *NodeNotFoundError wrapping
// gqlxpath.ErrNodeNotFound.
func Select(doc *ast.QueryDocument, path *gqlxpath.SearchPath) (*traverser.NodeContext, error) {
	m := newMatcher(path, false)
	if err := traverser.Traverse(doc, m); err != nil {
		return nil, err
	}

	if len(m.results) == 0 {
		return nil, &NodeNotFoundError{Path: path.String(), Deepest: m.deepest}
	}

	return m.results[0], nil
}

// SelectAll returns every node matching path in traversal order. A path in
// first-match mode (single leading slash) yields at most one result. No
// matches is not an error: the slice is empty.
func SelectAll(doc *ast.QueryDocument, path *gqlxpath.SearchPath) ([]*traverser.NodeContext, error) {
	m := newMatcher(path, true)
	if err := traverser.Traverse(doc, m); err != nil {
		return nil, err
	}

	return m.results, nil
}

// SelectString compiles path and runs Select.
func SelectString(doc *ast.QueryDocument, path string) (*traverser.NodeContext, error) {
	compiled, err := pathparser.Compile(path)
	if err != nil {
		return nil, err
	}

	return Select(doc, compiled)
}

// SelectAllString compiles path and runs SelectAll.
func SelectAllString(doc *ast.QueryDocument, path string) ([]*traverser.NodeContext, error) {
	compiled, err := pathparser.Compile(path)
	if err != nil {
		return nil, err
	}

	return SelectAll(doc, compiled)
}

// frame is the matcher's per-node state, stacked in parallel with the
// traversal. progress counts the path components consumed on the branch
// down to this node; counts assigns ordinals to this node's children, per
// component index, so ranges select among siblings.
type frame struct {
	progress int
	counts   map[int]int
}

func (f *frame) nextOrdinal(index int) int {
	if f.counts == nil {
		f.counts = make(map[int]int)
	}

	n := f.counts[index]
	f.counts[index] = n + 1

	return n
}

// matcher is the traversal observer that drives path evaluation. It holds
// per-call state only, so engines stay shareable across goroutines.
type matcher struct {
	path    *gqlxpath.SearchPath
	wantAll bool

	stack           []*frame
	results         []*traverser.NodeContext
	deepest         *traverser.NodeContext
	deepestProgress int
}

func newMatcher(path *gqlxpath.SearchPath, wantAll bool) *matcher {
	return &matcher{
		path:    path,
		wantAll: wantAll,
		// The virtual root frame gives the document node a parent to
		// inherit from and to count ordinals in.
		stack: []*frame{{}},
	}
}

func (m *matcher) OnEnter(ctx *traverser.NodeContext) traverser.Action {
	parent := m.stack[len(m.stack)-1]
	f := &frame{progress: parent.progress}

	var action traverser.Action
	if parent.progress >= len(m.path.Components) {
		action = traverser.SKIP_CHILDREN
	} else if comp := m.path.Components[parent.progress]; comp.Wildcard {
		action = m.enterWildcard(ctx, parent, f)
	} else {
		action = m.enterComponent(ctx, parent, f, comp, parent.progress)
	}

	if f.progress > parent.progress && f.progress > m.deepestProgress {
		m.deepestProgress = f.progress
		m.deepest = ctx
	}

	m.stack = append(m.stack, f)

	return action
}

func (m *matcher) OnExit(ctx *traverser.NodeContext) traverser.Action {
	m.stack = m.stack[:len(m.stack)-1]
	return traverser.CONTINUE
}

// enterComponent tests the node against a concrete component. Structural
// nodes a component does not explicitly name are transparent: the cursor
// passes through them unchanged. Addressable nodes either match and advance
// the cursor or end the branch.
func (m *matcher) enterComponent(ctx *traverser.NodeContext, parent, f *frame, comp gqlxpath.PathComponent, index int) traverser.Action {
	if !testable(ctx.Node, comp) {
		return traverser.CONTINUE
	}

	if !componentMatches(ctx.Node, comp) {
		return traverser.SKIP_CHILDREN
	}

	ordinal := parent.nextOrdinal(index)
	if comp.Range != nil && !comp.Range.Contains(ordinal) {
		return traverser.SKIP_CHILDREN
	}

	f.progress = parent.progress + 1
	if f.progress == len(m.path.Components) {
		return m.record(ctx)
	}

	return traverser.CONTINUE
}

// enterWildcard re-attempts the component after the wildcard at every
// descending level. The first node on the branch that satisfies it consumes
// both components; until then the cursor holds.
func (m *matcher) enterWildcard(ctx *traverser.NodeContext, parent, f *frame) traverser.Action {
	index := parent.progress + 1
	next := m.path.Components[index]

	if !testable(ctx.Node, next) || !componentMatches(ctx.Node, next) {
		return traverser.CONTINUE
	}

	ordinal := parent.nextOrdinal(index)
	if next.Range != nil && !next.Range.Contains(ordinal) {
		return traverser.SKIP_CHILDREN
	}

	f.progress = parent.progress + 2
	if f.progress == len(m.path.Components) {
		return m.record(ctx)
	}

	return traverser.CONTINUE
}

func (m *matcher) record(ctx *traverser.NodeContext) traverser.Action {
	m.results = append(m.results, ctx)

	if m.path.Mode == gqlxpath.FIRST_MATCH_ONLY || !m.wantAll {
		return traverser.STOP
	}

	// The cursor is exhausted on this branch; matches never nest.
	return traverser.SKIP_CHILDREN
}

// testable reports whether the node takes part in matching against comp.
// Addressable nodes always do. Structural nodes and the document node only
// when the component names their kind explicitly.
func testable(node traverser.GqlNode, comp gqlxpath.PathComponent) bool {
	return node.Kind.Addressable() || (comp.Kind != gqlxpath.UNKNOWN && comp.Kind == node.Kind)
}

func componentMatches(node traverser.GqlNode, comp gqlxpath.PathComponent) bool {
	if comp.Kind != gqlxpath.UNKNOWN && node.Kind != comp.Kind {
		return false
	}

	if comp.Name != "" && node.Name != comp.Name {
		return false
	}

	if comp.Alias != "" && node.Alias != comp.Alias {
		return false
	}

	return true
}
