package selector

import (
	"fmt"

	"github.com/shibukawa/gqlxpath"
	"github.com/shibukawa/gqlxpath/traverser"
)

// NodeNotFoundError is returned by Select when no node satisfies the path.
// Deepest carries the context of the last node that advanced the match
// cursor, so callers can report how far the path got. It is nil when not
// even the first component matched.
type NodeNotFoundError struct {
	Path    string
	Deepest *traverser.NodeContext
}

func (e *NodeNotFoundError) Error() string {
	if e.Deepest == nil {
		return fmt.Sprintf("node not found: %s (no component matched)", e.Path)
	}

	return fmt.Sprintf("node not found: %s (deepest match: %s at depth %d)",
		e.Path, describeNode(e.Deepest.Node), e.Deepest.Depth)
}

func (e *NodeNotFoundError) Unwrap() error {
	return gqlxpath.ErrNodeNotFound
}

func describeNode(node traverser.GqlNode) string {
	if node.Name == "" {
		return node.Kind.String()
	}

	return fmt.Sprintf("%s %q", node.Kind, node.Name)
}
