package transformer

import (
	"fmt"

	"github.com/shibukawa/gqlxpath"
	"github.com/shibukawa/gqlxpath/traverser"
	"github.com/vektah/gqlparser/v2/ast"
)

// rebuild replaces the node at the end of the ancestor chain with
// replacement and rebuilds every enclosing node up to the document root by
// shallow copies. Subtrees off the chain are shared with the source
// document. replacement may be nil to remove the node from its collection,
// or an ast.SelectionSet to splice several selections in its place.
func rebuild(ancestors []traverser.GqlNode, replacement any) (*ast.QueryDocument, error) {
	current := replacement

	for i := len(ancestors) - 2; i >= 0; i-- {
		next, err := swapChild(ancestors[i], ancestors[i+1], current)
		if err != nil {
			return nil, err
		}

		current = next
	}

	doc, ok := current.(*ast.QueryDocument)
	if !ok {
		return nil, fmt.Errorf("%w: rebuilt root is %T, not a document", ErrTransformFailed, current)
	}

	return doc, nil
}

// swapChild returns a copy of parent with child replaced. parent and child
// are adjacent entries of a traversal ancestor chain, so child.Node is
// always one of parent's direct children.
func swapChild(parent, child traverser.GqlNode, replacement any) (any, error) {
	switch parent.Kind {
	case gqlxpath.DOCUMENT:
		// The definitions collection carries the document; its swap already
		// produced the new root.
		return replacement, nil

	case gqlxpath.DEFINITIONS:
		return swapDefinition(parent.Node.(*ast.QueryDocument), child, replacement)

	case gqlxpath.QUERY_OPERATION, gqlxpath.MUTATION_OPERATION, gqlxpath.SUBSCRIPTION_OPERATION:
		op := *parent.Node.(*ast.OperationDefinition)

		switch child.Kind {
		case gqlxpath.VARIABLE_DEFINITIONS:
			op.VariableDefinitions = replacement.(ast.VariableDefinitionList)
		case gqlxpath.DIRECTIVES:
			op.Directives = replacement.(ast.DirectiveList)
		case gqlxpath.SELECTION_SET:
			op.SelectionSet = replacement.(ast.SelectionSet)
		default:
			return nil, unexpectedChild(parent, child)
		}

		return &op, nil

	case gqlxpath.FIELD:
		f := *parent.Node.(*ast.Field)

		switch child.Kind {
		case gqlxpath.ARGUMENTS:
			f.Arguments = replacement.(ast.ArgumentList)
		case gqlxpath.DIRECTIVES:
			f.Directives = replacement.(ast.DirectiveList)
		case gqlxpath.SELECTION_SET:
			f.SelectionSet = replacement.(ast.SelectionSet)
		default:
			return nil, unexpectedChild(parent, child)
		}

		return &f, nil

	case gqlxpath.FRAGMENT_DEFINITION:
		frag := *parent.Node.(*ast.FragmentDefinition)

		switch child.Kind {
		case gqlxpath.DIRECTIVES:
			frag.Directives = replacement.(ast.DirectiveList)
		case gqlxpath.SELECTION_SET:
			frag.SelectionSet = replacement.(ast.SelectionSet)
		default:
			return nil, unexpectedChild(parent, child)
		}

		return &frag, nil

	case gqlxpath.INLINE_FRAGMENT:
		inline := *parent.Node.(*ast.InlineFragment)

		switch child.Kind {
		case gqlxpath.DIRECTIVES:
			inline.Directives = replacement.(ast.DirectiveList)
		case gqlxpath.SELECTION_SET:
			inline.SelectionSet = replacement.(ast.SelectionSet)
		default:
			return nil, unexpectedChild(parent, child)
		}

		return &inline, nil

	case gqlxpath.FRAGMENT_SPREAD:
		spread := *parent.Node.(*ast.FragmentSpread)

		if child.Kind != gqlxpath.DIRECTIVES {
			return nil, unexpectedChild(parent, child)
		}

		spread.Directives = replacement.(ast.DirectiveList)

		return &spread, nil

	case gqlxpath.VARIABLE_DEFINITION:
		def := *parent.Node.(*ast.VariableDefinition)

		if child.Kind != gqlxpath.DIRECTIVES {
			return nil, unexpectedChild(parent, child)
		}

		def.Directives = replacement.(ast.DirectiveList)

		return &def, nil

	case gqlxpath.DIRECTIVE:
		d := *parent.Node.(*ast.Directive)

		if child.Kind != gqlxpath.ARGUMENTS {
			return nil, unexpectedChild(parent, child)
		}

		d.Arguments = replacement.(ast.ArgumentList)

		return &d, nil

	case gqlxpath.SELECTION_SET:
		target, ok := child.Node.(ast.Selection)
		if !ok {
			return nil, unexpectedChild(parent, child)
		}

		return swapSelection(parent.Node.(ast.SelectionSet), target, replacement)

	case gqlxpath.VARIABLE_DEFINITIONS:
		list, err := swapInList(parent.Node.(ast.VariableDefinitionList), child.Node.(*ast.VariableDefinition), replacement)
		if err != nil {
			return nil, err
		}

		return ast.VariableDefinitionList(list), nil

	case gqlxpath.DIRECTIVES:
		list, err := swapInList(parent.Node.(ast.DirectiveList), child.Node.(*ast.Directive), replacement)
		if err != nil {
			return nil, err
		}

		return ast.DirectiveList(list), nil

	case gqlxpath.ARGUMENTS:
		list, err := swapInList(parent.Node.(ast.ArgumentList), child.Node.(*ast.Argument), replacement)
		if err != nil {
			return nil, err
		}

		return ast.ArgumentList(list), nil

	default:
		return nil, fmt.Errorf("%w: cannot rebuild inside %s", ErrTransformFailed, parent.Kind)
	}
}

func swapDefinition(doc *ast.QueryDocument, child traverser.GqlNode, replacement any) (*ast.QueryDocument, error) {
	out := *doc

	switch child.Kind {
	case gqlxpath.QUERY_OPERATION, gqlxpath.MUTATION_OPERATION, gqlxpath.SUBSCRIPTION_OPERATION:
		ops, err := swapInList(doc.Operations, child.Node.(*ast.OperationDefinition), replacement)
		if err != nil {
			return nil, err
		}

		out.Operations = ops

	case gqlxpath.FRAGMENT_DEFINITION:
		frags, err := swapInList(doc.Fragments, child.Node.(*ast.FragmentDefinition), replacement)
		if err != nil {
			return nil, err
		}

		out.Fragments = frags

	default:
		return nil, unexpectedChild(traverser.GqlNode{Kind: gqlxpath.DEFINITIONS}, child)
	}

	return &out, nil
}

// swapInList copies list with target replaced. A nil replacement removes
// the element. Elements are matched by identity, never by value, so equal
// siblings are left alone.
func swapInList[T comparable](list []T, target T, replacement any) ([]T, error) {
	out := make([]T, 0, len(list))
	found := false

	for _, item := range list {
		if item == target {
			found = true

			if replacement == nil {
				continue
			}

			out = append(out, replacement.(T))

			continue
		}

		out = append(out, item)
	}

	if !found {
		return nil, fmt.Errorf("%w: node is not part of its recorded parent", ErrTransformFailed)
	}

	return out, nil
}

// swapSelection is swapInList for selection sets, with one extra form: an
// ast.SelectionSet replacement splices several selections in place of the
// target, which is how fragment inlining expands a spread.
func swapSelection(set ast.SelectionSet, target ast.Selection, replacement any) (ast.SelectionSet, error) {
	out := make(ast.SelectionSet, 0, len(set))
	found := false

	for _, sel := range set {
		if sel == target {
			found = true

			switch r := replacement.(type) {
			case nil:
			case ast.SelectionSet:
				out = append(out, r...)
			case ast.Selection:
				out = append(out, r)
			default:
				return nil, fmt.Errorf("%w: %T cannot replace a selection", ErrTransformFailed, replacement)
			}

			continue
		}

		out = append(out, sel)
	}

	if !found {
		return nil, fmt.Errorf("%w: selection is not part of its recorded parent", ErrTransformFailed)
	}

	return out, nil
}

func unexpectedChild(parent, child traverser.GqlNode) error {
	return fmt.Errorf("%w: cannot rebuild %s inside %s", ErrTransformFailed, child.Kind, parent.Kind)
}
