package testhelper

import (
	"testing"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseDoc parses GraphQL source into a query document, failing the test on
// syntax errors.
func ParseDoc(t *testing.T, src string) *ast.QueryDocument {
	t.Helper()

	doc, err := parser.ParseQuery(&ast.Source{Name: "test.graphql", Input: src})
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}

	return doc
}
