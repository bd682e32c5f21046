// Package markdownparser extracts GraphQL operations from literate Markdown
// files. YAML front matter becomes document metadata, and every ```graphql
// (or ```gql) fence becomes one operation named after the nearest preceding
// heading.
package markdownparser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter = fmt.Errorf("invalid front matter")
)

// Document represents a parsed literate GraphQL markdown file
type Document struct {
	Metadata   map[string]any
	Operations []Operation
}

// Operation is one GraphQL code fence extracted from a document
type Operation struct {
	Name      string // nearest preceding heading, "" when none
	Source    string
	StartLine int // line number of the first source line in the original file
}

// Parse reads a markdown document and extracts its GraphQL code fences
func Parse(reader io.Reader) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	frontMatter, body, err := parseFrontMatter(string(content))
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	source := []byte(body)
	doc := md.Parser().Parse(text.NewReader(source))

	// The body keeps the tail of the closing delimiter line, so all but one
	// front matter line shift the numbering.
	lineOffset := 0
	if lines := countFrontMatterLines(string(content)); lines > 0 {
		lineOffset = lines - 1
	}

	document := &Document{
		Metadata: frontMatter,
	}

	var title string

	var heading string

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headingText := extractTextFromHeadingNode(node, source)
			if node.Level == 1 && title == "" {
				title = headingText
			}

			heading = headingText

		case *ast.FencedCodeBlock:
			if !isGraphQLCodeBlock(node, source) {
				return ast.WalkContinue, nil
			}

			startLine := codeBlockStartLine(node, source)
			if startLine > 0 {
				startLine += lineOffset
			}

			document.Operations = append(document.Operations, Operation{
				Name:      heading,
				Source:    extractCodeBlockContent(node, source),
				StartLine: startLine,
			})
		}

		return ast.WalkContinue, nil
	})

	if title != "" {
		document.Metadata["title"] = title
	}

	return document, nil
}

// extractTextFromHeadingNode extracts text content from a heading AST node
func extractTextFromHeadingNode(heading ast.Node, content []byte) string {
	var result strings.Builder

	ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			segment := node.Segment
			result.Write(content[segment.Start:segment.Stop])
		case *ast.String:
			result.Write(node.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}

// isGraphQLCodeBlock checks if a fenced code block is marked as GraphQL
func isGraphQLCodeBlock(codeBlock *ast.FencedCodeBlock, content []byte) bool {
	if codeBlock.Info == nil {
		return false
	}

	segment := codeBlock.Info.Segment

	fields := strings.Fields(string(content[segment.Start:segment.Stop]))
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "graphql", "gql":
		return true
	default:
		return false
	}
}

// extractCodeBlockContent extracts the actual content from a code block AST node
func extractCodeBlockContent(codeBlock ast.Node, content []byte) string {
	var result strings.Builder

	if codeBlock.Lines() != nil {
		for i := 0; i < codeBlock.Lines().Len(); i++ {
			line := codeBlock.Lines().At(i)
			result.Write(content[line.Start:line.Stop])
		}
	}

	return strings.TrimRight(result.String(), "\n")
}

// codeBlockStartLine returns the 1-based line of the first content line of a
// code block within content, or 0 for an empty block.
func codeBlockStartLine(codeBlock ast.Node, content []byte) int {
	if codeBlock.Lines() == nil || codeBlock.Lines().Len() == 0 {
		return 0
	}

	offset := codeBlock.Lines().At(0).Start

	return bytes.Count(content[:offset], []byte("\n")) + 1
}
