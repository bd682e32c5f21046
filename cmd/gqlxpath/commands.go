package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/gqlxpath"
	"github.com/shibukawa/gqlxpath/cache"
	"github.com/shibukawa/gqlxpath/markdownparser"
	"github.com/vektah/gqlparser/v2/ast"
)

// Sentinel errors
var (
	ErrValidationFailed     = errors.New("one or more paths failed to compile")
	ErrSelectionFailed      = errors.New("no matches or one or more selections failed")
	ErrOperationsFailed     = errors.New("one or more operations failed")
	ErrUnsupportedFile      = errors.New("unsupported file extension")
	ErrNoOperationsInFile   = errors.New("no GraphQL operations found in file")
	ErrOutputFlagsExclusive = errors.New("--output and --write are mutually exclusive")
)

// document is one GraphQL source unit resolved from an input file. Markdown
// inputs can yield several per file.
type document struct {
	File      string
	Name      string
	StartLine int
	Doc       *ast.QueryDocument
}

// label identifies the document in command output.
func (d document) label() string {
	if d.Name == "" {
		return d.File
	}

	return fmt.Sprintf("%s (%s)", d.File, d.Name)
}

// loadConfig loads the configuration and applies its output settings.
func loadConfig(ctx *Context) (*gqlxpath.Config, error) {
	config, err := gqlxpath.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if !config.Output.IsColorEnabled() {
		color.NoColor = true
	}

	if config.Output.Format == "json" && !ctx.Quiet {
		// TODO: render select/transform reports as JSON when format is json.
		color.Yellow("JSON output is not implemented yet, using text")
	}

	return config, nil
}

// loadDocuments reads a .graphql/.gql file as a single document, or extracts
// every GraphQL fence from a .md file.
func loadDocuments(c *cache.Cache, path string) ([]document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".graphql", ".gql":
		doc, err := c.Document(path, string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		return []document{{File: path, Doc: doc}}, nil

	case ".md", ".markdown":
		parsed, err := markdownparser.Parse(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		if len(parsed.Operations) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoOperationsInFile, path)
		}

		docs := make([]document, 0, len(parsed.Operations))

		for _, op := range parsed.Operations {
			doc, err := c.Document(path, op.Source)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s (%s): %w", path, op.Name, err)
			}

			docs = append(docs, document{
				File:      path,
				Name:      op.Name,
				StartLine: op.StartLine,
				Doc:       doc,
			})
		}

		return docs, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
}

// loadGraphQLFile reads a plain .graphql/.gql document. Markdown inputs are
// rejected because their fences cannot be written back.
func loadGraphQLFile(c *cache.Cache, path string) (*ast.QueryDocument, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".graphql", ".gql":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := c.Document(path, string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return doc, nil
}

// nodePosition reports the source position of an addressable node.
func nodePosition(node any) (line, column int, ok bool) {
	var pos *ast.Position

	switch n := node.(type) {
	case *ast.OperationDefinition:
		pos = n.Position
	case *ast.Field:
		pos = n.Position
	case *ast.Argument:
		pos = n.Position
	case *ast.Directive:
		pos = n.Position
	case *ast.FragmentDefinition:
		pos = n.Position
	case *ast.InlineFragment:
		pos = n.Position
	case *ast.FragmentSpread:
		pos = n.Position
	case *ast.VariableDefinition:
		pos = n.Position
	}

	if pos == nil {
		return 0, 0, false
	}

	return pos.Line, pos.Column, true
}
