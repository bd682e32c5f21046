package transformer

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/ast"
)

// OpKind identifies a batch operation type.
type OpKind string

const (
	OpAddField        OpKind = "add_field"
	OpUpdateArgument  OpKind = "update_argument"
	OpRemoveArgument  OpKind = "remove_argument"
	OpRemoveField     OpKind = "remove_field"
	OpInlineFragment  OpKind = "inline_fragment"
	OpExtractFragment OpKind = "extract_fragment"
)

// Operation is one edit in a batch. Kind decides which of the optional
// fields apply: add_field uses Name and Alias, update_argument uses Value,
// extract_fragment uses Name and TypeCondition. An empty ID is assigned
// automatically.
type Operation struct {
	ID            string `yaml:"id,omitempty"`
	Kind          OpKind `yaml:"kind"`
	Path          string `yaml:"path"`
	Name          string `yaml:"name,omitempty"`
	Alias         string `yaml:"alias,omitempty"`
	Value         string `yaml:"value,omitempty"`
	TypeCondition string `yaml:"type_condition,omitempty"`
}

// OperationResult reports one operation's outcome. Err is nil for success
// and a *OperationError otherwise.
type OperationResult struct {
	ID   string
	Kind OpKind
	Path string
	Err  error
}

// BatchResult is the outcome of Apply: the final document plus one result
// per requested operation, in request order.
type BatchResult struct {
	Document *ast.QueryDocument
	Results  []OperationResult
}

// Failed returns the results of the operations that failed.
func (r *BatchResult) Failed() []OperationResult {
	var failed []OperationResult

	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}

	return failed
}

// Apply runs the operations in order. Each operation sees the document
// produced by the previous successful one; a failed operation is recorded
// in its result and neither rolls back earlier edits nor blocks later ones.
func (t *Transformer) Apply(doc *ast.QueryDocument, ops []Operation) *BatchResult {
	result := &BatchResult{
		Document: doc,
		Results:  make([]OperationResult, 0, len(ops)),
	}

	for _, op := range ops {
		if op.ID == "" {
			op.ID = uuid.NewString()
		}

		next, err := t.applyOne(result.Document, op)
		if err != nil {
			err = &OperationError{ID: op.ID, Kind: op.Kind, Path: op.Path, Reason: err}
		} else {
			result.Document = next
		}

		result.Results = append(result.Results, OperationResult{
			ID:   op.ID,
			Kind: op.Kind,
			Path: op.Path,
			Err:  err,
		})
	}

	return result
}

func (t *Transformer) applyOne(doc *ast.QueryDocument, op Operation) (*ast.QueryDocument, error) {
	switch op.Kind {
	case OpAddField:
		return t.AddField(doc, op.Path, op.Name, op.Alias)
	case OpUpdateArgument:
		return t.UpdateArgument(doc, op.Path, op.Value)
	case OpRemoveArgument:
		return t.RemoveArgument(doc, op.Path)
	case OpRemoveField:
		return t.RemoveField(doc, op.Path)
	case OpInlineFragment:
		return t.InlineFragment(doc, op.Path)
	case OpExtractFragment:
		return t.ExtractFragment(doc, op.Path, op.Name, op.TypeCondition)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op.Kind)
	}
}

type batchFile struct {
	Operations []Operation `yaml:"operations"`
}

// LoadOperations reads a YAML batch file: a document with a top-level
// `operations` list. Unknown keys are rejected.
func LoadOperations(r io.Reader) ([]Operation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading operations file: %w", err)
	}

	var file batchFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parsing operations file: %w", err)
	}

	return file.Operations, nil
}
