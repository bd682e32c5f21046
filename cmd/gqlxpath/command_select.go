package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/shibukawa/gqlxpath"
	"github.com/shibukawa/gqlxpath/cache"
	"github.com/shibukawa/gqlxpath/selector"
	"github.com/shibukawa/gqlxpath/traverser"
)

// SelectCmd represents the select command
type SelectCmd struct {
	Path  string   `short:"p" required:"" help:"gqlXPath search path"`
	First bool     `help:"Report only the first match per document"`
	Files []string `arg:"" help:"GraphQL or Markdown files" type:"existingfile"`
}

func (s *SelectCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	c := cache.New(cache.Options{MaxEntries: config.Cache.MaxEntries})

	path, err := c.Path(s.Path)
	if err != nil {
		if !ctx.Quiet {
			color.Red("Invalid path %s: %v", s.Path, err)
		}

		return ErrSelectionFailed
	}

	if ctx.Verbose {
		color.Blue("Selecting %s", path.String())
	}

	total := 0
	failures := 0

	for _, file := range s.Files {
		docs, err := loadDocuments(c, file)
		if err != nil {
			failures++

			if !ctx.Quiet {
				color.Red("%v", err)
			}

			continue
		}

		for _, doc := range docs {
			matches, err := s.selectIn(doc, path)
			if err != nil {
				var notFound *selector.NodeNotFoundError
				if errors.As(err, &notFound) {
					if !ctx.Quiet {
						color.Yellow("%s: %v", doc.label(), err)
					}

					continue
				}

				failures++

				if !ctx.Quiet {
					color.Red("%s: %v", doc.label(), err)
				}

				continue
			}

			total += len(matches)

			for _, match := range matches {
				printMatch(doc, match)
			}
		}
	}

	if !ctx.Quiet {
		color.Green("%d match(es)", total)
	}

	if failures > 0 || total == 0 {
		return ErrSelectionFailed
	}

	return nil
}

func (s *SelectCmd) selectIn(doc document, path *gqlxpath.SearchPath) ([]*traverser.NodeContext, error) {
	if s.First {
		match, err := selector.Select(doc.Doc, path)
		if err != nil {
			return nil, err
		}

		return []*traverser.NodeContext{match}, nil
	}

	return selector.SelectAll(doc.Doc, path)
}

// printMatch writes one matched node as kind, name, depth and location.
func printMatch(doc document, match *traverser.NodeContext) {
	name := match.Node.Name
	if match.Node.Alias != "" {
		name = fmt.Sprintf("%s:%s", match.Node.Alias, match.Node.Name)
	}

	location := ""

	if line, column, ok := nodePosition(match.Node.Node); ok {
		// Fences from markdown files are parsed standalone, so their
		// positions need the fence offset to land in the original file.
		if doc.StartLine > 0 {
			line += doc.StartLine - 1
		}

		location = fmt.Sprintf(" at %s:%d:%d", doc.File, line, column)
	}

	fmt.Printf("%s %q depth=%d%s\n", match.Node.Kind, name, match.Depth, location)
}
