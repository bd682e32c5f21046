package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/shibukawa/gqlxpath/cache"
	"github.com/shibukawa/gqlxpath/transformer"
)

// TransformCmd represents the transform command
type TransformCmd struct {
	File   string   `short:"f" required:"" help:"YAML operations file" type:"existingfile"`
	Output string   `short:"o" help:"Directory for transformed documents" type:"path"`
	Write  bool     `help:"Rewrite input files in place"`
	Files  []string `arg:"" help:"GraphQL files to transform (.graphql/.gql)" type:"existingfile"`
}

func (tc *TransformCmd) Run(ctx *Context) error {
	if tc.Output != "" && tc.Write {
		return ErrOutputFlagsExclusive
	}

	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	opsFile, err := os.Open(tc.File)
	if err != nil {
		return fmt.Errorf("failed to open operations file: %w", err)
	}
	defer opsFile.Close()

	ops, err := transformer.LoadOperations(opsFile)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("Loaded %d operation(s) from %s", len(ops), tc.File)
	}

	c := cache.New(cache.Options{MaxEntries: config.Cache.MaxEntries})
	tr := transformer.New(c)

	failures := 0

	for _, file := range tc.Files {
		doc, err := loadGraphQLFile(c, file)
		if err != nil {
			failures++

			if !ctx.Quiet {
				color.Red("%v", err)
			}

			continue
		}

		result := tr.Apply(doc, ops)

		for _, opResult := range result.Results {
			if opResult.Err != nil {
				failures++

				if !ctx.Quiet {
					color.Red("%s: %v", file, opResult.Err)
				}

				continue
			}

			if ctx.Verbose {
				color.Green("%s: applied %s %s", file, opResult.Kind, opResult.Path)
			}
		}

		printed, err := c.Print(result.Document)
		if err != nil {
			failures++

			if !ctx.Quiet {
				color.Red("%s: failed to print document: %v", file, err)
			}

			continue
		}

		if err := tc.emit(ctx, file, printed); err != nil {
			return err
		}
	}

	if failures > 0 {
		return ErrOperationsFailed
	}

	return nil
}

// emit routes a transformed document to stdout, to the output directory, or
// back over the input file.
func (tc *TransformCmd) emit(ctx *Context, file, printed string) error {
	switch {
	case tc.Write:
		if err := os.WriteFile(file, []byte(printed), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", file, err)
		}

		if ctx.Verbose {
			color.Green("Wrote: %s", file)
		}

	case tc.Output != "":
		if err := ensureDir(tc.Output); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", tc.Output, err)
		}

		target := filepath.Join(tc.Output, filepath.Base(file))
		if err := os.WriteFile(target, []byte(printed), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}

		if ctx.Verbose {
			color.Green("Wrote: %s", target)
		}

	default:
		fmt.Print(printed)
	}

	return nil
}
