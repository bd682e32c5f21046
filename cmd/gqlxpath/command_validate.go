package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/shibukawa/gqlxpath/pathparser"
)

// ValidateCmd represents the validate command
type ValidateCmd struct {
	Paths []string `arg:"" help:"gqlXPath search paths to compile"`
}

func (v *ValidateCmd) Run(ctx *Context) error {
	_, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	failures := 0

	for _, raw := range v.Paths {
		path, err := pathparser.Compile(raw)
		if err != nil {
			failures++

			if !ctx.Quiet {
				color.Red("Invalid %s: %v", raw, err)
			}

			continue
		}

		if !ctx.Quiet {
			color.Green("OK %s", raw)
		}

		if ctx.Verbose {
			fmt.Printf("  canonical: %s\n", path.String())

			for i, comp := range path.Components {
				fmt.Printf("  [%d] %s\n", i, comp.String())
			}
		}
	}

	if failures > 0 {
		return ErrValidationFailed
	}

	return nil
}
