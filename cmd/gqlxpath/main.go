package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

// CLI represents the command-line interface
var CLI struct {
	Config    string       `help:"Configuration file path" default:"gqlxpath.yaml"`
	Verbose   bool         `help:"Enable verbose output" short:"v"`
	Quiet     bool         `help:"Suppress output" short:"q"`
	Validate  ValidateCmd  `cmd:"" help:"Compile search paths and report diagnostics"`
	Select    SelectCmd    `cmd:"" help:"Run a search path against GraphQL documents"`
	Transform TransformCmd `cmd:"" help:"Apply an operations file to GraphQL documents"`
	Init      InitCmd      `cmd:"" help:"Initialize a new gqlxpath project"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("gqlxpath v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
