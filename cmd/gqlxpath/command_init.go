package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
)

// InitCmd represents the init command
type InitCmd struct {
}

func (i *InitCmd) Run(ctx *Context) error {
	if ctx.Verbose {
		color.Blue("Initializing gqlxpath project")
	}

	dirs := []string{
		"queries",
		"operations",
	}

	for _, dir := range dirs {
		if err := ensureDir(dir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		if ctx.Verbose {
			color.Green("Created directory: %s", dir)
		}
	}

	if err := createSampleConfig(); err != nil {
		return fmt.Errorf("failed to create sample configuration: %w", err)
	}

	if err := createSampleFiles(); err != nil {
		return fmt.Errorf("failed to create sample files: %w", err)
	}

	if !ctx.Quiet {
		color.Green("gqlxpath project initialized successfully")
		fmt.Println("\nNext steps:")
		fmt.Println("1. Put GraphQL documents in the queries/ directory (.graphql or literate .md)")
		fmt.Println("2. Run 'gqlxpath select -p \"//query/hero/name\" queries/hero.graphql'")
		fmt.Println("3. Edit operations/ops.yaml and run 'gqlxpath transform -f operations/ops.yaml queries/hero.graphql'")
	}

	return nil
}

func createSampleConfig() error {
	configContent := `# Memoization tables for parsed documents, printed documents and compiled
# paths. Zero selects the default (512 entries), a negative value disables
# caching.
cache:
  max_entries: 512

# Output settings
output:
  format: "text"
  color: true

# Where documents and operation batches live
paths:
  document_dir: "./queries"
  operations_dir: "./operations"
`

	return writeFile("gqlxpath.yaml", configContent)
}

func createSampleFiles() error {
	sampleQuery := `query HeroQuery {
  hero(episode: JEDI) {
    name
    friends {
      name
    }
  }
}
`

	if err := writeFile(filepath.Join("queries", "hero.graphql"), sampleQuery); err != nil {
		return err
	}

	sampleOps := `# Operations run in order against each document. Failures are reported per
# operation and do not stop the batch.
operations:
  - id: retarget-episode
    kind: update_argument
    path: //query/hero/episode[type=arg]
    value: EMPIRE
  - id: add-appears-in
    kind: add_field
    path: /query/hero
    name: appearsIn
`

	return writeFile(filepath.Join("operations", "ops.yaml"), sampleOps)
}
