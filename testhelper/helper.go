// Package testhelper carries small utilities shared by tests across the
// module.
package testhelper

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TrimIndent strips the common leading indentation from a multi-line raw
// string so GraphQL and YAML fixtures can be written indented inside test
// functions. The first line (the one right after the opening backquote) is
// dropped and the indent of the next line sets the prefix to remove; leading
// tabs that survive are widened to four spaces.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return src
	}

	lines = lines[1:]

	indent := len(lines[0]) - len(strings.TrimLeft(lines[0], " \t"))
	prefix := lines[0][:indent]

	for i, line := range lines {
		line = strings.TrimPrefix(line, prefix)
		lines[i] = widenTabs(line)
	}

	return strings.Join(lines, "\n")
}

func widenTabs(line string) string {
	rest := strings.TrimLeft(line, "\t")

	tabs := len(line) - len(rest)
	if tabs == 0 {
		return line
	}

	return strings.Repeat("    ", tabs) + rest
}

// GetCaller returns "(file.go:123)" for the calling line. Appending it to
// table-driven case names keeps failure output clickable.
func GetCaller(t *testing.T) string {
	t.Helper()

	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}

	return fmt.Sprintf("(%s:%d)", filepath.Base(file), line)
}
