package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLintAcceptsQueryPackage(t *testing.T) {
	violations, err := lint([]string{filepath.Join("..", "..", "sqlinline")})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	for _, v := range violations {
		t.Errorf("%s:%d %s (%s)", v.file, v.line, v.message, v.name)
	}
}

func TestLintReportsMissingAndDuplicateMarkers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package q\n\nconst QOne = `--sql 5900deb4-4057-48dc-8c96-793cb041efe1\nselect 1;\n`\n")
	writeFile(t, dir, "b.go", "package q\n\n"+
		"const QTwo = `--sql 5900deb4-4057-48dc-8c96-793cb041efe1\nselect 2;\n`\n\n"+
		"const QBare = `\nselect 3;\n`\n\n"+
		"const Greeting = \"hello\"\n")

	violations, err := lint([]string{dir})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %+v", violations)
	}

	var missing, duplicate bool
	for _, v := range violations {
		switch {
		case v.name == "QBare" && strings.Contains(v.message, "missing"):
			missing = true
		case v.name == "QTwo" && strings.Contains(v.message, "QOne"):
			duplicate = true
		}
	}
	if !missing || !duplicate {
		t.Fatalf("unexpected violations: %+v", violations)
	}
}
