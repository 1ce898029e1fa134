package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readScanReport(t *testing.T, tmp string) scanReport {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(tmp, ".srcmend", "scan-report.json"))
	if err != nil {
		t.Fatalf("missing scan-report.json: %v", err)
	}
	var rep scanReport
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("parse scan-report.json: %v", err)
	}
	return rep
}

func TestScanClassifiesModuleSyntax(t *testing.T) {
	tmp := setupWorkspace(t)
	writeTree(t, tmp, map[string]string{
		"esm.js":                  "import fs from 'fs';\nexport default fs;\n",
		"common.js":               "const fs = require('fs');\nmodule.exports = {};\n",
		"plain.js":                "const x = 1;\n",
		"notes.txt":               "not a source file\n",
		"node_modules/dep/idx.js": "module.exports = 1;\n",
	})

	if err := runScanInternal(tmp, false); err != nil {
		t.Fatalf("scan: %v", err)
	}

	rep := readScanReport(t, tmp)
	if len(rep.Files) != 3 {
		t.Fatalf("scanned %d files, want 3: %+v", len(rep.Files), rep.Files)
	}
	if rep.Counts["esm"] != 1 || rep.Counts["commonjs"] != 1 || rep.Counts["unknown"] != 1 {
		t.Fatalf("counts = %+v", rep.Counts)
	}

	bySyntax := map[string]string{}
	for _, f := range rep.Files {
		bySyntax[f.Path] = f.Syntax
	}
	if bySyntax["esm.js"] != "esm" {
		t.Fatalf("esm.js classified as %q", bySyntax["esm.js"])
	}
	if bySyntax["common.js"] != "commonjs" {
		t.Fatalf("common.js classified as %q", bySyntax["common.js"])
	}
	if bySyntax["plain.js"] != "unknown" {
		t.Fatalf("plain.js classified as %q", bySyntax["plain.js"])
	}
}

func TestScanEsmWinsWhenBothAppear(t *testing.T) {
	tmp := setupWorkspace(t)
	writeTree(t, tmp, map[string]string{
		"mixed.js": "import fs from 'fs';\nconst old = require('old');\n",
	})

	if err := runScanInternal(tmp, false); err != nil {
		t.Fatalf("scan: %v", err)
	}
	rep := readScanReport(t, tmp)
	if rep.Counts["esm"] != 1 || rep.Counts["commonjs"] != 0 {
		t.Fatalf("counts = %+v", rep.Counts)
	}
}

func TestScanWithFixRewritesTree(t *testing.T) {
	tmp := setupWorkspace(t)
	writeTree(t, tmp, map[string]string{
		"broken.js":     mangledSource,
		"lib/also.js":   "helper(a) {\n}\n",
		"lib/fine.js":   "function ok(a) {\n}\n",
		"skip/notes.md": "ignored\n",
	})

	if err := runScanInternal(tmp, true); err != nil {
		t.Fatalf("scan --fix: %v", err)
	}

	rep := readScanReport(t, tmp)
	if rep.Fixed != 2 {
		t.Fatalf("fixed %d edits, want 2", rep.Fixed)
	}

	// Per-file results live in the scan report itself; a tree run must
	// not collapse them into whichever file was fixed last.
	editsByPath := map[string]int{}
	for _, f := range rep.Files {
		editsByPath[f.Path] = f.Edits
	}
	if editsByPath["broken.js"] != 1 {
		t.Fatalf("broken.js edits = %d, want 1", editsByPath["broken.js"])
	}
	if editsByPath[filepath.Join("lib", "also.js")] != 1 {
		t.Fatalf("lib/also.js edits = %d, want 1", editsByPath[filepath.Join("lib", "also.js")])
	}
	if editsByPath[filepath.Join("lib", "fine.js")] != 0 {
		t.Fatalf("lib/fine.js edits = %d, want 0", editsByPath[filepath.Join("lib", "fine.js")])
	}
	if _, err := os.Stat(filepath.Join(tmp, ".srcmend", "fix-report.json")); !os.IsNotExist(err) {
		t.Fatalf("tree run wrote a single-file fix report: %v", err)
	}
	if got := readFile(t, filepath.Join(tmp, "broken.js")); got != mendedSource {
		t.Fatalf("broken.js not rewritten: %q", got)
	}
	if got := readFile(t, filepath.Join(tmp, "lib", "also.js")); got != "function helper(a) {\n}\n" {
		t.Fatalf("lib/also.js not rewritten: %q", got)
	}
	if got := readFile(t, filepath.Join(tmp, "lib", "fine.js")); got != "function ok(a) {\n}\n" {
		t.Fatalf("lib/fine.js should be untouched: %q", got)
	}
}
