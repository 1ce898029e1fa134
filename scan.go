package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/deveritt/srcmend/internal/support"
	"github.com/deveritt/srcmend/internal/walker"
)

type scanReport struct {
	Root   string         `json:"root"`
	Files  []scanEntry    `json:"files"`
	Counts map[string]int `json:"counts"`
	Fixed  int            `json:"fixedEdits,omitempty"`
	Result string         `json:"result"`
}

type scanEntry struct {
	Path   string `json:"path"`
	Syntax string `json:"syntax"`
	Edits  int    `json:"edits,omitempty"`
}

var (
	esmPattern      = regexp.MustCompile(`(?m)^\s*(import\s|export\s)`)
	commonJSPattern = regexp.MustCompile(`\brequire\s*\(|\bmodule\.exports\b`)
)

func runScan(root string, applyFix bool) {
	if err := runScanInternal(root, applyFix); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func runScanInternal(root string, applyFix bool) error {
	entries, err := walker.Walk(root, walker.Options{
		Extensions:   config.Scan.Extensions,
		IgnoreDirs:   append([]string{config.Paths.OutputDir}, config.Scan.IgnoreDirs...),
		UseGitignore: config.Scan.UseGitignore,
	})
	if err != nil {
		return fmt.Errorf("scan %s: %v", root, err)
	}

	rep := scanReport{Root: root, Counts: map[string]int{}}
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		full := filepath.Join(root, e.Path)
		entry := scanEntry{Path: e.Path, Syntax: classifyModuleSyntax(full)}
		rep.Counts[entry.Syntax]++
		if applyFix {
			fixRep, err := runFixInternal(full, false)
			if err != nil {
				return err
			}
			entry.Edits = fixRep.Edits
			rep.Fixed += fixRep.Edits
		}
		rep.Files = append(rep.Files, entry)
		fmt.Printf("  %-10s %s\n", entry.Syntax, e.Path)
	}

	rep.Result = "PASS"
	fmt.Printf("scan: %d file(s): %d esm, %d commonjs, %d unknown\n",
		len(rep.Files), rep.Counts["esm"], rep.Counts["commonjs"], rep.Counts["unknown"])
	if applyFix {
		fmt.Printf("scan: %d declaration(s) rewritten\n", rep.Fixed)
	}
	return support.WriteJSONAtomic(filepath.Join(outputDir(), "scan-report.json"), rep)
}

// classifyModuleSyntax applies the module-syntax heuristic: a top-level
// import or export marks ESM; otherwise require()/module.exports marks
// CommonJS. ESM wins when both appear.
func classifyModuleSyntax(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}
	text := string(support.StripBOM(data))
	if esmPattern.MatchString(text) {
		return "esm"
	}
	if commonJSPattern.MatchString(text) {
		return "commonjs"
	}
	return "unknown"
}
