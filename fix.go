package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/deveritt/srcmend/internal/rewrite"
	"github.com/deveritt/srcmend/internal/support"
)

type fixReport struct {
	File    string       `json:"file"`
	DryRun  bool         `json:"dryRun"`
	Matches []fixFinding `json:"matches,omitempty"`
	Edits   int          `json:"edits"`
	Backup  string       `json:"backup,omitempty"`
	Result  string       `json:"result"`
}

type fixFinding struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Async  bool   `json:"async"`
	Params string `json:"params"`
	Offset int    `json:"offset"`
}

func runFix(path string, dryRun bool) {
	rep, err := runFixInternal(path, dryRun)
	if err != nil {
		rep.Result = "FAIL"
	}
	writeFixReport(rep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// runFixInternal runs the scan/classify/rewrite pipeline over one file
// and returns its report. The file is only mutated when at least one
// candidate is accepted, and never before its backup has been written.
// Report persistence is the caller's job; scan --fix aggregates many of
// these into its own report instead.
func runFixInternal(path string, dryRun bool) (fixReport, error) {
	rep := fixReport{File: path, DryRun: dryRun}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rep, fmt.Errorf("input not found: %s", path)
		}
		return rep, fmt.Errorf("read %s: %v", path, err)
	}

	// A leading BOM is carried around the rewrite, not through it:
	// candidates are found in the stripped text and the marker is
	// re-emitted in front of the output.
	body := support.StripBOM(data)
	bom := string(data[:len(data)-len(body)])
	original := string(body)

	matches := rewrite.Scan(original)
	cls := rewrite.Classify(original, matches)
	edits := rewrite.Edits(cls)

	for _, c := range cls {
		if c.Verdict != rewrite.Accept {
			continue
		}
		rep.Matches = append(rep.Matches, fixFinding{
			Index:  len(rep.Matches) + 1,
			Name:   c.Match.Name,
			Async:  c.Match.Async,
			Params: c.Match.Params,
			Offset: c.Match.Start,
		})
	}

	if len(edits) == 0 {
		fmt.Printf("%s: no ambiguous declarations found, nothing to do\n", path)
		rep.Result = "NO_MATCHES"
		return rep, nil
	}

	for _, f := range rep.Matches {
		kind := "function"
		if f.Async {
			kind = "async function"
		}
		fmt.Printf("  [%d] %s %s(%s) at offset %d\n", f.Index, kind, f.Name, f.Params, f.Offset)
	}

	updated, count, err := rewrite.Apply(original, edits)
	if err != nil {
		return rep, fmt.Errorf("apply edits to %s: %v", path, err)
	}

	if dryRun {
		diff, derr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(original),
			B:        difflib.SplitLines(updated),
			FromFile: path,
			ToFile:   path + " (rewritten)",
			Context:  2,
		})
		if derr == nil {
			fmt.Print(diff)
		}
		fmt.Printf("%s: %d declaration(s) would be rewritten (dry run)\n", path, count)
		rep.Edits = count
		rep.Result = "DRY_RUN"
		_ = support.AppendAudit(outputDir(), support.AuditEntry{Mode: "fix", File: path, Edits: count, Result: "DRY_RUN", DryRun: true})
		return rep, nil
	}

	// The backup is the only safety net against a bad rewrite: it must
	// land before the original is overwritten, and if it cannot be
	// written the original is left alone.
	backupPath, err := support.Backup(path, config.Fix.BackupSuffix, data)
	if err != nil {
		return rep, fmt.Errorf("backup %s: %v", path, err)
	}
	rep.Backup = backupPath

	if err := support.WriteFileAtomic(path, []byte(bom+updated)); err != nil {
		return rep, fmt.Errorf("write %s (original preserved at %s): %v", path, backupPath, err)
	}

	fmt.Printf("%s: rewrote %d declaration(s), backup at %s\n", path, count, backupPath)
	rep.Edits = count
	rep.Result = "PASS"
	_ = support.AppendAudit(outputDir(), support.AuditEntry{Mode: "fix", File: path, Edits: count, Result: "PASS"})
	return rep, nil
}

func writeFixReport(rep fixReport) {
	_ = support.WriteJSONAtomic(filepath.Join(outputDir(), "fix-report.json"), rep)
}
