// Package walker discovers files under a directory tree, filtered by
// extension and ignore list, honoring the root .gitignore when present.
package walker

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Entry is one discovered path, relative to the walk root.
type Entry struct {
	Path  string
	IsDir bool
}

// Options control a walk.
type Options struct {
	Extensions   []string // e.g. ".js"; empty matches every file
	IgnoreDirs   []string // directory names skipped outright
	UseGitignore bool
}

// Walk returns matching entries under root in sorted path order.
// Unreadable subtrees and symlinks are skipped, not reported.
func Walk(root string, opts Options) ([]Entry, error) {
	extSet := make(map[string]struct{}, len(opts.Extensions))
	for _, e := range opts.Extensions {
		extSet[strings.ToLower(e)] = struct{}{}
	}
	ignoreSet := make(map[string]struct{}, len(opts.IgnoreDirs))
	for _, d := range opts.IgnoreDirs {
		ignoreSet[d] = struct{}{}
	}
	var gi *ignore.GitIgnore
	if opts.UseGitignore {
		gi = loadGitignore(root)
	}

	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		name := d.Name()

		if d.IsDir() {
			if _, skip := ignoreSet[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			entries = append(entries, Entry{Path: rel, IsDir: true})
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if len(extSet) > 0 {
			if _, ok := extSet[strings.ToLower(filepath.Ext(name))]; !ok {
				return nil
			}
		}
		entries = append(entries, Entry{Path: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
