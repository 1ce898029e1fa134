package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

func runWatch(root string) {
	runWatchWithStop(root, nil)
}

func runWatchWithStop(root string, stop <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: watch init failed: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: watch failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("watch: %s\n", root)

	var timer *time.Timer
	debounce := 300 * time.Millisecond
	trigger := func() {
		if err := runScanInternal(root, true); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
	}

	sep := string(filepath.Separator)
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if strings.Contains(ev.Name, sep+config.Paths.OutputDir+sep) ||
				strings.HasSuffix(ev.Name, config.Fix.BackupSuffix) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 && !strings.HasPrefix(filepath.Base(ev.Name), ".") {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, ev.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: watch error: %v\n", err)
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if path != root {
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			for _, d := range config.Scan.IgnoreDirs {
				if name == d {
					return filepath.SkipDir
				}
			}
		}
		return w.Add(path)
	})
}
