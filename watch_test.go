package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRewritesChangedFile(t *testing.T) {
	tmp := setupWorkspace(t)
	path := filepath.Join(tmp, "live.js")

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		runWatchWithStop(tmp, stop)
	}()
	defer func() {
		close(stop)
		<-done
	}()

	// Give the watcher a moment to register the root.
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(path, []byte(mangledSource), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && string(data) == mendedSource {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	data, _ := os.ReadFile(path)
	t.Fatalf("file was not rewritten by watch, content: %q", string(data))
}
