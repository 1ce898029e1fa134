// Package probe implements the independent smoke-test checks. Each probe
// answers a single boolean question about one service; aggregation is the
// caller's job.
package probe

import (
	"context"
	"database/sql"
	"net/http"
	"os/exec"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Result is one probe outcome.
type Result struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Target string `json:"target"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

var httpClient = &http.Client{Timeout: 5 * time.Second}

// HTTP reports whether a GET on url answers with a non-error status.
func HTTP(ctx context.Context, url string) Result {
	r := Result{Name: url, Kind: "http", Target: url}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.Detail = err.Error()
		return r
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		r.Detail = err.Error()
		return r
	}
	defer resp.Body.Close()
	r.OK = resp.StatusCode < 400
	if !r.OK {
		r.Detail = resp.Status
	}
	return r
}

// Database reports whether the configured database answers a ping.
func Database(ctx context.Context, driver, dsn string) Result {
	r := Result{Name: driver, Kind: "database", Target: dsn}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		r.Detail = err.Error()
		return r
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		r.Detail = err.Error()
		return r
	}
	r.OK = true
	return r
}

// Process reports whether a process with the given name is running. It
// asks pgrep first and falls back to scanning ps output.
func Process(ctx context.Context, name string) Result {
	r := Result{Name: name, Kind: "process", Target: name}
	if err := exec.CommandContext(ctx, "pgrep", "-x", name).Run(); err == nil {
		r.OK = true
		return r
	}
	out, err := exec.CommandContext(ctx, "ps", "-eo", "comm=").Output()
	if err != nil {
		r.Detail = "process list unavailable: " + err.Error()
		return r
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) == name {
			r.OK = true
			return r
		}
	}
	r.Detail = "not running"
	return r
}
