package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deveritt/srcmend/internal/probe"
	"github.com/deveritt/srcmend/internal/support"
)

type smokeReport struct {
	GeneratedAtUtc string         `json:"generatedAtUtc"`
	Status         string         `json:"status"`
	Reasons        []string       `json:"reasons,omitempty"`
	Probes         []probe.Result `json:"probes"`
}

func runSmoke() {
	rep := buildSmokeReport()
	for _, p := range rep.Probes {
		state := "ok"
		if !p.OK {
			state = "FAIL"
			if p.Detail != "" {
				state += " (" + p.Detail + ")"
			}
		}
		fmt.Printf("  %-8s %-30s %s\n", p.Kind, p.Name, state)
	}
	fmt.Printf("smoke: %s\n", rep.Status)
	_ = support.WriteJSONAtomic(filepath.Join(outputDir(), "smoke-report.json"), rep)
	if rep.Status != "OK" {
		os.Exit(1)
	}
}

// buildSmokeReport runs every configured probe and folds the booleans
// into an overall OK/DEGRADED status with reasons, one probe at a time.
func buildSmokeReport() smokeReport {
	timeout := time.Duration(config.Smoke.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	rep := smokeReport{GeneratedAtUtc: time.Now().UTC().Format(time.RFC3339)}
	runProbe := func(f func(context.Context) probe.Result) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rep.Probes = append(rep.Probes, f(ctx))
	}

	for _, url := range config.Smoke.HTTPChecks {
		url := url
		runProbe(func(ctx context.Context) probe.Result { return probe.HTTP(ctx, url) })
	}
	if db := config.Smoke.Database; db.DSN != "" {
		runProbe(func(ctx context.Context) probe.Result { return probe.Database(ctx, db.Driver, db.DSN) })
	}
	for _, name := range config.Smoke.Processes {
		name := name
		runProbe(func(ctx context.Context) probe.Result { return probe.Process(ctx, name) })
	}

	rep.Status = "OK"
	for _, p := range rep.Probes {
		if !p.OK {
			rep.Status = "DEGRADED"
			rep.Reasons = append(rep.Reasons, fmt.Sprintf("%s check failed: %s", p.Kind, p.Name))
		}
	}
	return rep
}
