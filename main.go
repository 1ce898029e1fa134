// srcmend - declaration repair and service bring-up CLI
//
// Commands:
//   fix <file> [--dry-run]   Rewrite ambiguous declarations in one file
//   scan [root] [--fix]      Classify module syntax across a source tree
//   seed [--clear]           Seed proxy/registry config into the KV store
//   smoke                    Run service smoke checks
//   watch [root]             Re-run the fix pipeline on change
//   --version                Show version information
//   --config <path>          Use specific config file
package main

import (
	"fmt"
	"os"
	"path/filepath"

	cfgpkg "github.com/deveritt/srcmend/internal/config"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

// Global config
var config cfgpkg.Config
var configPath string

func main() {
	args := os.Args[1:]
	configFlag := ""
	dryRun := false
	clearTree := false
	applyFix := false
	filtered := []string{}

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config" && i+1 < len(args):
			configFlag = args[i+1]
			i++
		case args[i] == "--dry-run":
			dryRun = true
		case args[i] == "--clear":
			clearTree = true
		case args[i] == "--fix":
			applyFix = true
		case args[i] == "--version":
			fmt.Printf("srcmend %s (built %s)\n", Version, BuildDate)
			return
		default:
			filtered = append(filtered, args[i])
		}
	}

	config = cfgpkg.Default()
	if configFlag != "" {
		cfg, err := cfgpkg.Load(configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		config = cfg
		configPath = configFlag
	}

	if len(filtered) == 0 {
		usage()
		os.Exit(2)
	}

	switch filtered[0] {
	case "fix":
		if len(filtered) < 2 {
			fmt.Fprintln(os.Stderr, "ERROR: fix requires a file path")
			os.Exit(2)
		}
		runFix(filtered[1], dryRun)
	case "scan":
		root := config.Paths.WorkspaceRoot
		if len(filtered) > 1 {
			root = filtered[1]
		}
		runScan(root, applyFix)
	case "seed":
		runSeed(clearTree)
	case "smoke":
		runSmoke()
	case "watch":
		root := config.Paths.WorkspaceRoot
		if len(filtered) > 1 {
			root = filtered[1]
		}
		runWatch(root)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "ERROR: unknown command %q\n", filtered[0])
		usage()
		os.Exit(2)
	}
}

// outputDir is where reports, the audit log and other tool artifacts go.
func outputDir() string {
	return filepath.Join(config.Paths.WorkspaceRoot, config.Paths.OutputDir)
}

func usage() {
	fmt.Printf(`srcmend %s - declaration repair and service bring-up

Usage:
  srcmend fix <file> [--dry-run]   rewrite ambiguous declarations in one file
  srcmend scan [root] [--fix]      classify module syntax across a tree
  srcmend seed [--clear]           seed proxy/registry config into the KV store
  srcmend smoke                    run service smoke checks
  srcmend watch [root]             re-run the fix pipeline on change

Flags:
  --config <path>   use specific config file (YAML)
  --version         show version information
`, Version)
}
