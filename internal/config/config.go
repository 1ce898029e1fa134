// Package config holds the compiled-in configuration with optional
// overrides from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SchemaVersion string         `yaml:"schemaVersion"`
	Paths         PathsConfig    `yaml:"paths"`
	Scan          ScanConfig     `yaml:"scan"`
	Fix           FixConfig      `yaml:"fix"`
	Registry      RegistryConfig `yaml:"registry"`
	Smoke         SmokeConfig    `yaml:"smoke"`
}

type PathsConfig struct {
	WorkspaceRoot string `yaml:"workspaceRoot"`
	OutputDir     string `yaml:"outputDir"`
}

type ScanConfig struct {
	Extensions   []string `yaml:"extensions"`
	IgnoreDirs   []string `yaml:"ignoreDirs"`
	UseGitignore bool     `yaml:"useGitignore"`
}

type FixConfig struct {
	BackupSuffix string `yaml:"backupSuffix"`
}

type RegistryConfig struct {
	Address  string          `yaml:"address"`
	Prefix   string          `yaml:"prefix"`
	Services []ServiceConfig `yaml:"services"`
	Routes   []RouteConfig   `yaml:"routes"`
}

type ServiceConfig struct {
	Name       string `yaml:"name"`
	Address    string `yaml:"address"`
	Port       int    `yaml:"port"`
	HealthPath string `yaml:"healthPath"`
}

type RouteConfig struct {
	Name       string `yaml:"name"`
	PathPrefix string `yaml:"pathPrefix"`
	Upstream   string `yaml:"upstream"`
}

type SmokeConfig struct {
	HTTPChecks     []string       `yaml:"httpChecks"`
	Database       DatabaseConfig `yaml:"database"`
	Processes      []string       `yaml:"processes"`
	TimeoutSeconds int            `yaml:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		SchemaVersion: "1",
		Paths: PathsConfig{
			WorkspaceRoot: ".",
			OutputDir:     ".srcmend",
		},
		Scan: ScanConfig{
			Extensions:   []string{".js", ".mjs", ".cjs"},
			IgnoreDirs:   []string{"node_modules", ".git", "dist", "build", "coverage"},
			UseGitignore: true,
		},
		Fix: FixConfig{
			BackupSuffix: ".bak",
		},
		Registry: RegistryConfig{
			Address: "http://127.0.0.1:8500",
			Prefix:  "srcmend",
		},
		Smoke: SmokeConfig{
			Database:       DatabaseConfig{Driver: "sqlite", DSN: ""},
			TimeoutSeconds: 5,
		},
	}
}

// Load returns Default overlaid with the YAML file at path.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
