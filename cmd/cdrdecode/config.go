package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/cdrdecode/internal/output"
	"github.com/danmuck/cdrdecode/internal/pipeline"
)

// cdrdecode config.toml key mapping to run settings.
type fileConfig struct {
	Workers       int      `toml:"workers"`
	FileWorkers   int      `toml:"file_workers"`
	Format        string   `toml:"format"`
	OutputDir     string   `toml:"output_dir"`
	MaxFileBytes  int64    `toml:"max_file_bytes"`
	OperatorsFile string   `toml:"operators_file"`
	StatusAddr    string   `toml:"status_addr"`
	CorsOrigins   []string `toml:"cors_origins"`
	Extensions    []string `toml:"extensions"`
}

type runConfig struct {
	Pipeline      pipeline.Config
	OperatorsFile string
	StatusAddr    string
	CorsOrigins   []string
}

func defaultRunConfig() runConfig {
	return runConfig{Pipeline: pipeline.DefaultConfig()}
}

// loadRunConfig overlays the keys present in path on the defaults. Relative
// operator file paths resolve against the config file's directory.
func loadRunConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, fmt.Errorf("load cdrdecode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return runConfig{}, fmt.Errorf("load cdrdecode config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("workers") {
		cfg.Pipeline.Workers = raw.Workers
	}
	if meta.IsDefined("file_workers") {
		cfg.Pipeline.FileWorkers = raw.FileWorkers
	}
	if meta.IsDefined("format") {
		f, err := output.ParseFormat(raw.Format)
		if err != nil {
			return runConfig{}, fmt.Errorf("load cdrdecode config: %w", err)
		}
		cfg.Pipeline.Format = f
	}
	if meta.IsDefined("output_dir") {
		cfg.Pipeline.OutputDir = strings.TrimSpace(raw.OutputDir)
	}
	if meta.IsDefined("max_file_bytes") {
		cfg.Pipeline.MaxFileBytes = raw.MaxFileBytes
	}
	if meta.IsDefined("extensions") {
		cfg.Pipeline.Extensions = raw.Extensions
	}
	if meta.IsDefined("operators_file") {
		cfg.OperatorsFile = strings.TrimSpace(raw.OperatorsFile)
		if cfg.OperatorsFile != "" && !filepath.IsAbs(cfg.OperatorsFile) {
			cfg.OperatorsFile = filepath.Join(filepath.Dir(path), cfg.OperatorsFile)
		}
	}
	if meta.IsDefined("status_addr") {
		cfg.StatusAddr = strings.TrimSpace(raw.StatusAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}

	if err := cfg.Pipeline.Validate(); err != nil {
		return runConfig{}, fmt.Errorf("load cdrdecode config: %w", err)
	}
	return cfg, nil
}
