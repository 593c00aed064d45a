package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"shroud/internal/config"
)

// loadConfig resolves --config or the nearest config file above startDir.
func loadConfig(cmd *cobra.Command, startDir string) (config.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if startDir == "" {
		startDir = "."
	}
	if abs, err := filepath.Abs(startDir); err == nil {
		startDir = abs
	}
	return config.Resolve(explicit, startDir)
}

// obfuscateFlags holds the command line values that may override the config file.
type obfuscateFlags struct {
	functions []string
	seed      int64
	passes    string
	strict    bool
	jobs      int
	suffix    string
	noCache   bool
}

// apply копирует в cfg только явно заданные флаги.
func (f *obfuscateFlags) apply(cfg *config.Config, changed func(name string) bool) {
	if changed("func") {
		cfg.Obfuscate.Functions = splitList(f.functions)
	}
	if changed("seed") {
		cfg.Obfuscate.Seed = f.seed
	}
	if changed("passes") {
		cfg.Obfuscate.Passes = []string{f.passes}
	}
	if changed("strict") {
		cfg.Obfuscate.Strict = f.strict
	}
	if changed("jobs") {
		cfg.Obfuscate.Jobs = f.jobs
	}
	if changed("suffix") {
		cfg.Output.Suffix = f.suffix
	}
	if f.noCache {
		cfg.Output.Cache = false
	}
}

// splitList accepts both repeated flags and comma lists; blanks are dropped.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
