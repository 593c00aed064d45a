// Package config loads shroud.toml (or .shroud.yaml) and turns it into a
// pipeline request.
package config

import (
	"fmt"

	"shroud/internal/cff"
	"shroud/internal/mask"
	"shroud/internal/mba"
	"shroud/internal/opaque"
	"shroud/internal/pipeline"
)

// ObfuscateConfig holds [obfuscate].
type ObfuscateConfig struct {
	Seed      int64    `toml:"seed" yaml:"seed"`
	Passes    []string `toml:"passes" yaml:"passes"`
	Strict    bool     `toml:"strict" yaml:"strict"`
	Jobs      int      `toml:"jobs" yaml:"jobs"`
	Functions []string `toml:"functions" yaml:"functions"`
}

// MaskConfig holds [mask].
type MaskConfig struct {
	Prefix string `toml:"prefix" yaml:"prefix"`
	Width  int    `toml:"width" yaml:"width"`
}

// OpaqueConfig holds [opaque].
type OpaqueConfig struct {
	GuardIfs      bool    `toml:"guard_ifs" yaml:"guard_ifs"`
	IfProbability float64 `toml:"if_probability" yaml:"if_probability"`
	MinLeaves     int     `toml:"min_leaves" yaml:"min_leaves"`
	MaxLeaves     int     `toml:"max_leaves" yaml:"max_leaves"`
	MaxDepth      int     `toml:"max_depth" yaml:"max_depth"`
	JunkMin       int     `toml:"junk_min" yaml:"junk_min"`
	JunkMax       int     `toml:"junk_max" yaml:"junk_max"`
	JunkDepth     int     `toml:"junk_depth" yaml:"junk_depth"`
}

// MBAConfig holds [mba].
type MBAConfig struct {
	Depth    int  `toml:"depth" yaml:"depth"`
	MaxNodes int  `toml:"max_nodes" yaml:"max_nodes"`
	Blinding bool `toml:"blinding" yaml:"blinding"`
}

// CFFConfig holds [cff].
type CFFConfig struct {
	Jitter  int  `toml:"jitter" yaml:"jitter"`
	Shuffle bool `toml:"shuffle" yaml:"shuffle"`
}

// OutputConfig holds [output].
type OutputConfig struct {
	Suffix string `toml:"suffix" yaml:"suffix"`
	Cache  bool   `toml:"cache" yaml:"cache"`
}

// Config is the whole file.
type Config struct {
	Obfuscate ObfuscateConfig `toml:"obfuscate" yaml:"obfuscate"`
	Mask      MaskConfig      `toml:"mask" yaml:"mask"`
	Opaque    OpaqueConfig    `toml:"opaque" yaml:"opaque"`
	MBA       MBAConfig       `toml:"mba" yaml:"mba"`
	CFF       CFFConfig       `toml:"cff" yaml:"cff"`
	Output    OutputConfig    `toml:"output" yaml:"output"`

	// Path is the file the values came from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	op := opaque.DefaultOptions()
	mb := mba.DefaultOptions()
	cf := cff.DefaultOptions()
	mk := mask.DefaultOptions()
	return Config{
		Obfuscate: ObfuscateConfig{Passes: []string{"encode", "opaque", "mba", "cff", "mask"}},
		Mask:      MaskConfig{Prefix: mk.Prefix, Width: mk.Width},
		Opaque: OpaqueConfig{
			GuardIfs:      op.GuardIfs,
			IfProbability: op.IfProbability,
			MinLeaves:     op.MinLeaves,
			MaxLeaves:     op.MaxLeaves,
			MaxDepth:      op.MaxDepth,
			JunkMin:       op.JunkMin,
			JunkMax:       op.JunkMax,
			JunkDepth:     op.JunkDepth,
		},
		MBA:    MBAConfig{Depth: mb.Depth, MaxNodes: mb.MaxNodes, Blinding: mb.Blinding},
		CFF:    CFFConfig{Jitter: cf.Jitter, Shuffle: cf.Shuffle},
		Output: OutputConfig{Suffix: "_obfuscated", Cache: true},
	}
}

// KeyError names the setting that failed validation.
type KeyError struct {
	Path string
	Key  string
	Msg  string
}

func (e *KeyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Key, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Key, e.Msg)
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	bad := func(key, format string, args ...any) error {
		return &KeyError{Path: c.Path, Key: key, Msg: fmt.Sprintf(format, args...)}
	}
	if _, err := c.Passes(); err != nil {
		return bad("obfuscate.passes", "%v", err)
	}
	if c.Obfuscate.Jobs < 0 {
		return bad("obfuscate.jobs", "must not be negative, got %d", c.Obfuscate.Jobs)
	}
	if c.Mask.Prefix == "" {
		return bad("mask.prefix", "must not be empty")
	}
	if !identStart(c.Mask.Prefix[0]) {
		return bad("mask.prefix", "must start with a letter or '_', got %q", c.Mask.Prefix)
	}
	if c.Mask.Width < 0 || c.Mask.Width > 32 {
		return bad("mask.width", "must be in 0..32, got %d", c.Mask.Width)
	}
	o := c.Opaque
	switch {
	case o.IfProbability < 0 || o.IfProbability > 1:
		return bad("opaque.if_probability", "must be in [0, 1], got %g", o.IfProbability)
	case o.MinLeaves < 1:
		return bad("opaque.min_leaves", "must be at least 1, got %d", o.MinLeaves)
	case o.MaxLeaves < o.MinLeaves:
		return bad("opaque.max_leaves", "must be >= min_leaves (%d), got %d", o.MinLeaves, o.MaxLeaves)
	case o.MaxDepth < 1 || o.MaxDepth > 16:
		return bad("opaque.max_depth", "must be in 1..16, got %d", o.MaxDepth)
	case o.JunkMin < 0:
		return bad("opaque.junk_min", "must not be negative, got %d", o.JunkMin)
	case o.JunkMax < o.JunkMin:
		return bad("opaque.junk_max", "must be >= junk_min (%d), got %d", o.JunkMin, o.JunkMax)
	case o.JunkDepth < 0 || o.JunkDepth > 8:
		return bad("opaque.junk_depth", "must be in 0..8, got %d", o.JunkDepth)
	}
	if c.MBA.Depth < 1 || c.MBA.Depth > 4 {
		return bad("mba.depth", "must be in 1..4, got %d", c.MBA.Depth)
	}
	if c.MBA.MaxNodes < 1 {
		return bad("mba.max_nodes", "must be positive, got %d", c.MBA.MaxNodes)
	}
	if c.CFF.Jitter < 0 {
		return bad("cff.jitter", "must not be negative, got %d", c.CFF.Jitter)
	}
	if c.Output.Suffix == "" {
		return bad("output.suffix", "must not be empty")
	}
	return nil
}

func identStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Passes parses obfuscate.passes. An empty list enables every pass, the same
// as an empty --passes flag.
func (c *Config) Passes() (pipeline.PassSet, error) {
	if len(c.Obfuscate.Passes) == 0 {
		return pipeline.AllPasses, nil
	}
	var set pipeline.PassSet
	for _, p := range c.Obfuscate.Passes {
		one, err := pipeline.ParsePasses(p)
		if err != nil {
			return 0, err
		}
		set |= one
	}
	return set, nil
}

// Request builds a pipeline request. Call Validate first.
func (c *Config) Request() (pipeline.Request, error) {
	passes, err := c.Passes()
	if err != nil {
		return pipeline.Request{}, err
	}
	return pipeline.Request{
		Functions: append([]string(nil), c.Obfuscate.Functions...),
		Seed:      c.Obfuscate.Seed,
		Passes:    passes,
		Strict:    c.Obfuscate.Strict,
		Jobs:      c.Obfuscate.Jobs,
		Opaque: opaque.Options{
			GuardIfs:      c.Opaque.GuardIfs,
			IfProbability: c.Opaque.IfProbability,
			MinLeaves:     c.Opaque.MinLeaves,
			MaxLeaves:     c.Opaque.MaxLeaves,
			MaxDepth:      c.Opaque.MaxDepth,
			JunkMin:       c.Opaque.JunkMin,
			JunkMax:       c.Opaque.JunkMax,
			JunkDepth:     c.Opaque.JunkDepth,
		},
		MBA:  mba.Options{Depth: c.MBA.Depth, MaxNodes: c.MBA.MaxNodes, Blinding: c.MBA.Blinding},
		CFF:  cff.Options{Jitter: c.CFF.Jitter, Shuffle: c.CFF.Shuffle},
		Mask: mask.Options{Prefix: c.Mask.Prefix, Width: c.Mask.Width},
	}, nil
}
