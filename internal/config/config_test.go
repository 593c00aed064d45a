package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"shroud/internal/pipeline"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultRequestMatchesPipelineDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	req, err := cfg.Request()
	require.NoError(t, err)
	want := pipeline.DefaultRequest()
	require.Equal(t, want.Passes, req.Passes)
	require.Equal(t, want.Opaque, req.Opaque)
	require.Equal(t, want.MBA, req.MBA)
	require.Equal(t, want.CFF, req.CFF)
	require.Equal(t, want.Mask, req.Mask)
	require.Empty(t, req.Functions)
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "shroud.toml", `
[obfuscate]
seed = 42
passes = ["encode", "mba"]
functions = ["add"]

[mba]
depth = 1

[mask]
prefix = "v"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.Path)
	require.Equal(t, int64(42), cfg.Obfuscate.Seed)
	require.Equal(t, 1, cfg.MBA.Depth)
	require.Equal(t, 400, cfg.MBA.MaxNodes, "untouched keys keep their defaults")
	require.Equal(t, "v", cfg.Mask.Prefix)

	req, err := cfg.Request()
	require.NoError(t, err)
	require.Equal(t, "encode,mba", req.Passes.String())
	require.Equal(t, []string{"add"}, req.Functions)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, ".shroud.yaml", `
obfuscate:
  strict: true
  passes: [cff]
cff:
  jitter: 0
  shuffle: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Obfuscate.Strict)
	require.Equal(t, 0, cfg.CFF.Jitter)
	require.False(t, cfg.CFF.Shuffle)
	require.Equal(t, "_0x", cfg.Mask.Prefix)
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	path := write(t, t.TempDir(), ".shroud.yml", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default().Opaque, cfg.Opaque)
}

func TestUnknownKeysAreRejected(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(write(t, dir, "shroud.toml", "[mba]\ndepht = 3\n"))
	var ke *KeyError
	require.ErrorAs(t, err, &ke)
	require.Equal(t, "mba.depht", ke.Key)

	_, err = Load(write(t, dir, ".shroud.yaml", "mba:\n  depht: 3\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "depht")
}

func TestValidateNamesTheKey(t *testing.T) {
	cases := []struct {
		key    string
		mutate func(*Config)
	}{
		{"obfuscate.passes", func(c *Config) { c.Obfuscate.Passes = []string{"rot13"} }},
		{"obfuscate.jobs", func(c *Config) { c.Obfuscate.Jobs = -1 }},
		{"mask.prefix", func(c *Config) { c.Mask.Prefix = "" }},
		{"mask.prefix", func(c *Config) { c.Mask.Prefix = "9x" }},
		{"mask.width", func(c *Config) { c.Mask.Width = 40 }},
		{"opaque.if_probability", func(c *Config) { c.Opaque.IfProbability = 1.5 }},
		{"opaque.min_leaves", func(c *Config) { c.Opaque.MinLeaves = 0 }},
		{"opaque.max_leaves", func(c *Config) { c.Opaque.MaxLeaves = 2 }},
		{"opaque.max_depth", func(c *Config) { c.Opaque.MaxDepth = 0 }},
		{"opaque.junk_max", func(c *Config) { c.Opaque.JunkMax = 1 }},
		{"opaque.junk_depth", func(c *Config) { c.Opaque.JunkDepth = 9 }},
		{"mba.depth", func(c *Config) { c.MBA.Depth = 0 }},
		{"mba.max_nodes", func(c *Config) { c.MBA.MaxNodes = 0 }},
		{"cff.jitter", func(c *Config) { c.CFF.Jitter = -3 }},
		{"output.suffix", func(c *Config) { c.Output.Suffix = "" }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		var ke *KeyError
		require.True(t, errors.As(err, &ke), "%s: got %v", tc.key, err)
		require.Equal(t, tc.key, ke.Key)
	}
}

func TestPassesNone(t *testing.T) {
	cfg := Default()
	cfg.Obfuscate.Passes = []string{"none"}
	set, err := cfg.Passes()
	require.NoError(t, err)
	require.Equal(t, pipeline.PassSet(0), set)

	cfg.Obfuscate.Passes = nil
	set, err = cfg.Passes()
	require.NoError(t, err)
	require.Equal(t, pipeline.AllPasses, set)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	want := write(t, root, "shroud.toml", "")
	got, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	// shroud.toml wins over .shroud.yaml in the same directory.
	write(t, root, ".shroud.yaml", "")
	got, _, err = Find(nested)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// A closer file wins.
	closer := write(t, nested, ".shroud.yml", "")
	got, _, err = Find(nested)
	require.NoError(t, err)
	require.Equal(t, closer, got)
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	// t.TempDir has no config, but an ancestor could; only check the explicit path here.
	dir := t.TempDir()
	path := write(t, dir, "custom.toml", "[obfuscate]\nseed = 7\n")
	cfg, err := Resolve(path, dir)
	require.NoError(t, err)
	require.Equal(t, int64(7), cfg.Obfuscate.Seed)
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "shroud.toml"), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Path = ""
	require.Empty(t, cfg.Obfuscate.Functions)
	cfg.Obfuscate.Functions = nil
	require.Equal(t, Default(), cfg)

	_, err = WriteDefault(dir)
	require.Error(t, err, "existing file is not overwritten")
}
