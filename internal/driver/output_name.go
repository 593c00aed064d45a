package driver

import (
	"path/filepath"
	"strings"
)

// DefaultSuffix is inserted before the extension of the input name.
const DefaultSuffix = "_obfuscated"

// OutputPath returns the default output for input: prog.shr becomes
// prog_obfuscated.shr next to it, or inside dir when dir is set.
func OutputPath(input, suffix, dir string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + suffix + ext
	if dir != "" {
		return filepath.Join(dir, name)
	}
	return filepath.Join(filepath.Dir(input), name)
}
