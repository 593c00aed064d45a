package diagfmt

import (
	"os"
	"path/filepath"
	"strings"

	"shroud/internal/source"
)

// DisplayPath renders path according to mode.
func DisplayPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative:
		if rel, ok := relToWD(path); ok {
			return rel
		}
		return path
	default:
		if !filepath.IsAbs(path) {
			return path
		}
		if rel, ok := relToWD(path); ok && !strings.HasPrefix(rel, "..") {
			return rel
		}
		return path
	}
}

func relToWD(path string) (string, bool) {
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return "", false
	}
	return rel, true
}

// filePath returns the display path of the span's file, or "" when the span
// does not point into fs.
func filePath(span source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil || span.IsSynthetic() {
		return ""
	}
	f := fs.Get(span.File)
	if f == nil {
		return ""
	}
	return DisplayPath(f.Path, mode)
}
