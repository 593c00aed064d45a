package driver

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shroud/internal/format"
	"shroud/internal/parser"
	"shroud/internal/source"
)

// SourceExt is the extension of program files.
const SourceExt = ".shr"

// FormatOptions configures code formatting.
type FormatOptions struct {
	Check   bool
	Stdout  bool
	Options format.Options
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted []byte
}

// FormatPaths formats provided files or directories (recursively collecting .shr files).
// When opts.Check is true, files are not modified; Changed indicates whether formatting
// would update the file contents. When opts.Stdout is true, formatted content is returned
// in the results without touching files on disk.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := CollectSourceFiles(ctx, paths, "")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no source files found")
	}

	results := make([]FormatResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := FormatResult{Path: path}
		formatted, changed, err := formatSingleFile(path, opts)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		if opts.Check {
			result.Changed = changed
			results = append(results, result)
			continue
		}

		if opts.Stdout {
			result.Formatted = formatted
			result.Changed = changed
			results = append(results, result)
			continue
		}

		if changed {
			if err := writeAtomic(path, formatted); err != nil {
				result.Err = err
			} else {
				result.Changed = true
			}
		}
		results = append(results, result)
	}

	return results, nil
}

func formatSingleFile(path string, opts FormatOptions) (formatted []byte, changed bool, err error) {
	fileSet := source.NewFileSet()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, false, err
	}
	sf := fileSet.Get(fileID)

	prog, err := parser.Parse(fileSet, fileID)
	if err != nil {
		return nil, false, err
	}
	formatted = format.FormatProgram(prog, opts.Options)
	if ok, msg := format.CheckRoundTrip(prog, opts.Options); !ok {
		return nil, false, errors.New(msg)
	}
	return formatted, !bytes.Equal(sf.Content, formatted), nil
}

// CollectSourceFiles expands directories into the .shr files below them.
// Files found during a directory walk whose name ends in skipSuffix (an
// earlier output) are left out; explicitly named files are always kept,
// missing ones too, so that the caller reports them per file.
func CollectSourceFiles(ctx context.Context, paths []string, skipSuffix string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			addFile(p)
			continue
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != SourceExt {
				return nil
			}
			stem := strings.TrimSuffix(filepath.Base(path), SourceExt)
			if skipSuffix != "" && strings.HasSuffix(stem, skipSuffix) {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
