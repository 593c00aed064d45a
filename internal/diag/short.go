package diag

import (
	"fmt"
	"strings"

	"shroud/internal/source"
)

// FormatShort renders diagnostics one per line as `path:line:col: SEV CODE: message`.
// Diagnostics without a file fall back to `<synthetic>`.
func FormatShort(diags []Diagnostic, fs *source.FileSet) string {
	var sb strings.Builder
	for _, d := range diags {
		loc := "<synthetic>"
		if fs != nil {
			if f := fs.Get(d.Primary.File); f != nil {
				start, _ := fs.Resolve(d.Primary)
				loc = fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
			}
		}
		fmt.Fprintf(&sb, "%s: %s %s: %s\n", loc, d.Severity, d.Code.ID(), strings.ReplaceAll(d.Message, "\n", " "))
	}
	return sb.String()
}
