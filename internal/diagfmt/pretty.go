package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"shroud/internal/diag"
	"shroud/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	file, line      *color.Color
	caret, note     *color.Color
}

func newPalette(on bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:   mk(color.FgRed, color.Bold),
		warn:  mk(color.FgHiYellow, color.Bold),
		info:  mk(color.FgCyan, color.Bold),
		file:  mk(color.FgCyan, color.Bold),
		line:  mk(color.FgHiBlue, color.Bold),
		caret: mk(color.FgRed, color.Bold),
		note:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	error[SYN2001]: message
//	  --> path:line:col
//	   |
//	 3 | source line
//	   |     ^^^^
//	   = note: ...
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	var b strings.Builder
	for _, d := range bag.Items() {
		writeDiagnostic(&b, d, fs, opts, pal)
	}
	_, _ = io.WriteString(w, b.String())
}

func writeDiagnostic(b *strings.Builder, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := d.Severity.Label()
	b.WriteString(pal.severity(d.Severity).Sprintf("%s[%s]", sev, d.Code.ID()))
	b.WriteString(": " + d.Message + "\n")

	path := filePath(d.Primary, fs, opts.PathMode)
	gutter := 2
	if path != "" {
		f := fs.Get(d.Primary.File)
		wholeFile := d.Primary.Start == 0 && d.Primary.End == 0
		start, end := fs.Resolve(d.Primary)
		gutter = max(gutter, len(fmt.Sprint(end.Line)))
		pad := strings.Repeat(" ", gutter)
		if wholeFile {
			b.WriteString(pal.line.Sprintf("%s--> ", pad) + pal.file.Sprint(path) + "\n")
		} else {
			b.WriteString(pal.line.Sprintf("%s--> ", pad) + pal.file.Sprintf("%s:%d:%d", path, start.Line, start.Col) + "\n")
			writeSnippet(b, f, start, end, gutter, int(opts.Context), pal)
		}
	}
	if opts.ShowNotes {
		pad := strings.Repeat(" ", gutter+1)
		for _, n := range d.Notes {
			b.WriteString(pad + pal.note.Sprint("= note: ") + n.Msg)
			if np := filePath(n.Span, fs, opts.PathMode); np != "" && n.Span != d.Primary && !n.Span.Empty() {
				pos, _ := fs.Resolve(n.Span)
				fmt.Fprintf(b, " (%s:%d:%d)", np, pos.Line, pos.Col)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func writeSnippet(b *strings.Builder, f *source.File, start, end source.LineCol, gutter, context int, pal palette) {
	pad := strings.Repeat(" ", gutter)
	b.WriteString(pal.line.Sprintf("%s |", pad) + "\n")
	first := int(start.Line) - max(context, 0)
	if first < 1 {
		first = 1
	}
	for ln := first; ln <= int(start.Line); ln++ {
		text := expandTabs(f.GetLine(uint32(ln))) // #nosec G115 -- ln is bounded by start.Line
		b.WriteString(pal.line.Sprintf("%*d |", gutter, ln))
		if text != "" {
			b.WriteString(" " + text)
		}
		b.WriteString("\n")
	}

	raw := f.GetLine(start.Line)
	col := int(start.Col) - 1
	if col > len(raw) {
		col = len(raw)
	}
	stop := len(raw)
	if end.Line == start.Line {
		stop = min(int(end.Col)-1, len(raw))
	}
	lead := runewidth.StringWidth(expandTabs(raw[:col]))
	width := runewidth.StringWidth(expandTabs(raw[col:max(stop, col)]))
	if width == 0 {
		width = 1
	}
	b.WriteString(pal.line.Sprintf("%s |", pad) + " " + strings.Repeat(" ", lead) + pal.caret.Sprint(strings.Repeat("^", width)) + "\n")
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// Summary returns "2 errors, 1 warning" style text, or "" for an empty bag.
func Summary(bag *diag.Bag) string {
	if bag == nil {
		return ""
	}
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	var parts []string
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
