package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"shroud/internal/diag"
	"shroud/internal/source"
)

func sampleBag() (*diag.Bag, *source.FileSet, source.FileID) {
	fs := source.NewFileSet()
	content := []byte("fn f(a: int) {\n    return a +;\n}\n")
	id := fs.AddVirtual("/home/user/project/src/test.shr", content)

	bag := diag.NewBag(10)
	// ";" во второй строке стоит на байте 29
	bag.Add(diag.NewError(diag.SynExpectExpression, source.Span{File: id, Start: 29, End: 30}, "expected expression").
		WithNote(source.Span{File: id, Start: 0, End: 2}, "inside this function"))
	bag.Add(diag.New(diag.SevInfo, diag.ObfFlattenPassthru, source.Span{File: id}, "kept whole"))
	return bag, fs, id
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs, _ := sampleBag()
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.shr"},
		{"Basename only", PathModeBasename, "--> test.shr:2:15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "error[SYN2004]: expected expression") {
				t.Errorf("missing header in:\n%s", output)
			}
		})
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	bag, fs, _ := sampleBag()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowNotes: true})
	out := buf.String()

	want := []string{
		" 1 | fn f(a: int) {",
		" 2 |     return a +;",
		"   | " + strings.Repeat(" ", 14) + "^",
		"= note: inside this function (test.shr:1:1)",
		"info[OBF3004]: kept whole",
		"  --> test.shr\n",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output lacks %q:\n%s", w, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("colour codes present with Color=false")
	}
}

func TestPrettyHidesNotesByDefault(t *testing.T) {
	bag, fs, _ := sampleBag()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") {
		t.Errorf("notes shown without ShowNotes:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs, _ := sampleBag()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI sequences, got:\n%s", buf.String())
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Synthetic(), "open x.shr: no such file"))
	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	if got, want := buf.String(), "error[IO4001]: open x.shr: no such file\n\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSummary(t *testing.T) {
	bag, _, _ := sampleBag()
	if got := Summary(bag); got != "1 error" {
		t.Errorf("Summary = %q", got)
	}
	bag.Add(diag.New(diag.SevWarning, diag.ObfUnsupported, source.Synthetic(), "w"))
	bag.Add(diag.New(diag.SevWarning, diag.ObfUnsupported, source.Synthetic(), "w"))
	if got := Summary(bag); got != "1 error, 2 warnings" {
		t.Errorf("Summary = %q", got)
	}
	if got := Summary(diag.NewBag(1)); got != "" {
		t.Errorf("Summary of empty bag = %q", got)
	}
}
