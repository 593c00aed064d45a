package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"shroud/internal/diag"
	"shroud/internal/parser"
	"shroud/internal/source"
)

func TestJSONPositionsAndNotes(t *testing.T) {
	bag, fs, _ := sampleBag()
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename})
	if out.Count != 2 {
		t.Fatalf("Count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "SYN2004" || first.Severity != "ERROR" {
		t.Errorf("unexpected header %+v", first)
	}
	if first.Location.File != "test.shr" || first.Location.StartLine != 2 || first.Location.StartCol != 15 {
		t.Errorf("unexpected location %+v", first.Location)
	}
	if len(first.Notes) != 0 {
		t.Error("notes included without IncludeNotes")
	}

	out = BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: true, Max: 1})
	if out.Count != 1 || len(out.Diagnostics[0].Notes) != 1 {
		t.Errorf("Max/IncludeNotes not honoured: %+v", out)
	}
}

func TestJSONTimingsKeepNotes(t *testing.T) {
	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevInfo, diag.ObfTimings, source.Synthetic(), "timings").
		WithNote(source.Synthetic(), `{"kind":"file"}`))
	var buf bytes.Buffer
	if err := JSON(&buf, bag, source.NewFileSet(), JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	var decoded DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Diagnostics[0].Notes) != 1 || decoded.Diagnostics[0].Location.File != "" {
		t.Errorf("unexpected %+v", decoded.Diagnostics[0])
	}
}

func TestASTTreeAndJSON(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.shr", []byte("import a.b as c;\nfn f(x: int) -> int {\n    if x > 0 {\n        return -x;\n    }\n    return x;\n}\n"))
	prog, err := parser.Parse(fs, id)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatASTTree(&buf, prog, fs, "p.shr"); err != nil {
		t.Fatal(err)
	}
	tree := buf.String()
	for _, want := range []string{
		"Program p.shr",
		"├─ Import a.b [alias=c binding=c] (span: 1:1-",
		"└─ Func f [returns=int]",
		"   ├─ Params",
		"Param int x (span: 2:6-",
		"Compare > (span: 3:8-",
		"Then",
	} {
		if !strings.Contains(tree, want) {
			t.Errorf("tree lacks %q:\n%s", want, tree)
		}
	}

	buf.Reset()
	if err := FormatASTJSON(&buf, prog); err != nil {
		t.Fatal(err)
	}
	var root ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatal(err)
	}
	if root.Type != "Program" || len(root.Children) != 2 || root.Children[1].Text != "f" {
		t.Errorf("unexpected json root %+v", root)
	}
}
