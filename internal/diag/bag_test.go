package diag

import (
	"strings"
	"testing"

	"shroud/internal/source"
)

func TestBagLimitAndErrors(t *testing.T) {
	b := NewBag(2)
	if !b.Add(New(SevWarning, SynExpectSemicolon, source.Span{}, "w")) {
		t.Fatal("first add rejected")
	}
	if b.HasErrors() {
		t.Fatal("warning counted as error")
	}
	b.Add(NewError(SynUnexpectedToken, source.Span{Start: 3, End: 4}, "e"))
	if b.Add(NewError(SynUnexpectedToken, source.Span{}, "overflow")) {
		t.Fatal("add past limit accepted")
	}
	if !b.HasErrors() || b.Len() != 2 {
		t.Fatalf("HasErrors=%v Len=%d", b.HasErrors(), b.Len())
	}
	first, ok := b.FirstError()
	if !ok || first.Message != "e" {
		t.Fatalf("FirstError = %+v, %v", first, ok)
	}
}

func TestBagSortDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(SynUnexpectedToken, source.Span{Start: 9, End: 10}, "late"))
	b.Add(NewError(LexUnknownChar, source.Span{Start: 1, End: 2}, "early"))
	b.Add(NewError(LexUnknownChar, source.Span{Start: 1, End: 2}, "early again"))
	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", len(items))
	}
	if items[0].Message != "early" || items[1].Message != "late" {
		t.Fatalf("unexpected order: %q, %q", items[0].Message, items[1].Message)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexBadNumber:      "LEX1004",
		SynInvalidTarget:  "SYN2008",
		ObfTargetNotFound: "OBF3001",
		IOLoadFileError:   "IO4001",
		CfgInvalidValue:   "CFG5001",
		RunError:          "RUN6001",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(2999).Title() != "Unknown error" {
		t.Errorf("unknown code title = %q", Code(2999).Title())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 3}
	r.Report(SynUnexpectedToken, SevError, sp, "x", nil)
	r.Report(SynUnexpectedToken, SevError, sp, "x", nil)
	ReportError(r, SynUnexpectedToken, sp, "y").WithNote(sp, "here").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if len(bag.Items()[1].Notes) != 1 {
		t.Fatalf("note lost")
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.shr", []byte("x = ;\n"))
	got := FormatShort([]Diagnostic{NewError(SynExpectExpression, source.Span{File: id, Start: 4, End: 5}, "expected expression")}, fs)
	want := "a.shr:1:5: ERROR SYN2004: expected expression\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{"": SevInfo, "INFO": SevInfo, "warn": SevWarning, " Warning ": SevWarning, "error": SevError}
	for in, want := range cases {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Errorf("ParseSeverity(%q) = %v, %v", in, got, err)
		}
		if in != "" && got.Label() != strings.ToLower(got.String()) {
			t.Errorf("%v: label %q", got, got.Label())
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatal("unknown severity accepted")
	}
	if Severity(7).Label() != "unknown" {
		t.Fatal("out-of-range severity must render as unknown")
	}
}

func TestBagAtLeast(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevInfo, ObfFlattenPassthru, source.Span{}, "loop kept"))
	b.Add(New(SevWarning, ObfEncodeSkipped, source.Span{}, "len rebound"))
	b.Add(NewError(ObfUnsupported, source.Span{}, "while"))

	if b.AtLeast(SevInfo) != b {
		t.Fatal("nothing dropped, expected the same bag")
	}
	warn := b.AtLeast(SevWarning)
	if warn.Len() != 2 || warn.Items()[0].Code != ObfEncodeSkipped {
		t.Fatalf("warning floor kept %+v", warn.Items())
	}
	if errs := b.AtLeast(SevError); errs.Len() != 1 || !errs.HasErrors() {
		t.Fatalf("error floor kept %d", errs.Len())
	}
	if b.Len() != 3 {
		t.Fatal("AtLeast must not modify the receiver")
	}
}
