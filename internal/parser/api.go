package parser

import (
	"fmt"

	"shroud/internal/ast"
	"shroud/internal/diag"
	"shroud/internal/source"
)

const defaultMaxErrors = 64

// ParseError reports that a program text is not well formed.
// First is the earliest error, Bag holds everything collected.
type ParseError struct {
	Path  string
	Pos   source.LineCol
	First diag.Diagnostic
	Bag   *diag.Bag
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Path, e.Pos.Line, e.Pos.Col, e.First.Code.ID(), e.First.Message)
}

// Parse разбирает файл id из fs. Любая ошибка лексера или парсера даёт *ParseError.
func Parse(fs *source.FileSet, id source.FileID) (*ast.Program, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("parser: unknown file id %d", id)
	}
	bag := diag.NewBag(defaultMaxErrors)
	prog := ParseFile(file, Options{MaxErrors: defaultMaxErrors, Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag})})
	if !bag.HasErrors() {
		return prog, nil
	}
	bag.Sort()
	first, _ := bag.FirstError()
	pos, _ := fs.Resolve(first.Primary)
	return nil, &ParseError{Path: file.Path, Pos: pos, First: first, Bag: bag}
}

// ParseString parses program text held in memory under a virtual file name.
func ParseString(name, text string) (*ast.Program, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(text))
	return Parse(fs, id)
}
