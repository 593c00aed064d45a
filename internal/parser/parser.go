package parser

import (
	"slices"

	"shroud/internal/ast"
	"shroud/internal/diag"
	"shroud/internal/lexer"
	"shroud/internal/source"
	"shroud/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// context flags for statement parsing
type blockCtx struct {
	inFunc bool
	loops  int
	depth  int
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	lastKind token.Kind
	ctx      blockCtx
}

// ParseFile: входная точка для разбора одного файла.
// Диагностики лексера и парсера уходят в opts.Reporter.
func ParseFile(file *source.File, opts Options) *ast.Program {
	p := &Parser{file: file, opts: opts}
	p.lx = lexer.New(file, lexer.Options{Reporter: reporterFunc(func(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) {
		p.report(code, sev, sp, msg)
	})})
	p.lastSpan = p.lx.EmptySpan()
	return p.parseItems()
}

type reporterFunc func(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note)

func (f reporterFunc) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) {
	f(code, sev, sp, msg, notes)
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseItems: основной цикл верхнего уровня: пока не EOF, parseStmt.
func (p *Parser) parseItems() *ast.Program {
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		before := p.lx.Peek().Span.Start
		stmt, ok := p.parseStmt()
		if !ok {
			p.recover(before)
			continue
		}
		prog.Items = append(prog.Items, stmt)
	}
	return prog
}

// recover пропускает токены после ошибки и гарантирует продвижение вперёд.
func (p *Parser) recover(before uint32) {
	progressed := p.lx.Peek().Span.Start != before
	if progressed && (p.lastKind == token.Semicolon || p.lastKind == token.RBrace) {
		// statement уже дочитан до конца, пропускать нечего
		return
	}
	p.resyncStatement()
	if p.lx.Peek().Span.Start == before && !p.atOr(token.EOF, token.RBrace) {
		p.advance()
	}
}
