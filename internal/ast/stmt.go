package ast

import (
	"shroud/internal/source"
)

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtAssign represents target = value.
	StmtAssign StmtKind = iota
	// StmtIf represents if/else if/else.
	StmtIf
	// StmtReturn represents return with optional value.
	StmtReturn
	// StmtWhile represents a while loop.
	StmtWhile
	// StmtBreak represents break.
	StmtBreak
	// StmtContinue represents continue.
	StmtContinue
	// StmtPass represents the empty statement.
	StmtPass
	// StmtExpr represents an expression evaluated for its effects.
	StmtExpr
	// StmtImport represents import a.b.c [as x].
	StmtImport
	// StmtFromImport represents from a.b import x [as y], ...
	StmtFromImport
	// StmtFunc represents a function definition.
	StmtFunc
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtAssign:
		return "Assign"
	case StmtIf:
		return "If"
	case StmtReturn:
		return "Return"
	case StmtWhile:
		return "While"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtPass:
		return "Pass"
	case StmtExpr:
		return "Expr"
	case StmtImport:
		return "Import"
	case StmtFromImport:
		return "FromImport"
	case StmtFunc:
		return "Func"
	default:
		return "Unknown"
	}
}

// Stmt is a single statement node.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// IsStructured reports whether s is one of Assign, If, Return.
// Other kinds are opaque to passes that only decompose the structured subset.
func (s *Stmt) IsStructured() bool {
	switch s.Kind {
	case StmtAssign, StmtIf, StmtReturn:
		return true
	default:
		return false
	}
}

// AssignData holds data for StmtAssign. Target is an identifier or an index expression.
type AssignData struct {
	Target *Expr
	Value  *Expr
}

func (AssignData) stmtData() {}

// IfData holds data for StmtIf. `else if` chains are an If alone in Else.
type IfData struct {
	Test *Expr
	Then []*Stmt
	Else []*Stmt
}

func (IfData) stmtData() {}

// ReturnData holds data for StmtReturn. Value is nil for a bare return.
type ReturnData struct {
	Value *Expr
}

func (ReturnData) stmtData() {}

// WhileData holds data for StmtWhile.
type WhileData struct {
	Test *Expr
	Body []*Stmt
}

func (WhileData) stmtData() {}

// BreakData holds data for StmtBreak.
type BreakData struct{}

func (BreakData) stmtData() {}

// ContinueData holds data for StmtContinue.
type ContinueData struct{}

func (ContinueData) stmtData() {}

// PassData holds data for StmtPass.
type PassData struct{}

func (PassData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// ImportData holds data for StmtImport.
type ImportData struct {
	Path  []string // module path segments, at least one
	Alias string   // empty if no `as`
}

func (ImportData) stmtData() {}

// Binding returns the name the import introduces into the global scope.
// `import a.b` binds `a`; `import a.b as x` binds `x`.
func (d ImportData) Binding() string {
	if d.Alias != "" {
		return d.Alias
	}
	return d.Path[0]
}

// ImportName is one `name [as alias]` entry of a from-import.
type ImportName struct {
	Name  string
	Alias string
	Span  source.Span
}

// Binding returns the alias if present, the imported name otherwise.
func (n ImportName) Binding() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

// FromImportData holds data for StmtFromImport.
type FromImportData struct {
	Module []string
	Names  []ImportName
}

func (FromImportData) stmtData() {}

// FuncData holds data for StmtFunc.
type FuncData struct {
	Func *Function
}

func (FuncData) stmtData() {}
