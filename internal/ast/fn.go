package ast

import (
	"shroud/internal/source"
)

// TypeKind is the coarse declared type of a parameter or return value.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypeInt
	TypeStr
	TypeBytes
	TypeBool
)

func (k TypeKind) String() string {
	switch k {
	case TypeInt:
		return "int"
	case TypeStr:
		return "str"
	case TypeBytes:
		return "bytes"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// TypeOf maps an annotation name to its TypeKind. Any unrecognised
// annotation (or none) is TypeUnknown.
func TypeOf(annot string) TypeKind {
	switch annot {
	case "int":
		return TypeInt
	case "str":
		return TypeStr
	case "bytes":
		return TypeBytes
	case "bool":
		return TypeBool
	default:
		return TypeUnknown
	}
}

// Param is a function parameter with an optional annotation.
type Param struct {
	Name  string
	Annot string // raw annotation text, empty if none
	Span  source.Span
}

// Type returns the declared TypeKind of the parameter.
func (p Param) Type() TypeKind { return TypeOf(p.Annot) }

// Function is a top-level function definition.
type Function struct {
	Name    string
	Params  []Param
	Returns string // raw return annotation, empty if none
	Body    []*Stmt
	Span    source.Span
}

// ReturnType returns the declared TypeKind of the result.
func (f *Function) ReturnType() TypeKind { return TypeOf(f.Returns) }

// ParamIndex returns the position of the named parameter or -1.
func (f *Function) ParamIndex(name string) int {
	for i, p := range f.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}
