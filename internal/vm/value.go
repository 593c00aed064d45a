package vm

import (
	"math/big"
	"slices"
	"strings"

	"shroud/internal/ast"
	"shroud/internal/format"
)

// ValueKind identifies the runtime type of a Value.
type ValueKind uint8

const (
	// VKNone represents the none value. The zero Value is none.
	VKNone ValueKind = iota
	// VKInt represents an arbitrary-precision integer.
	VKInt
	// VKBool represents a boolean value.
	VKBool
	// VKStr represents UTF-8 text.
	VKStr
	// VKBytes represents a raw byte string.
	VKBytes
	// VKList represents a mutable list shared by reference.
	VKList
	// VKFunc represents a user-defined function.
	VKFunc
	// VKBuiltin represents a host function.
	VKBuiltin
	// VKModule represents an imported host module.
	VKModule
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case VKNone:
		return "none"
	case VKInt:
		return "int"
	case VKBool:
		return "bool"
	case VKStr:
		return "str"
	case VKBytes:
		return "bytes"
	case VKList:
		return "list"
	case VKFunc:
		return "function"
	case VKBuiltin:
		return "builtin"
	case VKModule:
		return "module"
	default:
		return "unknown"
	}
}

// List is the shared backing store of a list value.
type List struct {
	Elems []Value
}

// Value is a single runtime value. Int values are never mutated in place.
type Value struct {
	Kind    ValueKind
	Int     *big.Int
	Bool    bool
	Bytes   []byte // VKStr (UTF-8) and VKBytes
	List    *List
	Func    *ast.Function
	Builtin *Builtin
	Module  *Module
}

// None returns the none value.
func None() Value { return Value{} }

// MakeInt wraps an int64.
func MakeInt(v int64) Value { return Value{Kind: VKInt, Int: big.NewInt(v)} }

// MakeBigInt wraps v without copying it.
func MakeBigInt(v *big.Int) Value { return Value{Kind: VKInt, Int: v} }

// MakeBool wraps a bool.
func MakeBool(v bool) Value { return Value{Kind: VKBool, Bool: v} }

// MakeStr wraps a Go string.
func MakeStr(s string) Value { return Value{Kind: VKStr, Bytes: []byte(s)} }

// MakeBytes wraps b without copying it.
func MakeBytes(b []byte) Value { return Value{Kind: VKBytes, Bytes: b} }

// MakeList builds a fresh list value.
func MakeList(elems ...Value) Value {
	return Value{Kind: VKList, List: &List{Elems: elems}}
}

// Truthy reports the boolean interpretation of v.
func (v Value) Truthy() bool {
	switch v.Kind {
	case VKNone:
		return false
	case VKInt:
		return v.Int.Sign() != 0
	case VKBool:
		return v.Bool
	case VKStr, VKBytes:
		return len(v.Bytes) > 0
	case VKList:
		return len(v.List.Elems) > 0
	default:
		return true
	}
}

// Equal is structural equality; values of different kinds are never equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case VKNone:
		return true
	case VKInt:
		return v.Int.Cmp(o.Int) == 0
	case VKBool:
		return v.Bool == o.Bool
	case VKStr, VKBytes:
		return string(v.Bytes) == string(o.Bytes)
	case VKList:
		return slices.EqualFunc(v.List.Elems, o.List.Elems, Value.Equal)
	case VKFunc:
		return v.Func == o.Func
	case VKBuiltin:
		return v.Builtin == o.Builtin
	case VKModule:
		return v.Module == o.Module
	default:
		return false
	}
}

// String renders v the way print shows it: str values raw, everything else as Repr.
func (v Value) String() string {
	if v.Kind == VKStr {
		return string(v.Bytes)
	}
	return v.Repr()
}

// Repr renders v as a literal where one exists.
func (v Value) Repr() string {
	switch v.Kind {
	case VKNone:
		return "none"
	case VKInt:
		return v.Int.String()
	case VKBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case VKStr:
		return format.QuoteStr(v.Bytes)
	case VKBytes:
		return format.QuoteBytes(v.Bytes)
	case VKList:
		parts := make([]string, len(v.List.Elems))
		for i, e := range v.List.Elems {
			parts[i] = e.Repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VKFunc:
		return "<fn " + v.Func.Name + ">"
	case VKBuiltin:
		return "<builtin " + v.Builtin.Name + ">"
	case VKModule:
		return "<module " + v.Module.Path + ">"
	default:
		return "<invalid>"
	}
}
