package vm

import (
	"bytes"

	"shroud/internal/ast"
)

func (vm *VM) evalCompare(op ast.CompareOp, left, right Value) (Value, *VMError) {
	switch op {
	case ast.CmpEq:
		return MakeBool(left.Equal(right)), nil
	case ast.CmpNe:
		return MakeBool(!left.Equal(right)), nil
	}

	var c int
	switch {
	case left.Kind == VKInt && right.Kind == VKInt:
		c = left.Int.Cmp(right.Int)
	case left.Kind == right.Kind && (left.Kind == VKStr || left.Kind == VKBytes):
		c = bytes.Compare(left.Bytes, right.Bytes)
	default:
		return Value{}, vm.eb.operandMismatch(op.String(), left, right)
	}

	switch op {
	case ast.CmpLt:
		return MakeBool(c < 0), nil
	case ast.CmpLe:
		return MakeBool(c <= 0), nil
	case ast.CmpGt:
		return MakeBool(c > 0), nil
	default:
		return MakeBool(c >= 0), nil
	}
}
