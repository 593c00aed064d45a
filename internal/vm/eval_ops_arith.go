package vm

import (
	"bytes"
	"math/big"

	"shroud/internal/ast"
)

const maxRepeatLen = 1 << 24

func (vm *VM) evalBinary(op ast.BinaryOp, left, right Value) (Value, *VMError) {
	switch op {
	case ast.OpAdd:
		return vm.evalAdd(left, right)
	case ast.OpMul:
		return vm.evalMul(left, right)
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr:
		return vm.evalBitwise(op, left, right)
	}

	a, b, vmErr := vm.intOperands(op, left, right)
	if vmErr != nil {
		return Value{}, vmErr
	}
	switch op {
	case ast.OpSub:
		return MakeBigInt(new(big.Int).Sub(a, b)), nil
	case ast.OpDiv, ast.OpMod:
		if b.Sign() == 0 {
			return Value{}, vm.eb.divisionByZero()
		}
		q, r := floorDivMod(a, b)
		if op == ast.OpDiv {
			return MakeBigInt(q), nil
		}
		return MakeBigInt(r), nil
	default:
		return Value{}, vm.eb.operandMismatch(op.String(), left, right)
	}
}

// evalAdd: сложение int, конкатенация str/bytes/list.
func (vm *VM) evalAdd(left, right Value) (Value, *VMError) {
	if left.Kind != right.Kind {
		return Value{}, vm.eb.operandMismatch("+", left, right)
	}
	switch left.Kind {
	case VKInt:
		return MakeBigInt(new(big.Int).Add(left.Int, right.Int)), nil
	case VKStr, VKBytes:
		out := make([]byte, 0, len(left.Bytes)+len(right.Bytes))
		out = append(out, left.Bytes...)
		out = append(out, right.Bytes...)
		return Value{Kind: left.Kind, Bytes: out}, nil
	case VKList:
		elems := make([]Value, 0, len(left.List.Elems)+len(right.List.Elems))
		elems = append(elems, left.List.Elems...)
		elems = append(elems, right.List.Elems...)
		return MakeList(elems...), nil
	default:
		return Value{}, vm.eb.operandMismatch("+", left, right)
	}
}

// evalMul: int*int, а также повтор str/bytes на неотрицательное число.
func (vm *VM) evalMul(left, right Value) (Value, *VMError) {
	if left.Kind == VKInt && right.Kind == VKInt {
		return MakeBigInt(new(big.Int).Mul(left.Int, right.Int)), nil
	}
	if (left.Kind == VKStr || left.Kind == VKBytes) && right.Kind == VKInt {
		n, ok := smallInt(right.Int)
		if !ok || n < 0 || n > maxRepeatLen || n*len(left.Bytes) > maxRepeatLen {
			return Value{}, vm.eb.makeError(PanicBadValue, "repeat count "+right.Int.String()+" out of range")
		}
		return Value{Kind: left.Kind, Bytes: bytes.Repeat(left.Bytes, n)}, nil
	}
	return Value{}, vm.eb.operandMismatch("*", left, right)
}

func (vm *VM) intOperands(op ast.BinaryOp, left, right Value) (*big.Int, *big.Int, *VMError) {
	if left.Kind != VKInt || right.Kind != VKInt {
		return nil, nil, vm.eb.operandMismatch(op.String(), left, right)
	}
	return left.Int, right.Int, nil
}

// floorDivMod: деление с округлением к -inf; остаток имеет знак делителя.
func floorDivMod(a, b *big.Int) (*big.Int, *big.Int) {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && r.Sign() != b.Sign() {
		q.Sub(q, big.NewInt(1))
		r.Add(r, b)
	}
	return q, r
}

func (vm *VM) evalUnary(op ast.UnaryOp, v Value) (Value, *VMError) {
	switch op {
	case ast.OpNot:
		return MakeBool(!v.Truthy()), nil
	case ast.OpNeg:
		if v.Kind != VKInt {
			return Value{}, vm.eb.typeMismatch("int operand of unary -", v.Kind.String())
		}
		return MakeBigInt(new(big.Int).Neg(v.Int)), nil
	case ast.OpInvert:
		if v.Kind != VKInt {
			return Value{}, vm.eb.typeMismatch("int operand of ~", v.Kind.String())
		}
		return MakeBigInt(new(big.Int).Not(v.Int)), nil
	default:
		return Value{}, vm.eb.makeError(PanicBadValue, "unknown unary operator")
	}
}
