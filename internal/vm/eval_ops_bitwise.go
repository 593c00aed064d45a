package vm

import (
	"math/big"

	"shroud/internal/ast"
)

// maxShift bounds << so a single expression cannot allocate unbounded memory.
const maxShift = 1 << 16

// evalBitwise: & | ^ << >> над целыми с бесконечным дополнительным кодом.
// big.Int реализует именно эту семантику для отрицательных чисел.
func (vm *VM) evalBitwise(op ast.BinaryOp, left, right Value) (Value, *VMError) {
	a, b, vmErr := vm.intOperands(op, left, right)
	if vmErr != nil {
		return Value{}, vmErr
	}
	res := new(big.Int)
	switch op {
	case ast.OpBitAnd:
		res.And(a, b)
	case ast.OpBitOr:
		res.Or(a, b)
	case ast.OpBitXor:
		res.Xor(a, b)
	case ast.OpShl, ast.OpShr:
		if b.Sign() < 0 {
			return Value{}, vm.eb.makeError(PanicBadValue, "negative shift count "+b.String())
		}
		if op == ast.OpShr {
			if !b.IsUint64() || b.Uint64() > maxShift {
				// сдвиг за пределы числа: остаётся только знак
				if a.Sign() < 0 {
					return MakeInt(-1), nil
				}
				return MakeInt(0), nil
			}
			res.Rsh(a, uint(b.Uint64()))
			break
		}
		if !b.IsUint64() || b.Uint64() > maxShift {
			return Value{}, vm.eb.makeError(PanicBadValue, "shift count "+b.String()+" too large")
		}
		res.Lsh(a, uint(b.Uint64()))
	}
	return MakeBigInt(res), nil
}
