package vm

import (
	"fmt"
	"math/big"

	"shroud/internal/ast"
	"shroud/internal/source"
)

func (vm *VM) evalExpr(e *ast.Expr) (Value, *VMError) {
	switch d := e.Data.(type) {
	case ast.LiteralData:
		return literalValue(d), nil
	case ast.IdentData:
		return vm.lookup(d.Name)
	case ast.BinaryData:
		left, vmErr := vm.evalExpr(d.Left)
		if vmErr != nil {
			return Value{}, vmErr
		}
		right, vmErr := vm.evalExpr(d.Right)
		if vmErr != nil {
			return Value{}, vmErr
		}
		return vm.evalBinary(d.Op, left, right)
	case ast.UnaryData:
		operand, vmErr := vm.evalExpr(d.Operand)
		if vmErr != nil {
			return Value{}, vmErr
		}
		return vm.evalUnary(d.Op, operand)
	case ast.CompareData:
		left, vmErr := vm.evalExpr(d.Left)
		if vmErr != nil {
			return Value{}, vmErr
		}
		right, vmErr := vm.evalExpr(d.Right)
		if vmErr != nil {
			return Value{}, vmErr
		}
		return vm.evalCompare(d.Op, left, right)
	case ast.BoolOpData:
		return vm.evalBoolOp(d)
	case ast.CallData:
		return vm.evalCall(e, d)
	case ast.IndexData:
		obj, vmErr := vm.evalExpr(d.Object)
		if vmErr != nil {
			return Value{}, vmErr
		}
		idx, vmErr := vm.evalExpr(d.Index)
		if vmErr != nil {
			return Value{}, vmErr
		}
		return vm.evalIndex(obj, idx)
	case ast.AttrData:
		obj, vmErr := vm.evalExpr(d.Object)
		if vmErr != nil {
			return Value{}, vmErr
		}
		return vm.attr(obj, d.Name)
	case ast.ListData:
		elems := make([]Value, len(d.Elems))
		for i, el := range d.Elems {
			v, vmErr := vm.evalExpr(el)
			if vmErr != nil {
				return Value{}, vmErr
			}
			elems[i] = v
		}
		return MakeList(elems...), nil
	default:
		return Value{}, vm.eb.makeError(PanicBadValue, fmt.Sprintf("cannot evaluate %s", e.Kind))
	}
}

func literalValue(d ast.LiteralData) Value {
	switch d.Kind {
	case ast.LitInt:
		return MakeBigInt(d.Int)
	case ast.LitStr:
		return Value{Kind: VKStr, Bytes: d.Bytes}
	case ast.LitBytes:
		return Value{Kind: VKBytes, Bytes: d.Bytes}
	case ast.LitBool:
		return MakeBool(d.Bool)
	default:
		return None()
	}
}

// evalBoolOp: короткое замыкание, результат всегда bool.
func (vm *VM) evalBoolOp(d ast.BoolOpData) (Value, *VMError) {
	for _, operand := range d.Operands {
		v, vmErr := vm.evalExpr(operand)
		if vmErr != nil {
			return Value{}, vmErr
		}
		t := v.Truthy()
		if d.Op == ast.BoolAnd && !t {
			return MakeBool(false), nil
		}
		if d.Op == ast.BoolOr && t {
			return MakeBool(true), nil
		}
	}
	return MakeBool(d.Op == ast.BoolAnd), nil
}

func (vm *VM) evalCall(e *ast.Expr, d ast.CallData) (Value, *VMError) {
	callee, vmErr := vm.evalExpr(d.Callee)
	if vmErr != nil {
		return Value{}, vmErr
	}
	args := make([]Value, len(d.Args))
	for i, a := range d.Args {
		v, vmErr := vm.evalExpr(a)
		if vmErr != nil {
			return Value{}, vmErr
		}
		args[i] = v
	}
	return vm.callValue(callee, args, vm.curSpanOr(e.Span))
}

func (vm *VM) curSpanOr(sp source.Span) source.Span {
	if sp.IsSynthetic() {
		return vm.curSpan
	}
	return sp
}

func (vm *VM) callValue(callee Value, args []Value, callSpan source.Span) (Value, *VMError) {
	if vmErr := vm.step(); vmErr != nil {
		return Value{}, vmErr
	}
	switch callee.Kind {
	case VKFunc:
		return vm.callFunc(callee.Func, args, callSpan)
	case VKBuiltin:
		b := callee.Builtin
		if b.Arity >= 0 && len(args) != b.Arity {
			return Value{}, vm.eb.arity(b.Name, b.Arity, len(args))
		}
		return b.Fn(vm, args)
	default:
		return Value{}, vm.eb.makeError(PanicBadCall, fmt.Sprintf("%s value is not callable", callee.Kind))
	}
}

func (vm *VM) evalIndex(obj, idx Value) (Value, *VMError) {
	switch obj.Kind {
	case VKList:
		i, vmErr := vm.indexOf(idx, len(obj.List.Elems))
		if vmErr != nil {
			return Value{}, vmErr
		}
		return obj.List.Elems[i], nil
	case VKBytes:
		i, vmErr := vm.indexOf(idx, len(obj.Bytes))
		if vmErr != nil {
			return Value{}, vmErr
		}
		return MakeInt(int64(obj.Bytes[i])), nil
	case VKStr:
		runes := []rune(string(obj.Bytes))
		i, vmErr := vm.indexOf(idx, len(runes))
		if vmErr != nil {
			return Value{}, vmErr
		}
		return MakeStr(string(runes[i])), nil
	default:
		return Value{}, vm.eb.typeMismatch("list, str or bytes", obj.Kind.String())
	}
}

// indexOf проверяет индекс; отрицательные индексы считаются с конца.
func (vm *VM) indexOf(idx Value, length int) (int, *VMError) {
	if idx.Kind != VKInt {
		return 0, vm.eb.typeMismatch("int index", idx.Kind.String())
	}
	i, ok := smallInt(idx.Int)
	if !ok {
		return 0, vm.eb.makeError(PanicOutOfBounds, "index "+idx.Int.String()+" out of range")
	}
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, vm.eb.outOfBounds(i, length)
	}
	return i, nil
}

// EvalExpr evaluates a side-effect free expression against env.
// Builtins are available; names missing from env are errors.
func EvalExpr(e *ast.Expr, env map[string]Value) (Value, error) {
	vm := New(Options{})
	for name, v := range env {
		vm.globals[name] = v
	}
	v, vmErr := vm.evalExpr(e)
	if vmErr != nil {
		return Value{}, vmErr
	}
	return v, nil
}

// BigValue converts an int result back to *big.Int.
func BigValue(v Value) (*big.Int, bool) {
	if v.Kind != VKInt {
		return nil, false
	}
	return v.Int, true
}
