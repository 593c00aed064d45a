package vm

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"unicode/utf8"
)

// Builtin is a host function callable from programs.
type Builtin struct {
	Name  string
	Arity int // -1 for variadic
	Fn    func(vm *VM, args []Value) (Value, *VMError)
}

var builtins map[string]*Builtin

func init() {
	builtins = make(map[string]*Builtin)
	for _, b := range []*Builtin{
		{Name: "print", Arity: -1, Fn: builtinPrint},
		{Name: "len", Arity: 1, Fn: builtinLen},
		{Name: "str", Arity: 1, Fn: builtinStr},
		{Name: "int", Arity: 1, Fn: builtinInt},
		{Name: "bool", Arity: 1, Fn: func(_ *VM, args []Value) (Value, *VMError) { return MakeBool(args[0].Truthy()), nil }},
		{Name: "encode", Arity: 1, Fn: builtinEncode},
		{Name: "decode", Arity: 1, Fn: builtinDecode},
		{Name: "byte", Arity: 1, Fn: builtinByte},
		{Name: "push", Arity: 2, Fn: builtinPush},
		{Name: "abs", Arity: 1, Fn: builtinAbs},
		{Name: "min", Arity: -1, Fn: func(vm *VM, args []Value) (Value, *VMError) { return vm.extremum("min", args, -1) }},
		{Name: "max", Arity: -1, Fn: func(vm *VM, args []Value) (Value, *VMError) { return vm.extremum("max", args, 1) }},
		{Name: "type", Arity: 1, Fn: func(_ *VM, args []Value) (Value, *VMError) { return MakeStr(args[0].Kind.String()), nil }},
		{Name: "assert", Arity: -1, Fn: builtinAssert},
	} {
		builtins[b.Name] = b
	}
}

// IsBuiltin reports whether name resolves to a host function when unbound.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// BuiltinNames lists every builtin function name.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

func builtinPrint(vm *VM, args []Value) (Value, *VMError) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	if _, err := io.WriteString(vm.out, strings.Join(parts, " ")+"\n"); err != nil {
		return Value{}, vm.eb.makeError(PanicBadValue, "print: "+err.Error())
	}
	return None(), nil
}

func builtinLen(vm *VM, args []Value) (Value, *VMError) {
	switch v := args[0]; v.Kind {
	case VKStr:
		return MakeInt(int64(utf8.RuneCount(v.Bytes))), nil
	case VKBytes:
		return MakeInt(int64(len(v.Bytes))), nil
	case VKList:
		return MakeInt(int64(len(v.List.Elems))), nil
	default:
		return Value{}, vm.eb.typeMismatch("str, bytes or list", v.Kind.String())
	}
}

func builtinStr(_ *VM, args []Value) (Value, *VMError) {
	return MakeStr(args[0].String()), nil
}

func builtinInt(vm *VM, args []Value) (Value, *VMError) {
	switch v := args[0]; v.Kind {
	case VKInt:
		return v, nil
	case VKBool:
		if v.Bool {
			return MakeInt(1), nil
		}
		return MakeInt(0), nil
	case VKStr:
		n, ok := new(big.Int).SetString(strings.TrimSpace(string(v.Bytes)), 10)
		if !ok {
			return Value{}, vm.eb.makeError(PanicBadValue, fmt.Sprintf("invalid integer text %q", v.Bytes))
		}
		return MakeBigInt(n), nil
	default:
		return Value{}, vm.eb.typeMismatch("int, bool or str", v.Kind.String())
	}
}

func builtinEncode(vm *VM, args []Value) (Value, *VMError) {
	if args[0].Kind != VKStr {
		return Value{}, vm.eb.typeMismatch("str", args[0].Kind.String())
	}
	return MakeBytes(append([]byte(nil), args[0].Bytes...)), nil
}

func builtinDecode(vm *VM, args []Value) (Value, *VMError) {
	if args[0].Kind != VKBytes {
		return Value{}, vm.eb.typeMismatch("bytes", args[0].Kind.String())
	}
	if !utf8.Valid(args[0].Bytes) {
		return Value{}, vm.eb.makeError(PanicBadValue, "decode: invalid UTF-8")
	}
	return Value{Kind: VKStr, Bytes: append([]byte(nil), args[0].Bytes...)}, nil
}

func builtinByte(vm *VM, args []Value) (Value, *VMError) {
	v := args[0]
	if v.Kind != VKInt {
		return Value{}, vm.eb.typeMismatch("int", v.Kind.String())
	}
	n, ok := smallInt(v.Int)
	if !ok || n < 0 || n > 255 {
		return Value{}, vm.eb.makeError(PanicBadValue, "byte value "+v.Int.String()+" out of range 0..255")
	}
	return MakeBytes([]byte{byte(n)}), nil
}

func builtinPush(vm *VM, args []Value) (Value, *VMError) {
	if args[0].Kind != VKList {
		return Value{}, vm.eb.typeMismatch("list", args[0].Kind.String())
	}
	args[0].List.Elems = append(args[0].List.Elems, args[1])
	return None(), nil
}

func builtinAbs(vm *VM, args []Value) (Value, *VMError) {
	if args[0].Kind != VKInt {
		return Value{}, vm.eb.typeMismatch("int", args[0].Kind.String())
	}
	return MakeBigInt(new(big.Int).Abs(args[0].Int)), nil
}

// extremum реализует min/max по int-аргументам или по одному списку.
func (vm *VM) extremum(name string, args []Value, sign int) (Value, *VMError) {
	if len(args) == 1 && args[0].Kind == VKList {
		args = args[0].List.Elems
	}
	if len(args) == 0 {
		return Value{}, vm.eb.makeError(PanicBadCall, name+" of no values")
	}
	best := args[0]
	for _, a := range args {
		if a.Kind != VKInt || best.Kind != VKInt {
			return Value{}, vm.eb.typeMismatch("int", a.Kind.String())
		}
		if a.Int.Cmp(best.Int)*sign > 0 {
			best = a
		}
	}
	return best, nil
}

func builtinAssert(vm *VM, args []Value) (Value, *VMError) {
	if len(args) == 0 || len(args) > 2 {
		return Value{}, vm.eb.makeError(PanicBadCall, fmt.Sprintf("assert expects 1 or 2 arguments, got %d", len(args)))
	}
	if args[0].Truthy() {
		return None(), nil
	}
	msg := "assertion failed"
	if len(args) == 2 {
		msg += ": " + args[1].String()
	}
	return Value{}, vm.eb.makeError(PanicAssert, msg)
}
