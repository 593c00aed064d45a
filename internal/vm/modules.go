package vm

import (
	"math/big"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"shroud/internal/ast"
)

// Module is a host module reachable through import.
type Module struct {
	Path  string
	Attrs map[string]Value
}

var hostModules map[string]*Module

func init() {
	hostModules = make(map[string]*Module)
	register := func(path string, fns ...*Builtin) *Module {
		m := &Module{Path: path, Attrs: make(map[string]Value, len(fns))}
		for _, b := range fns {
			m.Attrs[b.Name] = Value{Kind: VKBuiltin, Builtin: b}
		}
		hostModules[path] = m
		return m
	}

	register("math",
		&Builtin{Name: "abs", Arity: 1, Fn: builtinAbs},
		&Builtin{Name: "min", Arity: -1, Fn: func(vm *VM, args []Value) (Value, *VMError) { return vm.extremum("min", args, -1) }},
		&Builtin{Name: "max", Arity: -1, Fn: func(vm *VM, args []Value) (Value, *VMError) { return vm.extremum("max", args, 1) }},
		&Builtin{Name: "pow", Arity: 2, Fn: mathPow},
		&Builtin{Name: "gcd", Arity: 2, Fn: mathGcd},
	)
	register("strings",
		&Builtin{Name: "upper", Arity: 1, Fn: strMap(strings.ToUpper)},
		&Builtin{Name: "lower", Arity: 1, Fn: strMap(strings.ToLower)},
		&Builtin{Name: "nfc", Arity: 1, Fn: strMap(norm.NFC.String)},
		&Builtin{Name: "repeat", Arity: 2, Fn: func(vm *VM, args []Value) (Value, *VMError) { return vm.evalMul(args[0], args[1]) }},
	)
	register("random",
		&Builtin{Name: "randint", Arity: 2, Fn: randomInt},
		&Builtin{Name: "shuffle", Arity: 1, Fn: randomShuffle},
	)
	utf8Mod := register("text.utf8",
		&Builtin{Name: "valid", Arity: 1, Fn: utf8Valid},
		&Builtin{Name: "runes", Arity: 1, Fn: builtinLen},
	)
	text := register("text")
	text.Attrs["utf8"] = Value{Kind: VKModule, Module: utf8Mod}
}

// HostModule reports whether path names a module provided by the interpreter.
func HostModule(path string) bool {
	_, ok := hostModules[path]
	return ok
}

func (vm *VM) module(path []string) (*Module, *VMError) {
	m, ok := hostModules[strings.Join(path, ".")]
	if !ok {
		return nil, vm.eb.makeError(PanicUnknownModule, "no module named "+strings.Join(path, "."))
	}
	return m, nil
}

// execImport: `import a.b` связывает a, `import a.b as x` связывает x с a.b.
func (vm *VM) execImport(d ast.ImportData) *VMError {
	m, vmErr := vm.module(d.Path)
	if vmErr != nil {
		return vmErr
	}
	if d.Alias != "" {
		vm.bind(d.Alias, Value{Kind: VKModule, Module: m})
		return nil
	}
	root, vmErr := vm.module(d.Path[:1])
	if vmErr != nil {
		return vmErr
	}
	vm.bind(d.Path[0], Value{Kind: VKModule, Module: root})
	return nil
}

func (vm *VM) execFromImport(d ast.FromImportData) *VMError {
	m, vmErr := vm.module(d.Module)
	if vmErr != nil {
		return vmErr
	}
	for _, n := range d.Names {
		v, ok := m.Attrs[n.Name]
		if !ok {
			return vm.eb.makeError(PanicUnknownModule, "cannot import "+n.Name+" from "+m.Path)
		}
		vm.bind(n.Binding(), v)
	}
	return nil
}

func (vm *VM) attr(obj Value, name string) (Value, *VMError) {
	if obj.Kind != VKModule {
		return Value{}, vm.eb.typeMismatch("module", obj.Kind.String())
	}
	v, ok := obj.Module.Attrs[name]
	if !ok {
		return Value{}, vm.eb.makeError(PanicUnknownModule, "module "+obj.Module.Path+" has no attribute "+name)
	}
	return v, nil
}

func strMap(f func(string) string) func(*VM, []Value) (Value, *VMError) {
	return func(vm *VM, args []Value) (Value, *VMError) {
		if args[0].Kind != VKStr {
			return Value{}, vm.eb.typeMismatch("str", args[0].Kind.String())
		}
		return MakeStr(f(string(args[0].Bytes))), nil
	}
}

func mathPow(vm *VM, args []Value) (Value, *VMError) {
	a, b, vmErr := vm.intOperands(ast.OpMul, args[0], args[1])
	if vmErr != nil {
		return Value{}, vmErr
	}
	if b.Sign() < 0 || !b.IsUint64() || b.Uint64() > maxShift {
		return Value{}, vm.eb.makeError(PanicBadValue, "pow exponent "+b.String()+" out of range")
	}
	return MakeBigInt(new(big.Int).Exp(a, b, nil)), nil
}

func mathGcd(vm *VM, args []Value) (Value, *VMError) {
	a, b, vmErr := vm.intOperands(ast.OpMod, args[0], args[1])
	if vmErr != nil {
		return Value{}, vmErr
	}
	return MakeBigInt(new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))), nil
}

func randomInt(vm *VM, args []Value) (Value, *VMError) {
	lo, hi, vmErr := vm.intOperands(ast.OpSub, args[0], args[1])
	if vmErr != nil {
		return Value{}, vmErr
	}
	if lo.Cmp(hi) > 0 {
		return Value{}, vm.eb.makeError(PanicBadValue, "randint: empty range")
	}
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, big.NewInt(1))
	return MakeBigInt(new(big.Int).Add(lo, new(big.Int).Rand(vm.rng, span))), nil
}

func randomShuffle(vm *VM, args []Value) (Value, *VMError) {
	if args[0].Kind != VKList {
		return Value{}, vm.eb.typeMismatch("list", args[0].Kind.String())
	}
	elems := args[0].List.Elems
	vm.rng.Shuffle(len(elems), func(i, j int) { elems[i], elems[j] = elems[j], elems[i] })
	return None(), nil
}

func utf8Valid(vm *VM, args []Value) (Value, *VMError) {
	if args[0].Kind != VKBytes && args[0].Kind != VKStr {
		return Value{}, vm.eb.typeMismatch("bytes", args[0].Kind.String())
	}
	return MakeBool(utf8.Valid(args[0].Bytes)), nil
}
