package vm

import (
	"fmt"

	"shroud/internal/ast"
	"shroud/internal/source"
)

type flowKind uint8

const (
	flowNormal flowKind = iota
	flowBreak
	flowContinue
	flowReturn
)

func (k flowKind) String() string {
	switch k {
	case flowBreak:
		return "break"
	case flowContinue:
		return "continue"
	case flowReturn:
		return "return"
	default:
		return "normal"
	}
}

// flow: результат выполнения блока: как из него вышли и, для return, с чем.
type flow struct {
	kind  flowKind
	value Value
}

func (vm *VM) execBlock(list []*ast.Stmt) (flow, *VMError) {
	for _, s := range list {
		fl, vmErr := vm.execStmt(s)
		if vmErr != nil || fl.kind != flowNormal {
			return fl, vmErr
		}
	}
	return flow{}, nil
}

func (vm *VM) execStmt(s *ast.Stmt) (flow, *VMError) {
	vm.curSpan = s.Span
	if vmErr := vm.step(); vmErr != nil {
		return flow{}, vmErr
	}
	if vm.opts.Trace != nil {
		vm.opts.Trace.TraceStmt(len(vm.stack), vm.funcName(), s)
	}

	switch d := s.Data.(type) {
	case ast.AssignData:
		val, vmErr := vm.evalExpr(d.Value)
		if vmErr != nil {
			return flow{}, vmErr
		}
		return flow{}, vm.assign(d.Target, val)
	case ast.IfData:
		test, vmErr := vm.evalExpr(d.Test)
		if vmErr != nil {
			return flow{}, vmErr
		}
		if test.Truthy() {
			return vm.execBlock(d.Then)
		}
		return vm.execBlock(d.Else)
	case ast.ReturnData:
		if d.Value == nil {
			return flow{kind: flowReturn}, nil
		}
		val, vmErr := vm.evalExpr(d.Value)
		if vmErr != nil {
			return flow{}, vmErr
		}
		return flow{kind: flowReturn, value: val}, nil
	case ast.WhileData:
		return vm.execWhile(s, d)
	case ast.BreakData:
		return flow{kind: flowBreak}, nil
	case ast.ContinueData:
		return flow{kind: flowContinue}, nil
	case ast.PassData:
		return flow{}, nil
	case ast.ExprStmtData:
		_, vmErr := vm.evalExpr(d.Expr)
		return flow{}, vmErr
	case ast.ImportData:
		return flow{}, vm.execImport(d)
	case ast.FromImportData:
		return flow{}, vm.execFromImport(d)
	case ast.FuncData:
		vm.bind(d.Func.Name, Value{Kind: VKFunc, Func: d.Func})
		return flow{}, nil
	default:
		return flow{}, vm.eb.makeError(PanicBadValue, fmt.Sprintf("cannot execute %s statement", s.Kind))
	}
}

func (vm *VM) execWhile(s *ast.Stmt, d ast.WhileData) (flow, *VMError) {
	for {
		vm.curSpan = s.Span
		test, vmErr := vm.evalExpr(d.Test)
		if vmErr != nil {
			return flow{}, vmErr
		}
		if !test.Truthy() {
			return flow{}, nil
		}
		fl, vmErr := vm.execBlock(d.Body)
		if vmErr != nil {
			return flow{}, vmErr
		}
		switch fl.kind {
		case flowBreak:
			return flow{}, nil
		case flowReturn:
			return fl, nil
		}
		if vmErr := vm.step(); vmErr != nil {
			return flow{}, vmErr
		}
	}
}

func (vm *VM) assign(target *ast.Expr, val Value) *VMError {
	switch t := target.Data.(type) {
	case ast.IdentData:
		vm.bind(t.Name, val)
		return nil
	case ast.IndexData:
		obj, vmErr := vm.evalExpr(t.Object)
		if vmErr != nil {
			return vmErr
		}
		idx, vmErr := vm.evalExpr(t.Index)
		if vmErr != nil {
			return vmErr
		}
		if obj.Kind != VKList {
			return vm.eb.typeMismatch("list as assignment target", obj.Kind.String())
		}
		i, vmErr := vm.indexOf(idx, len(obj.List.Elems))
		if vmErr != nil {
			return vmErr
		}
		obj.List.Elems[i] = val
		return nil
	default:
		return vm.eb.makeError(PanicBadValue, "cannot assign to "+target.Kind.String())
	}
}

func (vm *VM) funcName() string {
	if fr := vm.top(); fr != nil {
		return fr.fn.Name
	}
	return "<top>"
}

// callFunc выполняет пользовательскую функцию в новом кадре.
func (vm *VM) callFunc(fn *ast.Function, args []Value, callSpan source.Span) (Value, *VMError) {
	if len(args) != len(fn.Params) {
		return Value{}, vm.eb.arity(fn.Name, len(fn.Params), len(args))
	}
	if len(vm.stack) >= vm.opts.MaxDepth {
		return Value{}, vm.eb.makeError(PanicCallDepth, fmt.Sprintf("call depth limit %d exceeded", vm.opts.MaxDepth))
	}
	fr := &Frame{
		fn:       fn,
		locals:   make(map[string]Value, len(fn.Params)+4),
		localSet: vm.cachedLocals(fn),
		callSpan: callSpan,
	}
	for i, p := range fn.Params {
		fr.locals[p.Name] = args[i]
	}
	vm.stack = append(vm.stack, fr)
	fl, vmErr := vm.execBlock(fn.Body)
	if vmErr != nil {
		return Value{}, vmErr
	}
	vm.stack = vm.stack[:len(vm.stack)-1]
	vm.curSpan = callSpan
	return fl.value, nil
}
