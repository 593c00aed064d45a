package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"shroud/internal/ast"
	"shroud/internal/source"
)

const (
	defaultMaxSteps = 20_000_000
	defaultMaxDepth = 200
	cancelCheckMask = 1023
)

// Options configures VM execution.
type Options struct {
	Stdout   io.Writer       // destination of print; io.Discard if nil
	MaxSteps int             // statement+call budget; 0 means the default, negative disables the limit
	MaxDepth int             // call depth limit; 0 means the default
	Seed     int64           // seed of the random host module
	Files    *source.FileSet // used to resolve spans in trace output
	Trace    *Tracer         // optional statement tracer
}

// VM interprets one program. A VM is not safe for concurrent use.
type VM struct {
	opts    Options
	out     io.Writer
	globals map[string]Value
	stack   []*Frame
	steps   int
	rng     *rand.Rand
	ctx     context.Context
	curSpan source.Span
	eb      *errorBuilder

	localSets map[*ast.Function]map[string]bool
}

// Frame is a function activation.
type Frame struct {
	fn       *ast.Function
	locals   map[string]Value
	localSet map[string]bool
	callSpan source.Span
}

// New creates an interpreter with an empty global scope.
func New(opts Options) *VM {
	if opts.MaxSteps == 0 {
		opts.MaxSteps = defaultMaxSteps
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	vm := &VM{
		opts:    opts,
		out:     opts.Stdout,
		globals: make(map[string]Value),
		rng:     rand.New(rand.NewSource(opts.Seed)), //nolint:gosec // deterministic program-level randomness
		ctx:     context.Background(),
		curSpan: source.Synthetic(),

		localSets: make(map[*ast.Function]map[string]bool),
	}
	if vm.out == nil {
		vm.out = io.Discard
	}
	vm.eb = &errorBuilder{vm: vm}
	if opts.Trace != nil {
		opts.Trace.files = opts.Files
	}
	return vm
}

// Run executes the top-level statements of prog in order.
// On failure the returned error is a *VMError.
func (vm *VM) Run(ctx context.Context, prog *ast.Program) error {
	if ctx != nil {
		vm.ctx = ctx
	}
	if prog == nil {
		return errors.New("vm: nil program")
	}
	fl, vmErr := vm.execBlock(prog.Items)
	vm.stack = vm.stack[:0]
	if vmErr != nil {
		return vmErr
	}
	if fl.kind != flowNormal {
		return vm.eb.makeError(PanicBadCall, fmt.Sprintf("%s outside of its context", fl.kind))
	}
	return nil
}

// Global returns the value bound to a global name.
func (vm *VM) Global(name string) (Value, bool) {
	v, ok := vm.globals[name]
	return v, ok
}

// SetGlobal binds a global name.
func (vm *VM) SetGlobal(name string, v Value) {
	vm.globals[name] = v
}

// Call invokes the global function name with args after Run has defined it.
func (vm *VM) Call(name string, args ...Value) (Value, error) {
	callee, ok := vm.globals[name]
	if !ok {
		return Value{}, vm.eb.unbound(name)
	}
	base := len(vm.stack)
	res, vmErr := vm.callValue(callee, args, source.Synthetic())
	vm.stack = vm.stack[:base]
	if vmErr != nil {
		return Value{}, vmErr
	}
	return res, nil
}

// step charges one unit of the budget and polls the context from time to time.
func (vm *VM) step() *VMError {
	vm.steps++
	if vm.opts.MaxSteps > 0 && vm.steps > vm.opts.MaxSteps {
		return vm.eb.makeError(PanicStepLimit, fmt.Sprintf("step budget of %d exhausted", vm.opts.MaxSteps))
	}
	if vm.steps&cancelCheckMask == 0 {
		if err := vm.ctx.Err(); err != nil {
			return vm.eb.makeError(PanicCancelled, err.Error())
		}
	}
	return nil
}

// Steps returns how many budget units were consumed so far.
func (vm *VM) Steps() int {
	return vm.steps
}

func (vm *VM) top() *Frame {
	if len(vm.stack) == 0 {
		return nil
	}
	return vm.stack[len(vm.stack)-1]
}

func (vm *VM) lookup(name string) (Value, *VMError) {
	if fr := vm.top(); fr != nil && fr.localSet[name] {
		if v, ok := fr.locals[name]; ok {
			return v, nil
		}
		return Value{}, vm.eb.unboundLocal(name)
	}
	if v, ok := vm.globals[name]; ok {
		return v, nil
	}
	if b, ok := builtins[name]; ok {
		return Value{Kind: VKBuiltin, Builtin: b}, nil
	}
	return Value{}, vm.eb.unbound(name)
}

func (vm *VM) bind(name string, v Value) {
	if fr := vm.top(); fr != nil {
		fr.locals[name] = v
		return
	}
	vm.globals[name] = v
}
