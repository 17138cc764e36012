// Package interp implements Kiddou's tree-walking evaluator: the runtime
// value model, the two-tier environment, typed runtime errors, the
// pervasive root bindings, and the Interpreter that walks a checked
// Program's statements and expressions directly rather than compiling them.
package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mna/kiddou/lang/ast"
)

// Value is implemented by every runtime value a Kiddou program can produce.
// It is a closed, tagged sum (Undef, Bool, Int, Float, String, List,
// NativeFunction, Block, Module); callers switch on concrete type or on one
// of the capability interfaces below rather than on a class hierarchy.
type Value interface {
	// String is the canonical textual form print() uses.
	String() string
	// Type is a short type tag, e.g. "int", "block".
	Type() string
}

// Callable values may appear as the callee of a call expression.
type Callable interface {
	Value
	Call(args []Value) (Value, error)
}

// HasAttrs values support dotted attribute reads (x.f).
type HasAttrs interface {
	Value
	Attr(name string) (Value, error)
}

// HasSetField values additionally support dotted attribute assignment
// (x.f := v). Creating a new attribute through this path is never allowed:
// SetField only ever overwrites a name the value already holds.
type HasSetField interface {
	HasAttrs
	SetField(name string, val Value) error
}

// Indexable values support x[i] reads. A read past the bounds of the value
// (after resolving a negative index from the end) is not an error: it
// silently yields Undef, the forgiving-read half of List's read/write
// asymmetry.
type Indexable interface {
	Value
	Index(i int64) Value
	Len() int
}

// HasSetIndex values additionally support x[i] := v assignment, the strict
// half of the read/write asymmetry: a write past the bounds is an
// IndexOutOfBounds error rather than a silent no-op.
type HasSetIndex interface {
	Indexable
	SetIndex(i int64, v Value) error
}

// undefType is Undef's sole implementation; every Undef value compares
// equal to every other since it carries no data.
type undefType struct{}

// Undef is the distinguished absence value: the identity element most
// operators propagate through.
var Undef Value = undefType{}

func (undefType) String() string { return "undef" }
func (undefType) Type() string   { return "undef" }

// Bool is a boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "bool" }

// Int is a 64-bit two's-complement integer. The spec allows this as a
// documented simplification of "arbitrary precision": overflow wraps per Go
// semantics rather than promoting or erroring.
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) Type() string     { return "int" }

// Float is an IEEE-754 double.
type Float float64

func (f Float) String() string {
	switch {
	case math.IsNaN(float64(f)):
		return "nan"
	case math.IsInf(float64(f), 1):
		return "inf"
	case math.IsInf(float64(f), -1):
		return "-inf"
	}
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
func (Float) Type() string { return "float" }

// String is an immutable UTF-8 byte sequence.
type String string

func (s String) String() string { return string(s) }
func (String) Type() string     { return "string" }

// IsFalsey reports whether v is "falsey": Undef or Bool(false). Everything
// else, including 0, 0.0 and the empty string, is truthy.
func IsFalsey(v Value) bool {
	if v == Undef {
		return true
	}
	if b, ok := v.(Bool); ok {
		return !bool(b)
	}
	return false
}

// IsTruthy is the complement of IsFalsey.
func IsTruthy(v Value) bool { return !IsFalsey(v) }

// List is an ordered, mutable-in-place sequence of values.
type List struct {
	elems []Value
}

var (
	_ Value       = (*List)(nil)
	_ HasSetIndex = (*List)(nil)
)

// NewList returns a List owning elems; callers should not modify elems
// afterwards except through the returned List.
func NewList(elems []Value) *List { return &List{elems: elems} }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}
func (l *List) Type() string { return "list" }
func (l *List) Len() int     { return len(l.elems) }

// resolveListIndex turns a possibly-negative index into an in-bounds
// position, following original_source/src/container.py's Python-style
// wraparound: a negative index counts from the end of the list.
func resolveListIndex(i, n int64) (int64, bool) {
	r := i
	if r < 0 {
		r += n
	}
	if r < 0 || r >= n {
		return 0, false
	}
	return r, true
}

// canonicalIndex mirrors Python's `max(~idx, idx)`, used only to format the
// out-of-bounds error message the same way the original implementation
// does: the non-negative index implied by idx, whichever sign it has.
func canonicalIndex(i int64) int64 {
	if i >= 0 {
		return i
	}
	return ^i
}

func (l *List) Index(i int64) Value {
	r, ok := resolveListIndex(i, int64(len(l.elems)))
	if !ok {
		return Undef
	}
	return l.elems[r]
}

func (l *List) SetIndex(i int64, v Value) error {
	n := int64(len(l.elems))
	r, ok := resolveListIndex(i, n)
	if !ok {
		return &RuntimeError{
			Kind:    IndexOutOfBounds,
			Message: fmt.Sprintf("%d>=%d", canonicalIndex(i), n),
		}
	}
	l.elems[r] = v
	return nil
}

// NativeFunc is the signature of a Go function exposed to Kiddou code as a
// pervasive binding, e.g. print.
type NativeFunc func(args []Value) (Value, error)

// NativeFunction wraps a NativeFunc as a Callable value, Kiddou's
// counterpart to original_source/src/callable.py's LibraryFunction.
type NativeFunction struct {
	name string
	fn   NativeFunc
}

var _ Callable = (*NativeFunction)(nil)

// NewNativeFunction returns a Callable wrapping fn, reporting as name in its
// String form.
func NewNativeFunction(name string, fn NativeFunc) *NativeFunction {
	return &NativeFunction{name: name, fn: fn}
}

func (f *NativeFunction) String() string { return fmt.Sprintf("function(%s)", f.name) }
func (f *NativeFunction) Type() string   { return "function" }
func (f *NativeFunction) Call(args []Value) (Value, error) {
	return f.fn(args)
}

// blockState tracks a Block's lifecycle: Unexecuted before its first call,
// Executing for the duration of a call (including re-entrant calls), and
// Executed once a call has returned and its attribute store is readable.
type blockState int

const (
	blockUnexecuted blockState = iota
	blockExecuting
	blockExecuted
)

// Block is a user-defined Function that is also an Object: after
// invocation, the environment its body ran in remains reachable through
// dotted attribute access on the block value itself. node and
// captured are fixed at construction (see Interpreter.evalBlockExpr);
// state and env evolve across calls, always through Interpreter.callBlock.
type Block struct {
	interp   *Interpreter
	node     *ast.BlockExpr
	captured *Environment

	state blockState
	env   *Environment
}

var (
	_ Value       = (*Block)(nil)
	_ Callable    = (*Block)(nil)
	_ HasSetField = (*Block)(nil)
)

func (b *Block) String() string { return fmt.Sprintf("block(%p)", b) }
func (b *Block) Type() string   { return "block" }

func (b *Block) Call(args []Value) (Value, error) {
	return b.interp.callBlock(b)
}

func (b *Block) Attr(name string) (Value, error) {
	if b.state != blockExecuted {
		return nil, &RuntimeError{Kind: Attribute, Message: "undefined attribute: " + name}
	}
	ref, ok := b.env.localRef(name)
	if !ok {
		return nil, &RuntimeError{Kind: Attribute, Message: "undefined attribute: " + name}
	}
	return ref.Value, nil
}

func (b *Block) SetField(name string, val Value) error {
	if b.state != blockExecuted {
		return &RuntimeError{Kind: Attribute, Message: "undefined attribute: " + name}
	}
	return b.env.overwriteLocal(name, val)
}

// Module is an Object wrapping an environment; the top-level program is
// bound to the name "this" as a Module over the root environment.
type Module struct {
	name string
	env  *Environment
}

var (
	_ Value       = (*Module)(nil)
	_ HasSetField = (*Module)(nil)
)

// NewModule returns a Module wrapping env, named name for its String form.
func NewModule(name string, env *Environment) *Module {
	return &Module{name: name, env: env}
}

func (m *Module) String() string { return fmt.Sprintf("module(%s)", m.name) }
func (m *Module) Type() string   { return "module" }

func (m *Module) Attr(name string) (Value, error) {
	ref, ok := m.env.localRef(name)
	if !ok {
		return nil, &RuntimeError{Kind: Attribute, Message: "undefined attribute: " + name}
	}
	return ref.Value, nil
}

func (m *Module) SetField(name string, val Value) error {
	return m.env.overwriteLocal(name, val)
}
