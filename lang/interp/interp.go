package interp

import (
	"fmt"
	"io"
	"math"

	"github.com/mna/kiddou/lang/ast"
	"github.com/mna/kiddou/lang/token"
)

// Interpreter walks a checked Program's statements against a running
// Environment, producing side effects through Run statements and values
// through expression evaluation. It keeps a stack of current environments
// so a Block call can swap in its own invocation environment and guarantee
// restoration on every exit path, including errors, per design note
// "current-environment swap... implement via a stack discipline".
type Interpreter struct {
	globals *Environment
	envs    []*Environment
}

// New returns an Interpreter whose root environment is seeded with the
// pervasive bindings (print, inf, nan) and with "this" bound to a Module
// wrapping that same root environment, mirroring how every Block binds
// "this" to itself inside its own invocation environment. Native print
// writes to stdout.
func New(stdout io.Writer) *Interpreter {
	root := NewEnvironment()
	installPervasives(root, stdout)

	in := &Interpreter{globals: root, envs: []*Environment{root}}
	mod := NewModule("main", root)
	root.Declare("this", mod, false)
	return in
}

// withPos fills in err's position when it arrived without one: Environment
// and List operations raise a RuntimeError with no notion of where in the
// source the operation came from, so the interpreter attaches it at the
// call site, which does know.
func withPos(err error, pos token.Pos) error {
	if err == nil {
		return nil
	}
	if rerr, ok := err.(*RuntimeError); ok && rerr.Pos.Unknown() {
		rerr.Pos = pos
	}
	return err
}

func (in *Interpreter) env() *Environment { return in.envs[len(in.envs)-1] }
func (in *Interpreter) push(e *Environment) { in.envs = append(in.envs, e) }
func (in *Interpreter) pop()                { in.envs = in.envs[:len(in.envs)-1] }

// Run executes every statement of prog in order against the interpreter's
// current environment. It stops and returns the first runtime error
// encountered, leaving the environment as of the statement that failed.
func (in *Interpreter) Run(prog *ast.Program) error {
	for _, stmt := range prog.Stmts {
		if err := in.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.BadStmt:
		return nil
	case *ast.ConStmt:
		return in.execCon(s)
	case *ast.RunStmt:
		return in.execRun(s)
	default:
		return nil
	}
}

func (in *Interpreter) execCon(s *ast.ConStmt) error {
	val, err := in.evalExpr(s.Expr)
	if err != nil {
		return err
	}
	in.env().Declare(s.Name, val, false)
	return nil
}

func (in *Interpreter) execRun(s *ast.RunStmt) error {
	val, err := in.evalExpr(s.Expr)
	if err != nil {
		return err
	}

	if s.Receiver == nil {
		return nil
	}

	switch recv := s.Receiver.(type) {
	case *ast.VariableExpr:
		if s.Reassign {
			return withPos(in.env().Overwrite(recv.Name, val), recv.Pos)
		}
		in.env().Declare(recv.Name, val, true)
		return nil

	case *ast.IndexExpr:
		container, err := in.evalExpr(recv.Container)
		if err != nil {
			return err
		}
		idxVal, err := in.evalExpr(recv.Index)
		if err != nil {
			return err
		}
		idx, ok := idxVal.(Int)
		if !ok {
			pos, _ := recv.Index.Span()
			return &RuntimeError{Kind: Type, Message: "list index must be an int", Pos: pos}
		}
		setter, ok := container.(HasSetIndex)
		if !ok {
			pos, _ := recv.Container.Span()
			return &RuntimeError{Kind: Type, Message: "value is not indexable: " + container.Type(), Pos: pos}
		}
		pos, _ := recv.Span()
		return withPos(setter.SetIndex(int64(idx), val), pos)

	case *ast.AttributeExpr:
		obj, err := in.evalExpr(recv.Object)
		if err != nil {
			return err
		}
		setter, ok := obj.(HasSetField)
		if !ok {
			pos, _ := recv.Object.Span()
			return &RuntimeError{Kind: Type, Message: "value has no attributes: " + obj.Type(), Pos: pos}
		}
		pos, _ := recv.Span()
		return withPos(setter.SetField(recv.Name, val), pos)

	default:
		return nil
	}
}

func (in *Interpreter) evalExpr(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.BadExpr:
		return Undef, nil
	case *ast.LiteralExpr:
		return in.evalLiteral(e)
	case *ast.VariableExpr:
		return in.evalVariable(e)
	case *ast.UnaryExpr:
		return in.evalUnary(e)
	case *ast.BinaryExpr:
		return in.evalBinary(e)
	case *ast.CallExpr:
		return in.evalCall(e)
	case *ast.IndexExpr:
		return in.evalIndex(e)
	case *ast.AttributeExpr:
		return in.evalAttribute(e)
	case *ast.ParenExpr:
		return in.evalExpr(e.Expr)
	case *ast.SequenceExpr:
		return in.evalSequence(e)
	case *ast.BlockExpr:
		return in.evalBlockExpr(e)
	default:
		return Undef, nil
	}
}

func (in *Interpreter) evalLiteral(e *ast.LiteralExpr) (Value, error) {
	switch e.Tok {
	case token.UNDEF:
		return Undef, nil
	case token.TRUE:
		return Bool(true), nil
	case token.FALSE:
		return Bool(false), nil
	case token.INT:
		return Int(e.Val.Int), nil
	case token.FLOAT:
		return Float(e.Val.Float), nil
	case token.STRING:
		return String(e.Val.Str), nil
	default:
		return Undef, nil
	}
}

func (in *Interpreter) evalVariable(e *ast.VariableExpr) (Value, error) {
	if val, ok := in.env().Get(e.Name); ok {
		return val, nil
	}
	// Pervasive names (print, inf, nan) live only in the root environment's
	// locals and are deliberately never captured into a Block's own
	// environment (they are not in any Block's DependentNames), so they must
	// be reachable here independently of the current environment chain.
	if val, ok := in.globals.Get(e.Name); ok {
		return val, nil
	}
	return nil, &RuntimeError{Kind: Name, Message: "undefined variable: " + e.Name, Pos: e.Pos}
}

func (in *Interpreter) evalUnary(e *ast.UnaryExpr) (Value, error) {
	right, err := in.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}
	if right == Undef {
		return Undef, nil
	}

	switch e.Op {
	case token.MINUS:
		switch v := right.(type) {
		case Int:
			return -v, nil
		case Float:
			return -v, nil
		default:
			return nil, &RuntimeError{Kind: Type, Message: "- (unary)", Pos: e.OpPos}
		}
	case token.BANG:
		if b, ok := right.(Bool); ok {
			return !b, nil
		}
		return nil, &RuntimeError{Kind: Type, Message: "! (unary)", Pos: e.OpPos}
	}
	return Undef, nil
}

func (in *Interpreter) evalBinary(e *ast.BinaryExpr) (Value, error) {
	switch e.Op {
	case token.SEMI: // piece: left if defined, else right
		left, err := in.evalExpr(e.Left)
		if err != nil {
			return nil, err
		}
		if left != Undef {
			return left, nil
		}
		return in.evalExpr(e.Right)

	case token.QUESTION: // domain: right is the guard, evaluated first
		right, err := in.evalExpr(e.Right)
		if err != nil {
			return nil, err
		}
		if IsFalsey(right) {
			return Undef, nil
		}
		return in.evalExpr(e.Left)

	case token.OR:
		left, err := in.evalExpr(e.Left)
		if err != nil {
			return nil, err
		}
		if IsTruthy(left) {
			return left, nil
		}
		return in.evalExpr(e.Right)

	case token.AND:
		left, err := in.evalExpr(e.Left)
		if err != nil {
			return nil, err
		}
		if IsFalsey(left) {
			return left, nil
		}
		return in.evalExpr(e.Right)
	}

	left, err := in.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}
	if left == Undef || right == Undef {
		return Undef, nil
	}

	switch e.Op {
	case token.PLUS:
		return in.evalAdd(e, left, right)
	case token.MINUS:
		return in.evalArith(e, left, right, "-",
			func(a, b int64) int64 { return a - b },
			func(a, b float64) float64 { return a - b })
	case token.STAR:
		return in.evalArith(e, left, right, "*",
			func(a, b int64) int64 { return a * b },
			func(a, b float64) float64 { return a * b })
	case token.SLASH:
		return in.evalDivide(e, left, right)
	case token.DBLSLASH:
		return in.evalIDivide(e, left, right)
	case token.PERCENT:
		return in.evalModulus(e, left, right)
	case token.CARET:
		return in.evalPower(e, left, right)
	case token.LESS, token.LESSEQ, token.GREATER, token.GREATEREQ:
		return in.evalCompare(e, left, right)
	case token.EQUAL:
		return Bool(valuesEqual(left, right)), nil
	case token.NOTEQUAL:
		return Bool(!valuesEqual(left, right)), nil
	}
	return Undef, nil
}

// numericValue reports v's float64 value if v is Int or Float.
func numericValue(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	default:
		return 0, false
	}
}

func (in *Interpreter) typeErrAt(e *ast.BinaryExpr, label string) error {
	pos, _ := e.Span()
	return &RuntimeError{Kind: Type, Message: label, Pos: pos}
}

func (in *Interpreter) divErrAt(e *ast.BinaryExpr, msg string) error {
	pos, _ := e.Span()
	return &RuntimeError{Kind: Division, Message: msg, Pos: pos}
}

func (in *Interpreter) evalAdd(e *ast.BinaryExpr, left, right Value) (Value, error) {
	if li, ok := left.(Int); ok {
		if ri, ok := right.(Int); ok {
			return li + ri, nil
		}
	}
	if lf, lok := numericValue(left); lok {
		if rf, rok := numericValue(right); rok {
			return Float(lf + rf), nil
		}
	}
	if ls, ok := left.(String); ok {
		if rs, ok := right.(String); ok {
			return ls + rs, nil
		}
	}
	return nil, in.typeErrAt(e, "+")
}

func (in *Interpreter) evalArith(e *ast.BinaryExpr, left, right Value, label string,
	intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (Value, error) {
	if li, ok := left.(Int); ok {
		if ri, ok := right.(Int); ok {
			return Int(intOp(int64(li), int64(ri))), nil
		}
	}
	if lf, lok := numericValue(left); lok {
		if rf, rok := numericValue(right); rok {
			return Float(floatOp(lf, rf)), nil
		}
	}
	return nil, in.typeErrAt(e, label)
}

// evalDivide implements true division: always a Float. Go's native IEEE-754
// float division already produces the zero-divisor behavior the spec calls
// for (NaN when the numerator is 0 or NaN, signed infinity otherwise), so no
// special-casing is needed here.
func (in *Interpreter) evalDivide(e *ast.BinaryExpr, left, right Value) (Value, error) {
	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		return nil, in.typeErrAt(e, "/")
	}
	return Float(lf / rf), nil
}

// evalIDivide implements floor division, which always yields an Int
// regardless of the operand types.
func (in *Interpreter) evalIDivide(e *ast.BinaryExpr, left, right Value) (Value, error) {
	// Int/Int stays in integer arithmetic: routing it through float64 loses
	// precision for magnitudes beyond 2^53 and can even overflow int64 on
	// conversion back (e.g. MaxInt64 // 1).
	if li, ok := left.(Int); ok {
		if ri, ok := right.(Int); ok {
			if ri == 0 {
				return nil, in.divErrAt(e, "cannot integer divide by 0")
			}
			q := int64(li) / int64(ri)
			if (int64(li)%int64(ri) != 0) && ((int64(li) < 0) != (int64(ri) < 0)) {
				q--
			}
			return Int(q), nil
		}
	}

	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		return nil, in.typeErrAt(e, "//")
	}
	if rf == 0 {
		return nil, in.divErrAt(e, "cannot integer divide by 0")
	}
	q := math.Floor(lf / rf)
	// math.MaxInt64 (2^63-1) has no exact float64 representation and rounds
	// up to 2^63 on conversion, so the upper bound must be written as the
	// power of two itself or a q of exactly 2^63 would slip through.
	if math.IsInf(q, 0) || math.IsNaN(q) || q >= 9223372036854775808.0 || q < math.MinInt64 {
		return nil, in.divErrAt(e, fmt.Sprintf("cannot integer divide into %s", left.String()))
	}
	return Int(int64(q)), nil
}

// evalModulus follows Python's % convention (the sign of the result
// matches the divisor, not the dividend), for both Int and Float operands.
// Neither Go's native % nor math.Mod matches this, so both cases use a
// small floor-mod correction.
func (in *Interpreter) evalModulus(e *ast.BinaryExpr, left, right Value) (Value, error) {
	if li, ok := left.(Int); ok {
		if ri, ok := right.(Int); ok {
			if ri == 0 {
				return nil, in.divErrAt(e, "cannot integer divide by 0")
			}
			return Int(floorModInt(int64(li), int64(ri))), nil
		}
	}

	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		return nil, in.typeErrAt(e, "%")
	}
	if rf == 0 {
		if lf == 0 || math.IsNaN(lf) {
			return Float(math.NaN()), nil
		}
		return Float(math.Copysign(math.Inf(1), lf)), nil
	}
	return Float(floorModFloat(lf, rf)), nil
}

func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func floorModFloat(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// evalPower: Int^Int with a non-negative exponent stays an Int; a negative
// integer exponent switches to Float power rather than replicating the
// original implementation's auto-promotion-to-float quirk as an error path.
// Any other numeric combination is Float via math.Pow, whose own NaN result
// for an invalid combination (e.g. a negative base with a fractional
// exponent) needs no further handling.
func (in *Interpreter) evalPower(e *ast.BinaryExpr, left, right Value) (Value, error) {
	if li, ok := left.(Int); ok {
		if ri, ok := right.(Int); ok {
			if ri >= 0 {
				return Int(intPow(int64(li), int64(ri))), nil
			}
			return Float(math.Pow(float64(li), float64(ri))), nil
		}
	}

	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		return nil, in.typeErrAt(e, "^")
	}
	return Float(math.Pow(lf, rf)), nil
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func (in *Interpreter) evalCompare(e *ast.BinaryExpr, left, right Value) (Value, error) {
	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		return nil, in.typeErrAt(e, e.Op.String())
	}
	switch e.Op {
	case token.LESS:
		return Bool(lf < rf), nil
	case token.LESSEQ:
		return Bool(lf <= rf), nil
	case token.GREATER:
		return Bool(lf > rf), nil
	case token.GREATEREQ:
		return Bool(lf >= rf), nil
	}
	return Undef, nil
}

// valuesEqual compares two defined (non-Undef) values. Two values of
// different primitive kinds compare unequal; composite values (List,
// Block, Module, NativeFunction) compare by identity.
func valuesEqual(left, right Value) bool {
	switch l := left.(type) {
	case Bool:
		r, ok := right.(Bool)
		return ok && l == r
	case Int:
		r, ok := right.(Int)
		return ok && l == r
	case Float:
		r, ok := right.(Float)
		return ok && l == r
	case String:
		r, ok := right.(String)
		return ok && l == r
	default:
		return left == right
	}
}

func (in *Interpreter) evalCall(e *ast.CallExpr) (Value, error) {
	callee, err := in.evalExpr(e.Callee)
	if err != nil {
		return nil, err
	}
	callable, ok := callee.(Callable)
	if !ok {
		pos, _ := e.Callee.Span()
		return nil, &RuntimeError{Kind: Type, Message: "value is not callable: " + callee.Type(), Pos: pos}
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return callable.Call(args)
}

func (in *Interpreter) evalIndex(e *ast.IndexExpr) (Value, error) {
	container, err := in.evalExpr(e.Container)
	if err != nil {
		return nil, err
	}
	idxVal, err := in.evalExpr(e.Index)
	if err != nil {
		return nil, err
	}
	idx, ok := idxVal.(Int)
	if !ok {
		pos, _ := e.Index.Span()
		return nil, &RuntimeError{Kind: Type, Message: "list index must be an int", Pos: pos}
	}
	indexable, ok := container.(Indexable)
	if !ok {
		pos, _ := e.Container.Span()
		return nil, &RuntimeError{Kind: Type, Message: "value is not indexable: " + container.Type(), Pos: pos}
	}
	return indexable.Index(int64(idx)), nil
}

func (in *Interpreter) evalAttribute(e *ast.AttributeExpr) (Value, error) {
	obj, err := in.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}
	attrs, ok := obj.(HasAttrs)
	if !ok {
		pos, _ := e.Object.Span()
		return nil, &RuntimeError{Kind: Type, Message: "value has no attributes: " + obj.Type(), Pos: pos}
	}
	pos, _ := e.Span()
	val, err := attrs.Attr(e.Name)
	return val, withPos(err, pos)
}

func (in *Interpreter) evalSequence(e *ast.SequenceExpr) (Value, error) {
	elems := make([]Value, len(e.Elements))
	for i, el := range e.Elements {
		v, err := in.evalExpr(el)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return NewList(elems), nil
}

// evalBlockExpr constructs a Block value: it does not run the body. The
// captured environment retains exactly block.DependentNames from the
// current environment, per the checker's closure-capture analysis.
func (in *Interpreter) evalBlockExpr(e *ast.BlockExpr) (Value, error) {
	captured := newChildEnvironment(in.env().CopyRetain(e.DependentNames))
	return &Block{interp: in, node: e, captured: captured, state: blockUnexecuted}, nil
}

// callBlock runs b's body in a fresh environment seeded from its captured
// environment, with "this" bound to b itself. Re-entrant calls (b calling
// itself) each start fresh from the captured bindings, never from a
// previous call's invocation environment; only the most recently completed
// call's environment is retained, as b's attribute store.
func (in *Interpreter) callBlock(b *Block) (Value, error) {
	// b.captured has empty locals by construction (see evalBlockExpr), so its
	// own captured map already is exactly the retained references; each call
	// gets a fresh locals map sharing that same captured map.
	env := newChildEnvironment(b.captured.captured)
	env.Declare("this", b, false)

	b.state = blockExecuting
	in.push(env)
	defer func() {
		in.pop()
		b.env = env
		b.state = blockExecuted
	}()

	for _, stmt := range b.node.Stmts {
		if err := in.execStmt(stmt); err != nil {
			return nil, err
		}
	}
	if b.node.Tail != nil {
		return in.evalExpr(b.node.Tail)
	}
	return Undef, nil
}
