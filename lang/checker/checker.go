// Package checker performs name resolution over a parsed Program: it
// verifies that every variable reference names a visible con/run binding,
// and it annotates each Block constructor with the set of enclosing-scope
// names its body depends on, so the interpreter can capture only what a
// Block actually needs rather than its entire surrounding environment.
package checker

import (
	"go/scanner"
	gotoken "go/token"

	"github.com/mna/kiddou/lang/ast"
	"github.com/mna/kiddou/lang/token"
)

// Check resolves every name reference in prog, reporting undefined
// variables and annotating each BlockExpr's DependentNames. filename is
// used only to label reported errors. The returned error, if non-nil, is a
// scanner.ErrorList value (an alias for go/scanner.ErrorList).
//
// Check starts from a fresh top-level scope on every call, appropriate for
// checking a whole file in one shot. A REPL, where each line must see the
// names declared by earlier lines, should use Session instead.
func Check(filename string, prog *ast.Program) error {
	return NewSession().Check(filename, prog)
}

// Session checks a sequence of programs against one persistent top-level
// scope, so names con/run-declared by one program remain visible to the
// next. This is what the REPL uses: the interpreter's environment already
// persists across lines, and the checker's scope must track it or it will
// report earlier lines' bindings as undefined.
type Session struct {
	scope *scope
}

// NewSession starts a checking session with a fresh top-level scope, bound
// to "this" exactly like Check's one-shot top level.
func NewSession() *Session {
	s := &Session{scope: newScope(nil)}
	s.scope.declare("this")
	return s
}

// Check resolves prog against the session's top-level scope, growing it
// with any new con/run declarations prog makes at that level.
func (sess *Session) Check(filename string, prog *ast.Program) error {
	c := checker{filename: filename, scope: sess.scope}
	c.checkStmts(prog.Stmts)
	sess.scope = c.scope
	c.errors.Sort()
	return c.errors.Err()
}

// isPervasive reports whether name is one of the built-in root bindings
// (print, inf, nan). Pervasive names are always visible but deliberately
// kept out of the scope chain, so they never show up in a Block's
// DependentNames: they are reachable from every environment directly,
// not captured from an enclosing one.
func isPervasive(name string) bool {
	switch name {
	case "print", "inf", "nan":
		return true
	default:
		return false
	}
}

type checker struct {
	filename string
	errors   scanner.ErrorList
	scope    *scope
}

// scope is a node in the chain of visible-names sets: one per enclosing
// Block, the outermost being the top-level program. It mirrors the
// VisibleNames chain of the original checker, generalized with the flat
// allVisible() view needed for dependent-name computation.
type scope struct {
	parent *scope
	names  map[string]bool
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]bool)}
}

func (s *scope) declare(name string) {
	s.names[name] = true
}

// declaredHere reports whether name was already declared directly in this
// scope (not an outer one), the rule that forbids redeclaring the same name
// twice in the same block while still permitting it to shadow an outer one.
func (s *scope) declaredHere(name string) bool {
	return s.names[name]
}

func (s *scope) has(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.names[name] {
			return true
		}
	}
	return false
}

// allVisible flattens the entire scope chain into a single name set, used to
// decide which of a Block's free variables actually come from its
// surrounding scope.
func (s *scope) allVisible() map[string]bool {
	out := make(map[string]bool)
	for sc := s; sc != nil; sc = sc.parent {
		for name := range sc.names {
			out[name] = true
		}
	}
	return out
}

func (c *checker) errorf(pos token.Pos, msg string) {
	line, col := pos.LineCol()
	c.errors.Add(gotoken.Position{Filename: c.filename, Line: line, Column: col}, msg)
}

// nameSet is the set of variable names referenced by a statement or
// expression, propagated upward so enclosing Blocks can tell which of their
// own free variables need to be captured from further out still.
type nameSet map[string]bool

func union(sets ...nameSet) nameSet {
	out := make(nameSet)
	for _, s := range sets {
		for name := range s {
			out[name] = true
		}
	}
	return out
}

func (c *checker) checkStmts(stmts []ast.Stmt) nameSet {
	used := make(nameSet)
	for _, s := range stmts {
		for name := range c.checkStmt(s) {
			used[name] = true
		}
	}
	return used
}

func (c *checker) checkStmt(stmt ast.Stmt) nameSet {
	switch s := stmt.(type) {
	case *ast.BadStmt:
		return nil

	case *ast.ConStmt:
		used := c.checkExpr(s.Expr)
		if c.scope.declaredHere(s.Name) {
			c.errorf(s.NamePos, "already declared in this scope: "+s.Name)
		}
		c.scope.declare(s.Name)
		return used

	case *ast.RunStmt:
		return c.checkRun(s)

	default:
		return nil
	}
}

func (c *checker) checkRun(s *ast.RunStmt) nameSet {
	used := c.checkExpr(s.Expr)

	if s.Receiver == nil {
		return used
	}

	switch recv := s.Receiver.(type) {
	case *ast.VariableExpr:
		if s.Reassign && !c.scope.has(recv.Name) && !isPervasive(recv.Name) {
			c.errorf(recv.Pos, "undefined variable: "+recv.Name)
		}
		used[recv.Name] = true
		// Reassignment (":=") mutates whatever scope already binds the name; it
		// must not declare a local shadow, or an outer name mutated from inside
		// a Block would wrongly look locally-declared and never end up free.
		if !s.Reassign {
			if c.scope.declaredHere(recv.Name) {
				c.errorf(recv.Pos, "already declared in this scope: "+recv.Name)
			}
			c.scope.declare(recv.Name)
		}

	default:
		// Index or Attribute receiver: the container/object must already be
		// visible, but this never introduces a new binding.
		for name := range c.checkExpr(recv) {
			used[name] = true
		}
	}
	return used
}

func (c *checker) checkExpr(expr ast.Expr) nameSet {
	switch e := expr.(type) {
	case *ast.BadExpr, *ast.LiteralExpr:
		return make(nameSet)

	case *ast.VariableExpr:
		if !c.scope.has(e.Name) && !isPervasive(e.Name) {
			c.errorf(e.Pos, "undefined variable: "+e.Name)
		}
		return nameSet{e.Name: true}

	case *ast.UnaryExpr:
		return c.checkExpr(e.Right)

	case *ast.BinaryExpr:
		return union(c.checkExpr(e.Left), c.checkExpr(e.Right))

	case *ast.CallExpr:
		used := c.checkExpr(e.Callee)
		for _, arg := range e.Args {
			used = union(used, c.checkExpr(arg))
		}
		return used

	case *ast.IndexExpr:
		return union(c.checkExpr(e.Container), c.checkExpr(e.Index))

	case *ast.AttributeExpr:
		// the attribute name itself is resolved dynamically at run time.
		return c.checkExpr(e.Object)

	case *ast.ParenExpr:
		return c.checkExpr(e.Expr)

	case *ast.SequenceExpr:
		used := make(nameSet)
		for _, el := range e.Elements {
			used = union(used, c.checkExpr(el))
		}
		return used

	case *ast.BlockExpr:
		return c.checkBlock(e)

	default:
		return make(nameSet)
	}
}

// checkBlock checks a Block constructor's body in its own child scope and
// computes its DependentNames: the subset of names free in the body (used
// but not declared locally) that are actually visible from the scope
// enclosing the Block. Names used but visible nowhere are reported as
// undefined by the recursive checkExpr/checkStmt calls themselves.
func (c *checker) checkBlock(b *ast.BlockExpr) nameSet {
	outerVisible := c.scope.allVisible()

	inner := newScope(c.scope)
	c.scope = inner
	// Every Block body runs with its own "this" bound to itself; declaring it
	// here means a reference to "this" is always satisfied locally and can
	// never end up free (so it is never captured, per the dependent-names
	// invariant).
	inner.declare("this")

	used := c.checkStmts(b.Stmts)
	if b.Tail != nil {
		used = union(used, c.checkExpr(b.Tail))
	}

	c.scope = inner.parent

	free := make(nameSet)
	for name := range used {
		if !inner.names[name] {
			free[name] = true
		}
	}

	dependent := make(map[string]bool)
	for name := range free {
		if outerVisible[name] {
			dependent[name] = true
		}
	}
	b.DependentNames = dependent

	return free
}
