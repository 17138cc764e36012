package interp

import "github.com/dolthub/swiss"

// A Reference is a named binding cell: a value plus a mutability flag. Two
// Environments that share the same Reference pointer (because one captured
// it from the other) observe each other's writes through it, which is how
// Block closures alias outer mutable state rather than merely copying it.
type Reference struct {
	Value   Value
	Mutable bool
}

// Environment is Kiddou's two-tier name-to-reference mapping: a locals map
// for names introduced directly here, and a captured map of references
// shared with an outer scope (read-only relative to overwriteLocal, but
// still writable through Overwrite, since mutating a shared cell is exactly
// how closures observe outer state changing). Lookup consults locals first,
// then captured, grounded on original_source/src/environment.py's
// Reference/bind/overwrite/get trio.
type Environment struct {
	locals   *swiss.Map[string, *Reference]
	captured *swiss.Map[string, *Reference]
}

// NewEnvironment returns an environment with no captured bindings: the root
// environment created once at interpreter start-up.
func NewEnvironment() *Environment {
	return &Environment{
		locals:   swiss.NewMap[string, *Reference](0),
		captured: swiss.NewMap[string, *Reference](0),
	}
}

// newChildEnvironment returns an environment whose captured map is exactly
// captured (shared, not copied) and whose locals start empty. This is the
// fresh invocation environment built at the start of every Block call.
func newChildEnvironment(captured *swiss.Map[string, *Reference]) *Environment {
	return &Environment{
		locals:   swiss.NewMap[string, *Reference](0),
		captured: captured,
	}
}

// CopyRetain returns a new captured map suitable for seeding a Block's own
// invocation environments: every name in names is resolved against e
// (locals first, then e's own captured map) and copied in by reference, so
// aliasing and mutation visibility survive nested capture. The result holds
// only the names listed in names that e can resolve; any other binding of
// e, including ones e itself captured, is not carried over.
func (e *Environment) CopyRetain(names map[string]bool) *swiss.Map[string, *Reference] {
	out := swiss.NewMap[string, *Reference](uint32(len(names)))
	for name := range names {
		if ref, ok := e.locals.Get(name); ok {
			out.Put(name, ref)
			continue
		}
		if ref, ok := e.captured.Get(name); ok {
			out.Put(name, ref)
		}
	}
	return out
}

// Declare introduces name in e's own locals, shadowing any outer binding of
// the same name for lookups against e.
func (e *Environment) Declare(name string, val Value, mutable bool) {
	e.locals.Put(name, &Reference{Value: val, Mutable: mutable})
}

// Get looks up name, consulting locals then captured bindings.
func (e *Environment) Get(name string) (Value, bool) {
	if ref, ok := e.locals.Get(name); ok {
		return ref.Value, true
	}
	if ref, ok := e.captured.Get(name); ok {
		return ref.Value, true
	}
	return nil, false
}

// Overwrite assigns to an existing binding, locals first then captured. It
// reports a Name error if name is undefined anywhere visible, an Immutable
// error if the binding exists but was declared with con.
func (e *Environment) Overwrite(name string, val Value) error {
	if ref, ok := e.locals.Get(name); ok {
		return overwriteRef(ref, name, val)
	}
	if ref, ok := e.captured.Get(name); ok {
		return overwriteRef(ref, name, val)
	}
	return &RuntimeError{Kind: Name, Message: "undefined variable: " + name}
}

func overwriteRef(ref *Reference, name string, val Value) error {
	if !ref.Mutable {
		return &RuntimeError{Kind: Immutable, Message: "cannot reassign a con binding: " + name}
	}
	ref.Value = val
	return nil
}

// localRef returns the Reference bound to name directly in e's own locals,
// without consulting captured bindings. Attribute access only ever sees a
// Block or Module's own body-level bindings, never anything it closed over.
func (e *Environment) localRef(name string) (*Reference, bool) {
	return e.locals.Get(name)
}

// overwriteLocal assigns to an existing local binding only, translating an
// absent name into an Attribute error rather than a Name error (mirroring
// original_source/src/object.py's get_attr/set_attr, which fold a failed
// name lookup into "undefined attribute" since this path is only ever
// reached through dotted attribute assignment, which cannot create a new
// attribute).
func (e *Environment) overwriteLocal(name string, val Value) error {
	ref, ok := e.locals.Get(name)
	if !ok {
		return &RuntimeError{Kind: Attribute, Message: "undefined attribute: " + name}
	}
	if !ref.Mutable {
		return &RuntimeError{Kind: Immutable, Message: "cannot reassign a con binding: " + name}
	}
	ref.Value = val
	return nil
}
