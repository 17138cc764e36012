package interp

import (
	"fmt"

	"github.com/mna/kiddou/lang/token"
)

// ErrorKind tags the closed set of dynamic (runtime) error kinds the
// interpreter can raise, grounded one-to-one on
// original_source/src/exception.py's exception hierarchy.
type ErrorKind int

const (
	Type ErrorKind = iota
	Division
	Name
	Immutable
	Attribute
	IndexOutOfBounds
)

func (k ErrorKind) String() string {
	switch k {
	case Type:
		return "TypeException"
	case Division:
		return "DivisionException"
	case Name:
		return "NameException"
	case Immutable:
		return "ImmutableException"
	case Attribute:
		return "AttributeException"
	case IndexOutOfBounds:
		return "IndexOutOfBoundsException"
	default:
		return "RuntimeException"
	}
}

// RuntimeError is a dynamic interpreter error: a tagged kind, a message,
// and the source position of the statement or expression that raised it.
// The first RuntimeError encountered aborts the statement currently being
// executed; it is reported through the same position-formatted message the
// static (scan/parse/check) error tier uses.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Pos     token.Pos
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
