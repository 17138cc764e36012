package interp

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// installPervasives seeds env with the built-in root bindings available to
// every Kiddou program before any user code runs, grounded on
// original_source/src/pervasives.py's pervasives dict. They are declared as
// immutable locals of the root environment rather than kept out of it
// entirely, since the checker's own isPervasive predicate (not scope
// membership) is what keeps them out of every Block's DependentNames.
func installPervasives(env *Environment, stdout io.Writer) {
	env.Declare("print", NewNativeFunction("print", printFunc(stdout)), false)
	env.Declare("inf", Float(math.Inf(1)), false)
	env.Declare("nan", Float(math.NaN()), false)
}

// printFunc builds the native print function: it stringifies every
// argument, joins them with a single space, writes the result followed by
// a newline to w, and always returns Undef.
func printFunc(w io.Writer) NativeFunc {
	return func(args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
		return Undef, nil
	}
}
