package maincmd

import (
	"fmt"
	"go/scanner"
	"io"

	"github.com/mna/kiddou/lang/interp"
)

// formatError renders one error in the shared static/dynamic format:
// `Error: "<msg>" on line <L>[, column <C>]`.
func formatError(msg string, line, col int) string {
	if col > 0 {
		return fmt.Sprintf("Error: %q on line %d, column %d", msg, line, col)
	}
	return fmt.Sprintf("Error: %q on line %d", msg, line)
}

// reportStaticErrors prints every error accumulated by the scanner, parser
// or checker. It reports whether err carried at least one error.
func reportStaticErrors(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	if list, ok := err.(scanner.ErrorList); ok {
		for _, e := range list {
			fmt.Fprintln(w, formatError(e.Msg, e.Pos.Line, e.Pos.Column))
		}
		return len(list) > 0
	}
	fmt.Fprintln(w, formatError(err.Error(), 0, 0))
	return true
}

// reportRuntimeError prints a single interpreter error in the shared format.
func reportRuntimeError(w io.Writer, err error) {
	if rerr, ok := err.(*interp.RuntimeError); ok {
		line, col := rerr.Pos.LineCol()
		fmt.Fprintln(w, formatError(rerr.Error(), line, col))
		return
	}
	fmt.Fprintln(w, formatError(err.Error(), 0, 0))
}
