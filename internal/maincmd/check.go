package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/kiddou/lang/ast"
	"github.com/mna/kiddou/lang/checker"
	"github.com/mna/kiddou/lang/parser"
	"github.com/mna/mainer"
)

// Check runs the scanner, parser and checker over each file in args and
// prints the resulting AST (with each block's captured names resolved) to
// stdio.Stdout.
func (c *Cmd) Check(ctx context.Context, stdio mainer.Stdio, args []string) error {
	printer := ast.Printer{Output: stdio.Stdout, ShowPos: true}

	var hadErr bool
	for _, file := range args {
		src, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			hadErr = true
			continue
		}
		prog, err := parser.Parse(file, src)
		if err != nil {
			reportStaticErrors(stdio.Stderr, err)
			hadErr = true
			continue
		}
		if err := checker.Check(file, prog); err != nil {
			reportStaticErrors(stdio.Stderr, err)
			hadErr = true
			continue
		}
		if err := printer.Print(prog); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	if hadErr {
		return fmt.Errorf("check: errors were reported")
	}
	return nil
}
