package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/kiddou/lang/ast"
	"github.com/mna/kiddou/lang/parser"
	"github.com/mna/mainer"
)

// Parse runs the scanner and parser over each file in args and prints the
// resulting AST, one node per line, to stdio.Stdout.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	printer := ast.Printer{Output: stdio.Stdout, ShowPos: true}

	var hadErr bool
	for _, file := range args {
		prog, err := parseFile(stdio, file)
		if err != nil {
			hadErr = true
			continue
		}
		if err := printer.Print(prog); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	if hadErr {
		return fmt.Errorf("parse: errors were reported")
	}
	return nil
}

func parseFile(stdio mainer.Stdio, file string) (*ast.Program, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, err
	}
	prog, err := parser.Parse(file, src)
	if err != nil {
		reportStaticErrors(stdio.Stderr, err)
		return nil, err
	}
	return prog, nil
}
