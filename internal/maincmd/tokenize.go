package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/kiddou/lang/scanner"
	"github.com/mna/kiddou/lang/token"
	"github.com/mna/mainer"
)

// Tokenize runs the scanner over each file in args and prints the resulting
// token stream to stdio.Stdout, one token per line.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var hadErr bool
	for _, file := range args {
		if err := tokenizeFile(stdio, file); err != nil {
			hadErr = true
		}
	}
	if hadErr {
		return fmt.Errorf("tokenize: errors were reported")
	}
	return nil
}

func tokenizeFile(stdio mainer.Stdio, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	var (
		s    scanner.Scanner
		val  token.Value
		msgs []string
	)
	s.Init(src, func(pos token.Position, msg string) {
		msgs = append(msgs, formatError(msg, pos.Line, pos.Col))
	})

	for {
		tok := s.Scan(&val)
		if val.Raw != "" {
			fmt.Fprintf(stdio.Stdout, "%s %s %q\n", val.Pos, tok, val.Raw)
		} else {
			fmt.Fprintf(stdio.Stdout, "%s %s\n", val.Pos, tok)
		}
		if tok == token.EOF {
			break
		}
	}

	for _, msg := range msgs {
		fmt.Fprintln(stdio.Stderr, msg)
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%s: %d scan error(s)", file, len(msgs))
	}
	return nil
}
