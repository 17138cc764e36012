package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/kiddou/lang/checker"
	"github.com/mna/kiddou/lang/interp"
	"github.com/mna/kiddou/lang/parser"
	"github.com/mna/mainer"
)

// runFile reads, parses, checks and runs the program at path, mapping each
// failure tier to its exit code.
func (c *Cmd) runFile(ctx context.Context, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.Failure
	}

	prog, err := parser.Parse(path, src)
	if err != nil {
		reportStaticErrors(stdio.Stderr, err)
		return mainer.ExitCode(exitCompileError)
	}
	if err := checker.Check(path, prog); err != nil {
		reportStaticErrors(stdio.Stderr, err)
		return mainer.ExitCode(exitCompileError)
	}

	in := interp.New(stdio.Stdout)
	if err := in.Run(prog); err != nil {
		reportRuntimeError(stdio.Stderr, err)
		return mainer.ExitCode(exitRuntimeError)
	}
	return mainer.Success
}

// replRead is one line read from stdin, or the terminal error/EOF that ended
// the reading goroutine. Bundling both into a single channel value (instead
// of two separate channels) avoids a race between them: select cannot favor
// whichever of two simultaneously-ready channels arrives first.
type replRead struct {
	line string
	err  error
	eof  bool
}

// runREPL reads one line at a time from stdio.Stdin, running each against a
// single interpreter instance whose top-level environment persists across
// lines. EOF prints "Exiting." and exits 0; an interrupt exits silently.
func (c *Cmd) runREPL(ctx context.Context, stdio mainer.Stdio) mainer.ExitCode {
	in := interp.New(stdio.Stdout)
	sess := checker.NewSession()

	reads := make(chan replRead)
	go func() {
		r := bufio.NewReader(stdio.Stdin)
		for {
			fmt.Fprint(stdio.Stdout, "> ")
			line, err := r.ReadString('\n')
			switch {
			case err == nil:
				reads <- replRead{line: line}
			case err == io.EOF:
				if line != "" {
					reads <- replRead{line: line}
				}
				reads <- replRead{eof: true}
				return
			default:
				reads <- replRead{err: err}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return mainer.Success
		case rd := <-reads:
			switch {
			case rd.err != nil:
				fmt.Fprintln(stdio.Stderr, rd.err)
				return mainer.Failure
			case rd.eof:
				fmt.Fprintln(stdio.Stdout, "Exiting.")
				return mainer.Success
			default:
				c.runREPLLine(stdio, in, sess, rd.line)
			}
		}
	}
}

// runREPLLine runs one line of REPL input, reporting (but never aborting
// on) any static or runtime error it produces. sess carries the checker's
// top-level scope forward across lines, alongside in's persistent
// environment.
func (c *Cmd) runREPLLine(stdio mainer.Stdio, in *interp.Interpreter, sess *checker.Session, line string) {
	prog, err := parser.Parse("<stdin>", []byte(line))
	if err != nil {
		reportStaticErrors(stdio.Stderr, err)
		return
	}
	if err := sess.Check("<stdin>", prog); err != nil {
		reportStaticErrors(stdio.Stderr, err)
		return
	}
	if err := in.Run(prog); err != nil {
		reportRuntimeError(stdio.Stderr, err)
	}
}
