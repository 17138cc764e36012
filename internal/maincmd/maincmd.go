// Package maincmd wires the Kiddou command-line tool: running a file,
// launching the REPL, and the scanner/parser/checker debug subcommands.
package maincmd

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "kiddou"

// Exit codes, per the entry-point contract: 0 success, 64 usage error, 65
// static (scan/parse/check) errors present, 75 an unhandled runtime error.
const (
	exitUsage        = 64
	exitCompileError = 65
	exitRuntimeError = 75
)

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<path>]
       %[1]s [<option>...] <command> <path>...
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<path>]
       %[1]s [<option>...] <command> <path>...
       %[1]s -h|--help
       %[1]s -v|--version

Tree-walking interpreter for the Kiddou expression language.

With no <path>, starts an interactive REPL reading one line at a time
from stdin. With a single <path>, reads and runs that file. More than
one positional argument without a <command> is a usage error.

The <command> can be one of:
       tokenize                  Run only the scanner phase and print
                                 the resulting token stream.
       parse                     Run the scanner and parser phases and
                                 print the resulting abstract syntax
                                 tree (AST).
       check                     Run the scanner, parser and checker
                                 phases and print the resulting AST,
                                 annotated with each block's captured
                                 names.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd is the top-level command, populated by mainer.Parser from the process
// arguments and environment.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

// debugCmds is the set of subcommand names recognized ahead of plain file
// execution; any other first positional argument is a path to run.
var debugCmds = map[string]bool{"tokenize": true, "parse": true, "check": true}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		// bare invocation: REPL
		return nil
	}

	if debugCmds[c.args[0]] {
		commands := buildCmds(c)
		c.cmdFn = commands[c.args[0]]
		if len(c.args[1:]) == 0 {
			return fmt.Errorf("%s: at least one file must be provided", c.args[0])
		}
		return nil
	}

	if len(c.args) > 1 {
		return fmt.Errorf("too many arguments: expected at most one file path")
	}

	// a single positional argument that isn't a known command: run it as a file
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(exitUsage)
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	if len(c.args) == 0 {
		return c.runREPL(ctx, stdio)
	}
	if c.cmdFn != nil {
		if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
			return mainer.ExitCode(exitCompileError)
		}
		return mainer.Success
	}
	return c.runFile(ctx, stdio, c.args[0])
}

// buildCmds maps debug subcommand names to the *Cmd methods implementing
// them, discovered by method signature rather than an explicit table.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
