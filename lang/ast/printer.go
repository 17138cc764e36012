package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer pretty-prints an AST as an indented, one-node-per-line dump.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// ShowPos includes each node's line:col span in the output when true.
	ShowPos bool
}

// Print walks n and writes its indented description to p.Output.
func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output, showPos: p.ShowPos}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w       io.Writer
	showPos bool
	depth   int
	err     error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}
	p.depth++
	p.printNode(n, p.depth-1)
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}
	prefix := strings.Repeat(". ", indent)
	if p.showPos {
		start, end := n.Span()
		_, p.err = fmt.Fprintf(p.w, "%s[%s:%s] %s\n", prefix, start, end, n)
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", prefix, n)
}
