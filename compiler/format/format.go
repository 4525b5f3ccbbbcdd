package format

import (
	"context"

	"github.com/slowlang/bf/compiler/back"
	"github.com/slowlang/bf/compiler/ir"
)

type (
	// Formatter prints canonical source text.
	// Comments are dropped, every bracket gets its own line
	// and loop bodies are indented with tabs.
	Formatter struct {
		b []byte
		d int

		open bool // a line of plain commands is in progress
	}
)

func Format(ctx context.Context, p *ir.Program) []byte {
	var f Formatter

	back.Compile(ctx, p, &f)

	return f.Bytes()
}

func (f *Formatter) MoveForward()  { f.cmd('>') }
func (f *Formatter) MoveBackward() { f.cmd('<') }
func (f *Formatter) Increment()    { f.cmd('+') }
func (f *Formatter) Decrement()    { f.cmd('-') }
func (f *Formatter) Write()        { f.cmd('.') }
func (f *Formatter) Read()         { f.cmd(',') }

func (f *Formatter) OpenLoop(src, match int) {
	f.endLine()

	f.b = app(f.b, f.d, "[\n")
	f.d++
}

func (f *Formatter) CloseLoop(src, match int) {
	f.endLine()

	if f.d > 0 {
		f.d--
	}

	f.b = app(f.b, f.d, "]\n")
}

func (f *Formatter) Bytes() []byte {
	f.endLine()

	return f.b
}

func (f *Formatter) cmd(c byte) {
	if !f.open {
		f.b = app(f.b, f.d, "")
		f.open = true
	}

	f.b = append(f.b, c)
}

func (f *Formatter) endLine() {
	if !f.open {
		return
	}

	f.b = append(f.b, '\n')
	f.open = false
}

func app(b []byte, d int, s string) []byte {
	for i := 0; i < d; i++ {
		b = append(b, '\t')
	}

	return append(b, s...)
}
