package asm

import (
	"github.com/nikandfor/hacked/hfmt"
)

type (
	// Listing is a flat labelled rendering of a program.
	// Loops become conditional jumps between labels named after
	// source positions, so the listing maps back to the source text.
	Listing struct {
		b []byte
	}
)

func New() *Listing { return &Listing{} }

func (l *Listing) MoveForward()  { l.op("right") }
func (l *Listing) MoveBackward() { l.op("left") }
func (l *Listing) Increment()    { l.op("inc") }
func (l *Listing) Decrement()    { l.op("dec") }
func (l *Listing) Write()        { l.op("out") }
func (l *Listing) Read()         { l.op("in") }

func (l *Listing) OpenLoop(src, match int) {
	l.b = hfmt.Appendf(l.b, "L%d:\tjz\tL%d\n", src, match)
}

func (l *Listing) CloseLoop(src, match int) {
	l.b = hfmt.Appendf(l.b, "L%d:\tjnz\tL%d\n", src, match)
}

func (l *Listing) Bytes() []byte { return l.b }

func (l *Listing) op(name string) {
	l.b = append(l.b, '\t')
	l.b = append(l.b, name...)
	l.b = append(l.b, '\n')
}
