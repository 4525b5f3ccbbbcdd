package back

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/bf/compiler/ir"
)

type (
	// Emitter is a code generation target.
	// Loop callbacks get the position of the bracket and of its pair,
	// so targets with labels or structured loops need no pairing of their own.
	Emitter interface {
		MoveForward()
		MoveBackward()
		Increment()
		Decrement()
		Read()
		Write()
		OpenLoop(src, match int)
		CloseLoop(src, match int)
	}
)

// Compile feeds p to e in one forward pass. Noops emit nothing.
func Compile(ctx context.Context, p *ir.Program, e Emitter) {
	tr := tlog.SpawnFromContext(ctx, "back: compile", "len", p.Len())
	defer tr.Finish()

	n := p.Len()

	for i := 0; i < n; i++ {
		x := p.At(i)

		switch x.Kind {
		case ir.MoveForward:
			e.MoveForward()
		case ir.MoveBackward:
			e.MoveBackward()
		case ir.Increment:
			e.Increment()
		case ir.Decrement:
			e.Decrement()
		case ir.Output:
			e.Write()
		case ir.Input:
			e.Read()
		case ir.JumpIfZero:
			e.OpenLoop(i, x.Match)
		case ir.JumpIfNonZero:
			e.CloseLoop(i, x.Match)
		}
	}
}
