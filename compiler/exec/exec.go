package exec

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/bf/compiler/ir"
)

type (
	// Runtime is the machine a Program is executed against.
	// Storage size, cell width, pointer bounds and the I/O medium
	// are all up to the implementation.
	Runtime interface {
		MoveForward()
		MoveBackward()
		Increment()
		Decrement()
		Read()
		Write()
		IsZero() bool
	}

	// Failer is implemented by runtimes whose I/O can fail.
	// Err is checked after each Input and Output instruction.
	Failer interface {
		Err() error
	}

	Executor struct {
		// Limit is the number of non-noop instructions to execute
		// before giving up. Zero means no limit.
		Limit int64
	}
)

var ErrLimitExceeded = errors.New("instruction limit exceeded")

// Execute runs p until the cursor falls off the end.
// Loops run as long as rt says so.
func Execute(ctx context.Context, p *ir.Program, rt Runtime) error {
	var e Executor

	return e.Execute(ctx, p, rt)
}

func (e *Executor) Execute(ctx context.Context, p *ir.Program, rt Runtime) (err error) {
	tr := tlog.SpawnFromContext(ctx, "execute", "len", p.Len(), "limit", e.Limit)

	var steps int64

	defer func() {
		tr.Finish("steps", steps, "err", err)
	}()

	failer, _ := rt.(Failer)
	trace := tlog.If("exec_trace")

	n := p.Len()

	for pc := 0; pc < n; pc++ {
		x := p.At(pc)
		if x.Kind == ir.Noop {
			continue
		}

		if e.Limit > 0 && steps == e.Limit {
			return errors.Wrap(ErrLimitExceeded, "at %d after %d steps", pc, steps)
		}

		steps++

		if trace {
			tr.Printw("step", "pc", pc, "kind", x.Kind, "match", x.Match)
		}

		switch x.Kind {
		case ir.MoveForward:
			rt.MoveForward()
		case ir.MoveBackward:
			rt.MoveBackward()
		case ir.Increment:
			rt.Increment()
		case ir.Decrement:
			rt.Decrement()
		case ir.Output:
			rt.Write()
		case ir.Input:
			rt.Read()
		case ir.JumpIfZero:
			if rt.IsZero() {
				pc = x.Match
			}
		case ir.JumpIfNonZero:
			if !rt.IsZero() {
				pc = x.Match
			}
		}

		if failer == nil || x.Kind != ir.Output && x.Kind != ir.Input {
			continue
		}

		if err = failer.Err(); err != nil {
			return errors.Wrap(err, "%v at %d", x.Kind, pc)
		}
	}

	return nil
}
