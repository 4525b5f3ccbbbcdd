package analyze

import (
	"context"

	"github.com/slowlang/bf/compiler/back"
	"github.com/slowlang/bf/compiler/ir"
)

type (
	Stats struct {
		Len   int
		Noops int

		Counts map[ir.Kind]int

		Loops    int
		MaxDepth int
	}

	counter struct {
		s     *Stats
		depth int
	}
)

// Analyze counts instructions by walking the program
// through the same driver code generators use.
func Analyze(ctx context.Context, p *ir.Program) Stats {
	s := Stats{
		Len:    p.Len(),
		Counts: map[ir.Kind]int{},
	}

	back.Compile(ctx, p, &counter{s: &s})

	s.Noops = s.Len
	for _, n := range s.Counts {
		s.Noops -= n
	}

	return s
}

// Commands is the number of non-noop instructions.
func (s Stats) Commands() int { return s.Len - s.Noops }

func (c *counter) MoveForward()  { c.s.Counts[ir.MoveForward]++ }
func (c *counter) MoveBackward() { c.s.Counts[ir.MoveBackward]++ }
func (c *counter) Increment()    { c.s.Counts[ir.Increment]++ }
func (c *counter) Decrement()    { c.s.Counts[ir.Decrement]++ }
func (c *counter) Write()        { c.s.Counts[ir.Output]++ }
func (c *counter) Read()         { c.s.Counts[ir.Input]++ }

func (c *counter) OpenLoop(src, match int) {
	c.s.Counts[ir.JumpIfZero]++
	c.s.Loops++

	c.depth++
	c.s.MaxDepth = max(c.s.MaxDepth, c.depth)
}

func (c *counter) CloseLoop(src, match int) {
	c.s.Counts[ir.JumpIfNonZero]++

	c.depth--
}
