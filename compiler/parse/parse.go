package parse

import (
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/bf/compiler/ir"
)

type (
	State struct {
		Name string

		b []byte

		// position of the next byte to scan
		pos  int
		line int
		col  int
	}

	ErrorKind int

	Error struct {
		Kind ErrorKind

		Pos  int
		Line int
		Col  int
	}
)

const (
	Success ErrorKind = iota
	BracketMismatch
	Generic
)

var (
	ErrBracketMismatch = Error{Kind: BracketMismatch}
	ErrGeneric         = Error{Kind: Generic}
)

var kinds = [256]ir.Kind{
	'>': ir.MoveForward,
	'<': ir.MoveBackward,
	'+': ir.Increment,
	'-': ir.Decrement,
	'.': ir.Output,
	',': ir.Input,
	'[': ir.JumpIfZero,
	']': ir.JumpIfNonZero,
}

func ParseFile(ctx context.Context, name string) (*ir.Program, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(data), "name", name)

	s := New(name, data)

	return s.Parse(ctx)
}

func Parse(ctx context.Context, text []byte) (*ir.Program, error) {
	return New("", text).Parse(ctx)
}

func New(name string, text []byte) *State {
	return &State{
		Name: name,
		b:    text,
		line: 1,
		col:  1,
	}
}

// Parse scans the whole text once and resolves bracket pairs as it goes.
// On failure no Program is returned and the Error tells where scanning stopped.
// Each call starts over from the beginning of the text.
func (s *State) Parse(ctx context.Context) (p *ir.Program, err error) {
	tr := tlog.SpawnFromContext(ctx, "parse", "name", s.Name, "size", len(s.b))
	defer func() {
		tr.Finish("err", err)
	}()

	s.pos = 0
	s.line, s.col = 1, 1

	code := make([]ir.Instr, 0, len(s.b))
	var open []int

	for s.pos < len(s.b) {
		c := s.b[s.pos]
		x := ir.Instr{Kind: kinds[c], Match: ir.NoMatch}

		switch x.Kind {
		case ir.JumpIfZero:
			open = append(open, len(code))
		case ir.JumpIfNonZero:
			if len(open) == 0 {
				return nil, s.error(BracketMismatch)
			}

			x.Match = open[len(open)-1]
			open = open[:len(open)-1]

			code[x.Match].Match = len(code)
		}

		code = append(code, x)

		s.advance(c)
	}

	if len(open) != 0 {
		tr.Printw("unclosed brackets", "depth", len(open), "innermost", open[len(open)-1])

		return nil, s.error(BracketMismatch)
	}

	return ir.Wrap(code), nil
}

func (s *State) advance(c byte) {
	s.pos++

	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *State) error(k ErrorKind) Error {
	return Error{
		Kind: k,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}

func (e Error) Error() string {
	return fmt.Sprintf("%v at %d:%d", e.Kind, e.Line, e.Col)
}

// Is matches errors of the same kind regardless of position.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)

	return ok && t.Kind == e.Kind
}

func (k ErrorKind) String() string {
	switch k {
	case Success:
		return "success"
	case BracketMismatch:
		return "bracket mismatch"
	case Generic:
		return "generic error"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}
