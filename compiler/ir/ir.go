package ir

import (
	"strconv"

	"tlog.app/go/errors"
)

type (
	Kind uint8

	Instr struct {
		Kind  Kind
		Match int
	}

	// Program is read-only once built.
	// Instruction i corresponds to source byte i.
	Program struct {
		code []Instr
	}
)

const (
	Noop Kind = iota
	MoveForward
	MoveBackward
	Increment
	Decrement
	Output
	Input
	JumpIfZero
	JumpIfNonZero

	numKinds
)

// NoMatch is the Match of every non-jump instruction.
const NoMatch = -1

var ErrBadPairing = errors.New("bad bracket pairing")

var kindNames = [numKinds]string{
	Noop:          "noop",
	MoveForward:   "move_forward",
	MoveBackward:  "move_backward",
	Increment:     "increment",
	Decrement:     "decrement",
	Output:        "output",
	Input:         "input",
	JumpIfZero:    "jump_if_zero",
	JumpIfNonZero: "jump_if_non_zero",
}

// New builds a Program from instructions produced outside of the parser.
// The pairing of jumps is checked.
func New(code []Instr) (*Program, error) {
	err := Validate(code)
	if err != nil {
		return nil, err
	}

	return &Program{code: code}, nil
}

// Wrap takes ownership of code without checking it.
// The caller guarantees the pairing invariant.
func Wrap(code []Instr) *Program {
	return &Program{code: code}
}

func Validate(code []Instr) error {
	for i, x := range code {
		switch x.Kind {
		case JumpIfZero, JumpIfNonZero:
		default:
			if x.Kind >= numKinds {
				return errors.Wrap(ErrBadPairing, "unknown kind %d at %d", x.Kind, i)
			}

			continue
		}

		m := x.Match
		if m < 0 || m >= len(code) {
			return errors.Wrap(ErrBadPairing, "match %d out of range at %d", m, i)
		}

		if x.Kind == JumpIfZero && m <= i || x.Kind == JumpIfNonZero && m >= i {
			return errors.Wrap(ErrBadPairing, "%v at %d points the wrong way", x.Kind, i)
		}

		if y := code[m]; y.Match != i || y.Kind == x.Kind || y.Kind != JumpIfZero && y.Kind != JumpIfNonZero {
			return errors.Wrap(ErrBadPairing, "%v at %d is not paired back by %d", x.Kind, i, m)
		}
	}

	// mutual pointers alone allow crossing pairs: [ [ ] ] wired 0-2, 1-3
	var stack []int

	for i, x := range code {
		switch x.Kind {
		case JumpIfZero:
			stack = append(stack, i)
		case JumpIfNonZero:
			if len(stack) == 0 || stack[len(stack)-1] != x.Match {
				return errors.Wrap(ErrBadPairing, "crossing pair at %d", i)
			}

			stack = stack[:len(stack)-1]
		}
	}

	return nil
}

func (p *Program) Len() int {
	if p == nil {
		return 0
	}

	return len(p.code)
}

func (p *Program) At(i int) Instr { return p.code[i] }

// Code returns a copy of the instructions.
func (p *Program) Code() []Instr {
	if p == nil {
		return nil
	}

	return append([]Instr(nil), p.code...)
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) IsJump() bool { return k == JumpIfZero || k == JumpIfNonZero }
