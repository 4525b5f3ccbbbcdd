package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/slowlang/bf/compiler/ir"
	"github.com/slowlang/bf/compiler/parse"
)

type (
	machine struct {
		cells [16]byte
		ptr   int

		in  []byte
		out []byte

		calls []string
	}

	failing struct {
		machine

		err error
	}
)

func TestExecuteOutput(t *testing.T) {
	m := run(t, "+++.")

	assert.Equal(t, []byte{3}, m.out)
}

func TestExecuteEmptyLoopSkipped(t *testing.T) {
	m := run(t, "[]")

	assert.Equal(t, []string{"is_zero"}, m.calls)
	assert.Empty(t, m.out)
}

func TestExecuteLoopOnce(t *testing.T) {
	m := run(t, "+[-]")

	assert.Equal(t, []string{"inc", "is_zero", "dec", "is_zero"}, m.calls)
	assert.Equal(t, byte(0), m.cells[0])
	assert.Empty(t, m.out)
}

func TestExecuteEmptyProgram(t *testing.T) {
	m := run(t, "")

	assert.Empty(t, m.calls)
}

func TestExecuteSkipsLoopBody(t *testing.T) {
	m := run(t, "[+++.]>+.")

	assert.Equal(t, []byte{1}, m.out)
	assert.Equal(t, 1, m.ptr)
}

func TestExecuteNested(t *testing.T) {
	// 3 * 4 into cell 1
	m := run(t, "+++[>++++<-]>.")

	assert.Equal(t, []byte{12}, m.out)
}

func TestExecuteInput(t *testing.T) {
	m := &machine{in: []byte("ab")}

	p := mustParse(t, ",.,+.")

	err := Execute(context.Background(), p, m)
	require.NoError(t, err)

	assert.Equal(t, []byte("ac"), m.out)
}

func TestExecuteNoopsInvisible(t *testing.T) {
	a := run(t, "++[>+++<-]>.")
	b := run(t, "plus two ++ loop [ > +++ < - ] > print .\n")

	assert.Equal(t, a.calls, b.calls)
	assert.Equal(t, a.out, b.out)
}

func TestExecuteLimit(t *testing.T) {
	p := mustParse(t, "+[]")

	e := Executor{Limit: 1000}

	err := e.Execute(context.Background(), p, &machine{})
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestExecuteLimitNotReached(t *testing.T) {
	// 4 non-noop instructions, comments are not counted
	p := mustParse(t, "a+b[c-d]e")

	e := Executor{Limit: 4}

	m := &machine{}
	err := e.Execute(context.Background(), p, m)
	require.NoError(t, err)

	e.Limit = 3

	err = e.Execute(context.Background(), p, &machine{})
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestExecuteFailerStops(t *testing.T) {
	broken := errors.New("broken pipe")

	m := &failing{err: broken}

	err := Execute(context.Background(), mustParse(t, "+.+.+."), m)
	assert.ErrorIs(t, err, broken)
	assert.Len(t, m.out, 1)
}

func run(t *testing.T, src string) *machine {
	t.Helper()

	m := &machine{}

	err := Execute(context.Background(), mustParse(t, src), m)
	require.NoError(t, err)

	return m
}

func mustParse(t *testing.T, src string) *ir.Program {
	t.Helper()

	p, err := parse.Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	return p
}

func (m *machine) MoveForward() {
	m.ptr++
	m.calls = append(m.calls, "right")
}

func (m *machine) MoveBackward() {
	m.ptr--
	m.calls = append(m.calls, "left")
}

func (m *machine) Increment() {
	m.cells[m.ptr]++
	m.calls = append(m.calls, "inc")
}

func (m *machine) Decrement() {
	m.cells[m.ptr]--
	m.calls = append(m.calls, "dec")
}

func (m *machine) Read() {
	m.calls = append(m.calls, "read")

	if len(m.in) == 0 {
		return
	}

	m.cells[m.ptr] = m.in[0]
	m.in = m.in[1:]
}

func (m *machine) Write() {
	m.calls = append(m.calls, "write")
	m.out = append(m.out, m.cells[m.ptr])
}

func (m *machine) IsZero() bool {
	m.calls = append(m.calls, "is_zero")
	return m.cells[m.ptr] == 0
}

func (f *failing) Err() error {
	if len(f.out) != 0 {
		return f.err
	}

	return nil
}
