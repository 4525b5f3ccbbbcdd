package tape

import (
	"bufio"
	"io"

	"tlog.app/go/errors"
)

type (
	// Tape is a fixed array of byte cells with a data pointer.
	// The pointer is clamped to the array bounds and cells wrap modulo 256.
	Tape struct {
		cells []byte
		ptr   int

		r *bufio.Reader
		w *bufio.Writer

		err error
	}
)

const DefaultSize = 30000

func New(size int, r io.Reader, w io.Writer) *Tape {
	if size <= 0 {
		size = DefaultSize
	}

	t := &Tape{
		cells: make([]byte, size),
	}

	if r != nil {
		t.r = bufio.NewReader(r)
	}

	if w != nil {
		t.w = bufio.NewWriter(w)
	}

	return t
}

func (t *Tape) MoveForward() {
	if t.ptr < len(t.cells)-1 {
		t.ptr++
	}
}

func (t *Tape) MoveBackward() {
	if t.ptr > 0 {
		t.ptr--
	}
}

func (t *Tape) Increment() { t.cells[t.ptr]++ }
func (t *Tape) Decrement() { t.cells[t.ptr]-- }

func (t *Tape) IsZero() bool { return t.cells[t.ptr] == 0 }

// Read stores the next input byte in the current cell.
// At the end of input the cell is left as is.
func (t *Tape) Read() {
	if t.r == nil || t.err != nil {
		return
	}

	// prompts must be visible before we block
	if t.w != nil && t.w.Buffered() != 0 {
		if err := t.w.Flush(); err != nil {
			t.err = errors.Wrap(err, "flush")
			return
		}
	}

	c, err := t.r.ReadByte()
	if err == io.EOF {
		return
	}
	if err != nil {
		t.err = errors.Wrap(err, "read")
		return
	}

	t.cells[t.ptr] = c
}

func (t *Tape) Write() {
	if t.w == nil || t.err != nil {
		return
	}

	err := t.w.WriteByte(t.cells[t.ptr])
	if err != nil {
		t.err = errors.Wrap(err, "write")
	}
}

func (t *Tape) Flush() error {
	if t.w == nil {
		return t.err
	}

	err := t.w.Flush()
	if err != nil && t.err == nil {
		t.err = errors.Wrap(err, "flush")
	}

	return t.err
}

// Err returns the first I/O error met.
func (t *Tape) Err() error { return t.err }

func (t *Tape) Ptr() int        { return t.ptr }
func (t *Tape) Size() int       { return len(t.cells) }
func (t *Tape) Cell(i int) byte { return t.cells[i] }
