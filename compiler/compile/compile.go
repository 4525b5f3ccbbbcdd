package compile

import (
	"github.com/nikandfor/hacked/hfmt"
)

type (
	// C renders a program as a C translation unit.
	C struct {
		b     []byte
		depth int
	}
)

const indent = "    "

func NewC(size int) *C {
	c := &C{}

	c.b = hfmt.Appendf(c.b, `#include <stdio.h>
#include <string.h>

int main() {
    unsigned char array[%d];
    unsigned char* ptr = array;
    memset(array, 0, sizeof(array));

`, size)

	c.depth = 1

	return c
}

func (c *C) MoveForward()  { c.line("++ptr;") }
func (c *C) MoveBackward() { c.line("--ptr;") }
func (c *C) Increment()    { c.line("++*ptr;") }
func (c *C) Decrement()    { c.line("--*ptr;") }
func (c *C) Write()        { c.line("putchar(*ptr);") }
func (c *C) Read()         { c.line("*ptr = getchar();") }

func (c *C) OpenLoop(src, match int) {
	c.line("while (*ptr) {")
	c.depth++
}

func (c *C) CloseLoop(src, match int) {
	c.depth--
	c.line("}")
}

// Bytes closes main and returns the whole unit.
// The emitter must not be used afterwards.
func (c *C) Bytes() []byte {
	c.line("return 0;")

	return append(c.b, "}\n"...)
}

func (c *C) line(s string) {
	for i := 0; i < c.depth; i++ {
		c.b = append(c.b, indent...)
	}

	c.b = append(c.b, s...)
	c.b = append(c.b, '\n')
}
