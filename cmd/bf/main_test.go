package main

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slowlang/bf/compiler/config"
	"github.com/slowlang/bf/compiler/parse"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestDiagnosticPremature(t *testing.T) {
	text := []byte("+++\n\t+]-\n")
	e := parse.Error{Kind: parse.BracketMismatch, Pos: 6, Line: 2, Col: 3}

	d := ansi.ReplaceAllString(diagnostic("prog.bf", text, e), "")

	assert.Equal(t, "prog.bf:2:3: bracket mismatch\n"+
		"\t\t+]-\n"+
		"\t\t ^\n", d)
}

func TestDiagnosticUnclosed(t *testing.T) {
	text := []byte("+[\n-\n")
	e := parse.Error{Kind: parse.BracketMismatch, Pos: 5, Line: 3, Col: 1}

	d := ansi.ReplaceAllString(diagnostic("x.bf", text, e), "")

	assert.Equal(t, "x.bf:3:1: bracket mismatch\n"+
		"\t\n"+
		"\t^\n"+
		"\tunclosed bracket at end of input\n", d)
}

func TestDiagnosticNoText(t *testing.T) {
	e := parse.Error{Kind: parse.BracketMismatch, Line: 1, Col: 1}

	d := ansi.ReplaceAllString(diagnostic("gone.bf", nil, e), "")

	assert.Equal(t, "gone.bf:1:1: bracket mismatch\n", d)
}

func TestSourceLine(t *testing.T) {
	text := []byte("one\r\ntwo\nthree")

	assert.Equal(t, "one", string(sourceLine(text, 1)))
	assert.Equal(t, "two", string(sourceLine(text, 2)))
	assert.Equal(t, "three", string(sourceLine(text, 3)))
	assert.Nil(t, sourceLine(text, 4))
}

func TestImageName(t *testing.T) {
	assert.Equal(t, "dir/hello.bfi", imageName("dir/hello.bf"))
	assert.Equal(t, "noext.bfi", imageName("noext"))
}

func TestCheckUnits(t *testing.T) {
	assert.NoError(t, checkUnits(config.TargetC, 1))
	assert.Error(t, checkUnits(config.TargetC, 2))

	assert.NoError(t, checkUnits(config.TargetAsm, 3))
	assert.NoError(t, checkUnits(config.TargetBF, 3))
}
