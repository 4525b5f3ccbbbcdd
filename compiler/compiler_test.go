package compiler

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/slowlang/bf/compiler/config"
	"github.com/slowlang/bf/compiler/exec"
	"github.com/slowlang/bf/compiler/image"
	"github.com/slowlang/bf/compiler/parse"
)

type scenario struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Size   int    `yaml:"size"`
	Limit  int64  `yaml:"limit"`
	Error  string `yaml:"error"`
}

func TestScenarios(t *testing.T) {
	data, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)

	var list []scenario

	err = yaml.Unmarshal(data, &list)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for _, sc := range list {
		sc := sc

		t.Run(sc.Name, func(t *testing.T) {
			ctx := context.Background()

			p, err := parse.Parse(ctx, []byte(sc.Source))
			require.NoError(t, err)

			cfg := config.Default()
			cfg.Exec.Limit = sc.Limit

			if sc.Size != 0 {
				cfg.Tape.Size = sc.Size
			}

			var out bytes.Buffer

			err = Run(ctx, p, cfg, strings.NewReader(sc.Input), &out)

			switch sc.Error {
			case "":
				require.NoError(t, err)
			case "limit":
				require.ErrorIs(t, err, exec.ErrLimitExceeded)
			default:
				t.Fatalf("unknown expected error: %v", sc.Error)
			}

			assert.Equal(t, sc.Output, out.String())
		})
	}
}

func TestRunSharedInput(t *testing.T) {
	ctx := context.Background()

	p, err := parse.Parse(ctx, []byte(",."))
	require.NoError(t, err)

	in := bufio.NewReader(strings.NewReader("ab"))

	var out bytes.Buffer

	require.NoError(t, Run(ctx, p, nil, in, &out))
	require.NoError(t, Run(ctx, p, nil, in, &out))

	assert.Equal(t, "ab", out.String())
}

func TestEmitC(t *testing.T) {
	ctx := context.Background()

	p, err := parse.Parse(ctx, []byte("+."))
	require.NoError(t, err)

	b, err := Emit(ctx, p, config.TargetC, 0)
	require.NoError(t, err)

	s := string(b)

	assert.Contains(t, s, "unsigned char array[30000];")
	assert.Contains(t, s, "\n    ++*ptr;\n    putchar(*ptr);\n    return 0;\n}\n")
	assert.NotContains(t, s, "while")
}

func TestEmitTargets(t *testing.T) {
	ctx := context.Background()

	p, err := parse.Parse(ctx, []byte("x[-]"))
	require.NoError(t, err)

	b, err := Emit(ctx, p, config.TargetAsm, 0)
	require.NoError(t, err)
	assert.Equal(t, "L1:\tjz\tL3\n\tdec\nL3:\tjnz\tL1\n", string(b))

	b, err = Emit(ctx, p, config.TargetBF, 0)
	require.NoError(t, err)
	assert.Equal(t, "[\n\t-\n]\n", string(b))

	_, err = Emit(ctx, p, "cobol", 0)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "prog.bf")
	require.NoError(t, os.WriteFile(src, []byte("++[>+++<-]>."), 0o644))

	p, err := LoadFile(ctx, src)
	require.NoError(t, err)

	img := filepath.Join(dir, "prog"+image.Ext)
	require.NoError(t, Build(ctx, p, img))

	q, err := LoadFile(ctx, img)
	require.NoError(t, err)

	assert.Equal(t, p.Code(), q.Code())

	var out bytes.Buffer

	require.NoError(t, Run(ctx, q, nil, nil, &out))
	assert.Equal(t, "\x06", out.String())
}

func TestLoadFileParseError(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.bf")
	require.NoError(t, os.WriteFile(src, []byte("+\n+]"), 0o644))

	p, err := LoadFile(context.Background(), src)
	assert.Nil(t, p)
	require.ErrorIs(t, err, parse.ErrBracketMismatch)

	var perr parse.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 2, perr.Col)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "none.bf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
