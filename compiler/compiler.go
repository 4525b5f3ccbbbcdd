package compiler

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/bf/compiler/asm"
	"github.com/slowlang/bf/compiler/back"
	"github.com/slowlang/bf/compiler/compile"
	"github.com/slowlang/bf/compiler/config"
	"github.com/slowlang/bf/compiler/exec"
	"github.com/slowlang/bf/compiler/format"
	"github.com/slowlang/bf/compiler/image"
	"github.com/slowlang/bf/compiler/ir"
	"github.com/slowlang/bf/compiler/parse"
	"github.com/slowlang/bf/compiler/tape"
)

// LoadFile returns the program stored in name.
// Image files are decoded, anything else is parsed as source text.
func LoadFile(ctx context.Context, name string) (*ir.Program, error) {
	if filepath.Ext(name) != image.Ext {
		p, err := parse.ParseFile(ctx, name)
		if err != nil {
			return nil, errors.Wrap(err, "parse file")
		}

		return p, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read image", "size", len(data), "name", name)

	p, err := image.Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}

	return p, nil
}

// Run executes p on a fresh tape reading in and writing out.
// When in is a *bufio.Reader it is used as is, so input left unread
// by one program stays available to the next Run on the same reader.
func Run(ctx context.Context, p *ir.Program, cfg *config.Config, in io.Reader, out io.Writer) error {
	if cfg == nil {
		cfg = config.Default()
	}

	t := tape.New(cfg.Tape.Size, in, out)

	e := exec.Executor{
		Limit: cfg.Exec.Limit,
	}

	err := e.Execute(ctx, p, t)

	if ferr := t.Flush(); err == nil && ferr != nil {
		err = errors.Wrap(ferr, "flush output")
	}

	if err != nil {
		return errors.Wrap(err, "execute")
	}

	return nil
}

// Emit renders p for target.
// size is the tape size for targets that declare storage.
func Emit(ctx context.Context, p *ir.Program, target string, size int) ([]byte, error) {
	switch target {
	case config.TargetC:
		if size <= 0 {
			size = tape.DefaultSize
		}

		c := compile.NewC(size)
		back.Compile(ctx, p, c)

		return c.Bytes(), nil
	case config.TargetAsm:
		l := asm.New()
		back.Compile(ctx, p, l)

		return l.Bytes(), nil
	case config.TargetBF:
		return format.Format(ctx, p), nil
	default:
		return nil, errors.New("unknown target: %q", target)
	}
}

// Build writes the image of p to name.
func Build(ctx context.Context, p *ir.Program, name string) error {
	b, err := image.Encode(p)
	if err != nil {
		return errors.Wrap(err, "encode image")
	}

	err = os.WriteFile(name, b, 0o644)
	if err != nil {
		return errors.Wrap(err, "write image")
	}

	tlog.SpanFromContext(ctx).Printw("image written", "name", name, "size", len(b), "len", p.Len())

	return nil
}
