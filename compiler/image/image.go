package image

import (
	"math"

	"github.com/fxamacker/cbor/v2"
	"tlog.app/go/errors"

	"github.com/slowlang/bf/compiler/ir"
)

type (
	// image is a parsed program stored on disk.
	// Jumps holds the Match of every jump instruction in program order.
	image struct {
		Magic   string `cbor:"1,keyasint"`
		Version int    `cbor:"2,keyasint"`
		Kinds   []byte `cbor:"3,keyasint"`
		Jumps   []int  `cbor:"4,keyasint"`
	}
)

const (
	Magic   = "bfimg"
	Version = 1

	Ext = ".bfi"
)

var ErrBadImage = errors.New("bad image")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	// a program may have any number of brackets
	decMode, err = cbor.DecOptions{
		MaxArrayElements: math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

func Encode(p *ir.Program) ([]byte, error) {
	img := image{
		Magic:   Magic,
		Version: Version,
		Kinds:   make([]byte, p.Len()),
	}

	for i := range img.Kinds {
		x := p.At(i)

		img.Kinds[i] = byte(x.Kind)

		if x.Kind.IsJump() {
			img.Jumps = append(img.Jumps, x.Match)
		}
	}

	b, err := encMode.Marshal(img)
	if err != nil {
		return nil, errors.Wrap(err, "marshal")
	}

	return b, nil
}

// Decode restores a program and checks its bracket pairing.
func Decode(b []byte) (*ir.Program, error) {
	var img image

	err := decMode.Unmarshal(b, &img)
	if err != nil {
		return nil, errors.Wrap(ErrBadImage, "unmarshal: %v", err)
	}

	if img.Magic != Magic {
		return nil, errors.Wrap(ErrBadImage, "magic %q", img.Magic)
	}

	if img.Version != Version {
		return nil, errors.Wrap(ErrBadImage, "unsupported version %d", img.Version)
	}

	code := make([]ir.Instr, len(img.Kinds))
	j := 0

	for i, k := range img.Kinds {
		code[i] = ir.Instr{Kind: ir.Kind(k), Match: ir.NoMatch}

		if !code[i].Kind.IsJump() {
			continue
		}

		if j == len(img.Jumps) {
			return nil, errors.Wrap(ErrBadImage, "missing jump target for %d", i)
		}

		code[i].Match = img.Jumps[j]
		j++
	}

	if j != len(img.Jumps) {
		return nil, errors.Wrap(ErrBadImage, "%d extra jump targets", len(img.Jumps)-j)
	}

	p, err := ir.New(code)
	if err != nil {
		return nil, errors.Wrap(ErrBadImage, "%v", err)
	}

	return p, nil
}
