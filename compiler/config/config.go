package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"tlog.app/go/errors"
)

type (
	// Config is the content of a bf.toml project file.
	Config struct {
		Tape    Tape    `toml:"tape"`
		Exec    Exec    `toml:"exec"`
		Compile Compile `toml:"compile"`

		// Path of the file the config was loaded from, empty for defaults.
		Path string `toml:"-"`
	}

	Tape struct {
		Size int `toml:"size"`
	}

	Exec struct {
		// Limit of executed instructions, 0 is unlimited.
		Limit int64 `toml:"limit"`
	}

	Compile struct {
		Target string `toml:"target"`
	}
)

const FileName = "bf.toml"

const (
	TargetC   = "c"
	TargetAsm = "asm"
	TargetBF  = "bf"
)

var Targets = []string{TargetC, TargetAsm, TargetBF}

func Default() *Config {
	return &Config{
		Tape:    Tape{Size: 30000},
		Compile: Compile{Target: TargetC},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}

	c := Default()

	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, errors.Wrap(err, "parse %v", path)
	}

	if und := md.Undecoded(); len(und) != 0 {
		return nil, errors.New("%v: unknown key %v", path, und[0])
	}

	c.Path = path

	err = c.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "%v", path)
	}

	return c, nil
}

// FindAndLoad walks up from dir looking for bf.toml.
// Defaults are returned if there is none.
func FindAndLoad(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "abs path")
	}

	for {
		path := filepath.Join(dir, FileName)

		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}

		dir = parent
	}
}

func (c *Config) Validate() error {
	if c.Tape.Size <= 0 {
		return errors.New("tape size must be positive: %d", c.Tape.Size)
	}

	if c.Exec.Limit < 0 {
		return errors.New("negative exec limit: %d", c.Exec.Limit)
	}

	for _, t := range Targets {
		if c.Compile.Target == t {
			return nil
		}
	}

	return errors.New("unknown compile target: %q", c.Compile.Target)
}
