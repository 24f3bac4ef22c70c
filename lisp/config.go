package lisp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadMode decides how load reads a file.
type LoadMode string

const (
	// LoadExpression evaluates the whole file as one expression.
	LoadExpression LoadMode = "expression"
	// LoadLines evaluates every non-blank line on its own.
	// Lines starting with ';' are skipped.
	LoadLines LoadMode = "lines"
)

// Config holds the interpreter limits. Zero values are not valid;
// start from DefaultConfig.
type Config struct {
	MaxWord  int      `yaml:"max_word"`
	MaxLine  int      `yaml:"max_line"`
	MaxFile  int64    `yaml:"max_file"`
	LoadMode LoadMode `yaml:"load_mode"`
	Trace    bool     `yaml:"trace"`
}

func DefaultConfig() Config {
	return Config{
		MaxWord:  DefaultMaxWord,
		MaxLine:  300,
		MaxFile:  2000,
		LoadMode: LoadExpression,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.MaxWord <= 0 {
		errs = append(errs, fmt.Errorf("max_word must be positive, got %d", c.MaxWord))
	}
	if c.MaxLine <= 0 {
		errs = append(errs, fmt.Errorf("max_line must be positive, got %d", c.MaxLine))
	}
	if c.MaxFile <= 0 {
		errs = append(errs, fmt.Errorf("max_file must be positive, got %d", c.MaxFile))
	}
	switch c.LoadMode {
	case LoadExpression, LoadLines:
	default:
		errs = append(errs, fmt.Errorf("load_mode must be %q or %q, got %q", LoadExpression, LoadLines, c.LoadMode))
	}
	return errors.Join(errs...)
}

// ParseConfig reads YAML on top of the defaults. Unknown keys are errors.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return ParseConfig(data)
}
