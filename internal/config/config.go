// Package config loads per-project compiler options.
//
// Options come from the first of .matchc.yaml, .matchc.yml or matchc.cue
// found in a directory or any of its parents. CUE files are unified with an
// embedded schema, so unknown fields and bad enum values are rejected with
// their source position. YAML files are decoded strictly and then checked by
// Validate, which both formats share.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/matchc/internal/compiler"
	"github.com/roach88/matchc/internal/parser"
	"github.com/roach88/matchc/internal/pattern"
	"github.com/roach88/matchc/internal/rewrite"
)

//go:embed schema.cue
var schemaSource string

// Config file names, in lookup order.
var FileNames = []string{".matchc.yaml", ".matchc.yml", "matchc.cue"}

// Config error codes (E300-E399)
const (
	ErrCodeRead    = "E301" // file cannot be read
	ErrCodeSyntax  = "E302" // YAML or CUE syntax error
	ErrCodeSchema  = "E303" // CUE value violates the schema
	ErrCodeInvalid = "E304" // option value rejected by Validate
)

// Error is a configuration error. Pos is set for CUE files.
type Error struct {
	Code    string
	File    string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Options are the user-facing compiler options.
type Options struct {
	Factory    string `yaml:"factory,omitempty" json:"factory,omitempty"`
	OutputType string `yaml:"outputType,omitempty" json:"outputType,omitempty"`
	Merge      bool   `yaml:"merge,omitempty" json:"merge,omitempty"`
	Negation   string `yaml:"negation,omitempty" json:"negation,omitempty"`
	Tag        string `yaml:"tag,omitempty" json:"tag,omitempty"`
	Mode       string `yaml:"mode,omitempty" json:"mode,omitempty"`
}

// Defaults returns the options used when no file is found.
func Defaults() Options {
	return Options{
		Factory:  compiler.DefaultFactory,
		Negation: string(pattern.NegationStructural),
		Tag:      compiler.DefaultTag,
		Mode:     string(rewrite.ModeNode),
	}
}

// WithDefaults fills unset fields from Defaults.
func (o Options) WithDefaults() Options {
	d := Defaults()
	if o.Factory == "" {
		o.Factory = d.Factory
	}
	if o.Negation == "" {
		o.Negation = d.Negation
	}
	if o.Tag == "" {
		o.Tag = d.Tag
	}
	if o.Mode == "" {
		o.Mode = d.Mode
	}
	return o
}

// Validate checks every option value.
func (o Options) Validate() error {
	if o.Factory != "" && !parser.IsIdentifier(o.Factory) {
		return invalid("factory %q is not an identifier", o.Factory)
	}
	if o.Tag != "" && !parser.IsIdentifier(o.Tag) {
		return invalid("tag %q is not an identifier", o.Tag)
	}
	if o.OutputType != "" {
		if _, err := parser.ParseType(o.OutputType); err != nil {
			return invalid("outputType %q: %v", o.OutputType, err)
		}
	}
	if _, err := pattern.ParseNegationMode(o.Negation); err != nil {
		return invalid("%v", err)
	}
	if _, err := rewrite.ParseMode(o.Mode); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func invalid(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalid, Message: fmt.Sprintf(format, args...)}
}

// Compiler returns the compiler configuration. o must be valid.
func (o Options) Compiler() compiler.Config {
	neg, _ := pattern.ParseNegationMode(o.Negation)
	return compiler.Config{
		Factory:    o.Factory,
		OutputType: o.OutputType,
		Merge:      o.Merge,
		Negation:   neg,
		Tag:        o.Tag,
	}.WithDefaults()
}

// RewriteMode returns the rewrite mode. o must be valid.
func (o Options) RewriteMode() rewrite.Mode {
	m, _ := rewrite.ParseMode(o.Mode)
	return m
}

// Fingerprint is a stable encoding of the effective options. Every field is
// written, quoted, in declaration order, so no two option sets share one.
func (o Options) Fingerprint() string {
	o = o.WithDefaults()
	fields := []struct{ name, value string }{
		{"factory", strconv.Quote(o.Factory)},
		{"outputType", strconv.Quote(o.OutputType)},
		{"merge", strconv.FormatBool(o.Merge)},
		{"negation", strconv.Quote(o.Negation)},
		{"tag", strconv.Quote(o.Tag)},
		{"mode", strconv.Quote(o.Mode)},
	}
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(f.name)
		b.WriteByte('=')
		b.WriteString(f.value)
	}
	return b.String()
}

// Discover returns the config file governing dir, searching dir and then
// its parents. It returns "" when there is none.
func Discover(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			info, err := os.Stat(path)
			if err == nil && !info.IsDir() {
				return path, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadDir loads the options governing dir, or Defaults when no file exists.
// The returned path is "" in the latter case.
func LoadDir(dir string) (Options, string, error) {
	path, err := Discover(dir)
	if err != nil {
		return Options{}, "", &Error{Code: ErrCodeRead, File: dir, Message: err.Error()}
	}
	if path == "" {
		return Defaults(), "", nil
	}
	opts, err := Load(path)
	return opts, path, err
}

// Load reads one config file. The format follows the extension.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, &Error{Code: ErrCodeRead, File: path, Message: err.Error()}
	}

	var opts Options
	switch filepath.Ext(path) {
	case ".cue":
		opts, err = decodeCUE(path, data)
	case ".yaml", ".yml":
		opts, err = decodeYAML(path, data)
	default:
		return Options{}, &Error{Code: ErrCodeRead, File: path, Message: "unknown config format (want .yaml, .yml or .cue)"}
	}
	if err != nil {
		return Options{}, err
	}
	if err := opts.Validate(); err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.File = path
		}
		return Options{}, err
	}
	return opts.WithDefaults(), nil
}

func decodeYAML(path string, data []byte) (Options, error) {
	var opts Options
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, &Error{Code: ErrCodeSyntax, File: path, Message: err.Error()}
	}
	return opts, nil
}

func decodeCUE(path string, data []byte) (Options, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Options{}, fmt.Errorf("config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return Options{}, formatCUEError(ErrCodeSyntax, path, err)
	}
	v = schema.LookupPath(cue.ParsePath("#Options")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Options{}, formatCUEError(ErrCodeSchema, path, err)
	}

	var opts Options
	if err := v.Decode(&opts); err != nil {
		return Options{}, formatCUEError(ErrCodeSchema, path, err)
	}
	return opts, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(code, path string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Code: code, File: path, Message: err.Error()}
	}
	first := errs[0]
	ce := &Error{Code: code, File: path, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
