// Package compiler turns match sites into executable code.
//
// Two pipelines share the pattern and handler packages:
//
//   - Guard compiles a list of clause declarations, each a one-parameter
//     arrow whose parameter type is the pattern, into an if/else chain.
//   - Fluent compiles a tagged template of alternating discriminant,
//     patterns and handlers into a call chain against a structural matching
//     runtime: factory(disc).with(p, h).when(q, h).run(). FluentSource
//     produces the source text of the same chain.
//
// A Compiler holds only its configuration and logger, so nested sites are
// compiled by plain recursion.
package compiler

import (
	"go.uber.org/zap"

	"github.com/roach88/matchc/internal/pattern"
)

// Version identifies the code generator. Bump it whenever the output for
// some input changes, so cached compilations from older builds stop matching.
const Version = "0.4.0"

const (
	// DefaultFactory is the runtime entry point the call chain is rooted at.
	DefaultFactory = "match"
	// DefaultTag is the template tag marking a fluent site.
	DefaultTag = "Λ"
	// SiteKind is the string argument of the tag call, Λ("match").
	SiteKind = "match"
	// Directive marks a block written in guard clause syntax.
	Directive = "use match"
)

// Config is the per-compilation configuration.
type Config struct {
	// Factory names the structural matching entry point.
	Factory string
	// OutputType is the source text of the result type, appended as the last
	// type argument of the root call. Only the node-building variant uses it.
	OutputType string
	// Merge asks the host to splice an inline guard chain into the enclosing
	// statement list instead of replacing the block. It does not change
	// compilation.
	Merge bool
	// Negation selects where not(...) patterns are routed.
	Negation pattern.NegationMode
	// Tag is the identifier of the template tag that marks fluent sites.
	Tag string
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.Factory == "" {
		c.Factory = DefaultFactory
	}
	if c.Tag == "" {
		c.Tag = DefaultTag
	}
	if c.Negation == "" {
		c.Negation = pattern.NegationStructural
	}
	return c
}

// Compiler compiles match sites.
type Compiler struct {
	cfg  Config
	base Config
	log  *zap.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a compiler for cfg.
func New(cfg Config, opts ...Option) *Compiler {
	cfg = cfg.WithDefaults()
	c := &Compiler{cfg: cfg, base: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Compiler) Config() Config { return c.cfg }

// Logger returns the compiler's logger.
func (c *Compiler) Logger() *zap.Logger { return c.log }

func (c *Compiler) patternOptions() pattern.Options {
	return pattern.Options{Negation: c.cfg.Negation}
}
