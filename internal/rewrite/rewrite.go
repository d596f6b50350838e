// Package rewrite finds match sites in a source file, compiles them and
// splices the results back.
//
// A file is processed in two passes. The guard pass replaces every
// function body that opens with the 'use match' directive by its compiled
// if/else chain, and every nested block that opens with the directive by a
// block holding the chain (or by the chain itself when merging). The
// fluent pass then replaces every tagged template site, including those
// inside guard clause bodies.
package rewrite

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/matchc/internal/compiler"
	"github.com/roach88/matchc/internal/parser"
	"github.com/roach88/matchc/internal/printer"
	"github.com/roach88/matchc/internal/syntax"
)

// Mode selects which fluent variant the rewriter uses.
type Mode string

const (
	// ModeNode splices compiled call chain trees and prints the file.
	ModeNode Mode = "node"
	// ModeText prints the file with each fluent site replaced by the text
	// variant's output.
	ModeText Mode = "text"
)

// ParseMode validates a mode name. The empty string selects ModeNode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeNode:
		return ModeNode, nil
	case ModeText:
		return ModeText, nil
	}
	return "", fmt.Errorf("unknown rewrite mode %q (want node or text)", s)
}

// Report counts what a rewrite touched.
type Report struct {
	GuardSites  int `json:"guard_sites" yaml:"guard_sites"`
	InlineSites int `json:"inline_sites" yaml:"inline_sites"`
	FluentSites int `json:"fluent_sites" yaml:"fluent_sites"`
}

// Sites returns the total number of compiled sites.
func (r Report) Sites() int { return r.GuardSites + r.InlineSites + r.FluentSites }

// Add accumulates o into r.
func (r *Report) Add(o Report) {
	r.GuardSites += o.GuardSites
	r.InlineSites += o.InlineSites
	r.FluentSites += o.FluentSites
}

// Error is a parse or compile error located in a file.
type Error struct {
	File string
	Pos  syntax.Pos
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.File == "":
		return e.Err.Error()
	case e.Pos.IsValid():
		return e.File + ":" + e.Err.Error()
	}
	return e.File + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func locate(file string, err error) error {
	if err == nil {
		return nil
	}
	re := &Error{File: file, Err: err}
	var ce *compiler.CompileError
	var pe *parser.Error
	switch {
	case errors.As(err, &ce):
		re.Pos = ce.Pos
	case errors.As(err, &pe):
		re.Pos = pe.Pos
	}
	return re
}

// Rewriter rewrites files with one compiler configuration.
type Rewriter struct {
	c    *compiler.Compiler
	mode Mode
	log  *zap.Logger
}

// New returns a rewriter. The compiler's logger is reused.
func New(c *compiler.Compiler, mode Mode) *Rewriter {
	if mode == "" {
		mode = ModeNode
	}
	return &Rewriter{c: c, mode: mode, log: c.Logger()}
}

// Mode returns the rewriter's mode.
func (r *Rewriter) Mode() Mode { return r.mode }

// Source rewrites one file and returns the printed result. Nothing is
// returned on error: a file is either fully compiled or not at all.
func (r *Rewriter) Source(filename, src string) (string, Report, error) {
	prog, err := parser.ParseProgram(src)
	if err != nil {
		return "", Report{}, locate(filename, err)
	}

	var rep Report
	if err := r.guards(prog, &rep); err != nil {
		return "", Report{}, locate(filename, err)
	}

	var out string
	if r.mode == ModeText {
		out, err = r.printText(prog, &rep)
	} else {
		err = r.fluents(prog, &rep)
		out = printer.Program(prog)
	}
	if err != nil {
		return "", Report{}, locate(filename, err)
	}

	r.log.Debug("rewrote file",
		zap.String("file", filename),
		zap.String("mode", string(r.mode)),
		zap.Int("guard_sites", rep.GuardSites),
		zap.Int("inline_sites", rep.InlineSites),
		zap.Int("fluent_sites", rep.FluentSites))
	return out, rep, nil
}

// Program rewrites prog in place, compiling fluent sites to trees regardless
// of the rewriter's mode.
func (r *Rewriter) Program(prog *syntax.Program) (Report, error) {
	var rep Report
	if err := r.guards(prog, &rep); err != nil {
		return Report{}, err
	}
	if err := r.fluents(prog, &rep); err != nil {
		return Report{}, err
	}
	return rep, nil
}
