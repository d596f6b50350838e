// Package handler normalizes clause handlers into uniformly callable form.
package handler

import (
	"strings"

	"github.com/roach88/matchc/internal/printer"
	"github.com/roach88/matchc/internal/syntax"
)

// Shape is the form a handler was written in.
type Shape int

const (
	// Callable is a function with a block body, or a function expression.
	Callable Shape = iota
	// Implicit is an arrow function with an expression body.
	Implicit
	// Value is any other expression.
	Value
)

func (s Shape) String() string {
	switch s {
	case Callable:
		return "callable"
	case Implicit:
		return "implicit"
	case Value:
		return "value"
	}
	return "unknown"
}

// Classify reports the shape of a fluent handler. Enclosing parentheses are
// looked through.
func Classify(h syntax.Expr) Shape {
	switch fn := syntax.Unparen(h).(type) {
	case *syntax.FuncExpr:
		return Callable
	case *syntax.ArrowFunc:
		if fn.Body != nil {
			return Callable
		}
		return Implicit
	}
	return Value
}

// Normalize returns a function that, called with the runtime's arguments,
// produces the handler's result:
//
//	x => { ... }     unchanged
//	x => (expr)      x => { return expr; }
//	value            () => { return value; }
//
// Normalize is idempotent.
func Normalize(h syntax.Expr) syntax.Expr {
	switch Classify(h) {
	case Callable:
		return syntax.Unparen(h)
	case Implicit:
		fn := syntax.Unparen(h).(*syntax.ArrowFunc)
		return &syntax.ArrowFunc{
			Start:      fn.Start,
			Params:     fn.Params,
			ReturnType: fn.ReturnType,
			Body:       returning(syntax.Unparen(fn.ExprBody)),
		}
	}
	return &syntax.ArrowFunc{Start: h.Position(), Body: returning(h)}
}

func returning(x syntax.Expr) *syntax.BlockStmt {
	b := syntax.Returning(x)
	b.Start = x.Position()
	return b
}

// NormalizeSource is the text form of Normalize. The result is exactly what
// cfg prints for Normalize(h) at the same depth.
func NormalizeSource(h syntax.Expr, cfg printer.Config, depth int) string {
	switch Classify(h) {
	case Callable:
		return cfg.Expr(syntax.Unparen(h), depth)
	case Implicit:
		fn := syntax.Unparen(h).(*syntax.ArrowFunc)
		return returnBlock(cfg.ArrowHead(fn, depth), syntax.Unparen(fn.ExprBody), cfg, depth)
	}
	return returnBlock("() =>", h, cfg, depth)
}

func returnBlock(head string, x syntax.Expr, cfg printer.Config, depth int) string {
	var b strings.Builder
	b.WriteString(head)
	b.WriteString(" {\n")
	b.WriteString(printer.IndentString(depth + 1))
	b.WriteString("return ")
	b.WriteString(cfg.Expr(x, depth+1))
	b.WriteString(";\n")
	b.WriteString(printer.IndentString(depth))
	b.WriteByte('}')
	return b.String()
}

// Body returns the consequent block of a guard clause. A block body is kept
// as is; an expression body becomes a block holding it as a statement.
func Body(fn *syntax.ArrowFunc) *syntax.BlockStmt {
	if fn.Body != nil {
		return fn.Body
	}
	return &syntax.BlockStmt{
		Start: fn.ExprBody.Position(),
		Body:  []syntax.Stmt{&syntax.ExprStmt{Start: fn.ExprBody.Position(), X: fn.ExprBody}},
	}
}
