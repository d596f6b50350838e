package compiler

import (
	"go.uber.org/zap"

	"github.com/roach88/matchc/internal/handler"
	"github.com/roach88/matchc/internal/pattern"
	"github.com/roach88/matchc/internal/syntax"
)

// Guard compiles the clause declarations of a function body into an if/else
// chain. The host has already removed the directive; a leading directive
// here is not a clause.
func (c *Compiler) Guard(stmts []syntax.Stmt) (*syntax.IfStmt, error) {
	return c.guard(stmts)
}

// InlineGuard compiles the clause declarations of a nested block. A leading
// directive is dropped.
func (c *Compiler) InlineGuard(stmts []syntax.Stmt) (*syntax.IfStmt, error) {
	if len(stmts) > 0 {
		if _, ok := syntax.Directive(stmts[0]); ok {
			stmts = stmts[1:]
		}
	}
	return c.guard(stmts)
}

// GuardClauses materializes the clauses of a guard block without compiling them.
func (c *Compiler) GuardClauses(stmts []syntax.Stmt) ([]Clause, error) {
	var clauses []Clause
	for _, s := range stmts {
		if _, ok := s.(*syntax.EmptyStmt); ok {
			continue
		}
		cl, err := guardClause(len(clauses), s)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, cl)
	}
	return clauses, nil
}

func guardClause(index int, s syntax.Stmt) (Clause, error) {
	es, ok := s.(*syntax.ExprStmt)
	if !ok {
		return Clause{}, errorf(ErrNotAClause, index, s.Position(), "clause %d is a statement, want an arrow function", index)
	}
	fn, ok := syntax.Unparen(es.X).(*syntax.ArrowFunc)
	if !ok {
		return Clause{}, errorf(ErrNotAClause, index, es.Position(), "clause %d is not an arrow function", index)
	}
	cl := Clause{Index: index, Handler: fn, Pos: fn.Position()}
	switch len(fn.Params) {
	case 0:
		return cl, nil
	case 1:
	default:
		return Clause{}, errorf(ErrBadParameters, index, fn.Position(), "clause %d has %d parameters, want one or none", index, len(fn.Params))
	}
	p := fn.Params[0]
	id, ok := p.Target.(*syntax.Ident)
	if !ok || p.Rest || p.Default != nil {
		return Clause{}, errorf(ErrBadParameters, index, p.Position(), "clause %d parameter must be a plain identifier", index)
	}
	if p.Type == nil {
		return Clause{}, errorf(ErrBadParameters, index, p.Position(), "clause %d parameter %s has no type constraint", index, id.Name)
	}
	cl.Subject = id.Name
	cl.Constraint = p.Type
	cl.Bindings = []string{id.Name}
	return cl, nil
}

// guardArm is one conditioned branch awaiting the right-to-left fold.
type guardArm struct {
	test syntax.Expr
	body *syntax.BlockStmt
	pos  syntax.Pos
}

func (c *Compiler) guard(stmts []syntax.Stmt) (*syntax.IfStmt, error) {
	clauses, err := c.GuardClauses(stmts)
	if err != nil {
		return nil, err
	}
	if len(clauses) == 0 {
		return nil, errorf(ErrNoClauses, -1, syntax.Pos{}, "match block has no clauses")
	}

	var arms []guardArm
	var fallback *syntax.BlockStmt
	for _, cl := range clauses {
		if fallback != nil {
			c.log.Warn("unreachable clause after default",
				zap.Int("clause", cl.Index),
				zap.Stringer("pos", cl.Pos))
			break
		}
		fn := cl.Handler.(*syntax.ArrowFunc)
		if cl.IsDefault() {
			if len(arms) == 0 {
				return nil, errorf(ErrDefaultWithoutPattern, cl.Index, cl.Pos, "default clause has no preceding pattern clause to attach to")
			}
			fallback = handler.Body(fn)
			continue
		}
		con, err := pattern.Guard(cl.Subject, cl.Constraint)
		if err != nil {
			return nil, unclassifiable(ErrUnclassifiableConstraint, cl, err)
		}
		c.log.Debug("guard clause",
			zap.Int("clause", cl.Index),
			zap.Stringer("kind", con.Kind))
		arms = append(arms, guardArm{test: con.Test, body: handler.Body(fn), pos: cl.Pos})
	}

	var alt syntax.Stmt
	if fallback != nil {
		alt = fallback
	}
	var head *syntax.IfStmt
	for i := len(arms) - 1; i >= 0; i-- {
		head = &syntax.IfStmt{Start: arms[i].pos, Test: arms[i].test, Then: arms[i].body, Else: alt}
		alt = head
	}
	return head, nil
}
