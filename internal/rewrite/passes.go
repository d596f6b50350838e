package rewrite

import (
	"github.com/roach88/matchc/internal/compiler"
	"github.com/roach88/matchc/internal/printer"
	"github.com/roach88/matchc/internal/syntax"
)

// guards compiles directive blocks. Inner blocks are seen before the lists
// that contain them.
func (r *Rewriter) guards(prog *syntax.Program, rep *Report) error {
	inline := make(map[*syntax.IfStmt]bool)
	merge := r.c.Config().Merge

	t := &syntax.Transformer{
		Stmts: func(list []syntax.Stmt, kind syntax.ListKind) ([]syntax.Stmt, error) {
			if !syntax.HasDirective(list, compiler.Directive) {
				if merge {
					list = splice(list, inline)
				}
				return list, nil
			}
			switch kind {
			case syntax.FuncBody:
				chain, err := r.c.Guard(list[1:])
				if err != nil {
					return nil, err
				}
				rep.GuardSites++
				return []syntax.Stmt{chain}, nil
			case syntax.NestedBlock:
				chain, err := r.c.InlineGuard(list)
				if err != nil {
					return nil, err
				}
				rep.InlineSites++
				inline[chain] = true
				return []syntax.Stmt{chain}, nil
			}
			// A file-level directive does not make the file a match block.
			return list, nil
		},
	}
	return t.Program(prog)
}

// splice replaces each block that holds only an inline chain by the chain.
func splice(list []syntax.Stmt, inline map[*syntax.IfStmt]bool) []syntax.Stmt {
	for i, s := range list {
		blk, ok := s.(*syntax.BlockStmt)
		if !ok || len(blk.Body) != 1 {
			continue
		}
		if chain, ok := blk.Body[0].(*syntax.IfStmt); ok && inline[chain] {
			list[i] = chain
		}
	}
	return list
}

func (r *Rewriter) fluents(prog *syntax.Program, rep *Report) error {
	t := &syntax.Transformer{
		Expr: func(e syntax.Expr) (syntax.Expr, bool, error) {
			out, ok, err := r.c.CompileSite(e)
			if ok && err == nil {
				rep.FluentSites++
			}
			return out, ok, err
		},
	}
	return t.Program(prog)
}

func (r *Rewriter) printText(prog *syntax.Program, rep *Report) (string, error) {
	var firstErr error
	cfg := printer.Config{
		Substitute: func(e syntax.Expr, depth int) (string, bool) {
			if firstErr != nil {
				if _, ok := r.c.Site(e); ok {
					return "", true
				}
				return "", false
			}
			s, ok, err := r.c.CompileSiteSource(e, depth)
			if !ok {
				return "", false
			}
			if err != nil {
				firstErr = err
				return "", true
			}
			rep.FluentSites++
			return s, true
		},
	}
	out := cfg.Program(prog)
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
