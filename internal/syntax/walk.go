package syntax

// Inspect traverses the tree rooted at n in depth-first order. It calls f for
// each node; if f returns false, Inspect skips the node's children.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range children(n) {
		Inspect(c, f)
	}
}

// children lists the direct child nodes of n, skipping nil links.
func children(n Node) []Node {
	var out []Node
	add := func(c Node) { out = append(out, c) }
	addExprs := func(list []Expr) {
		for _, e := range list {
			if e != nil {
				add(e)
			}
		}
	}
	addParams := func(list []*Param) {
		for _, p := range list {
			add(p)
		}
	}
	addTypes := func(list []Type) {
		for _, t := range list {
			add(t)
		}
	}

	switch n := n.(type) {
	case *TemplateLit:
		addExprs(n.Exprs)
	case *TaggedTemplate:
		add(n.Tag)
		add(n.Quasi)
	case *ArrayLit:
		addExprs(n.Elems)
	case *ObjectLit:
		for _, p := range n.Props {
			add(p)
		}
	case *Property:
		if n.Key != nil && !n.Shorthand {
			add(n.Key)
		}
		if n.Value != nil {
			add(n.Value)
		}
	case *SpreadElement:
		add(n.Arg)
	case *Param:
		add(n.Target)
		if n.Type != nil {
			add(n.Type)
		}
		if n.Default != nil {
			add(n.Default)
		}
	case *ArrowFunc:
		addParams(n.Params)
		if n.ReturnType != nil {
			add(n.ReturnType)
		}
		if n.Body != nil {
			add(n.Body)
		} else if n.ExprBody != nil {
			add(n.ExprBody)
		}
	case *FuncExpr:
		addParams(n.Params)
		if n.ReturnType != nil {
			add(n.ReturnType)
		}
		add(n.Body)
	case *CallExpr:
		add(n.Callee)
		addTypes(n.TypeArgs)
		addExprs(n.Args)
	case *NewExpr:
		add(n.Callee)
		addTypes(n.TypeArgs)
		addExprs(n.Args)
	case *MemberExpr:
		add(n.Object)
		add(n.Property)
	case *NonNullExpr:
		add(n.X)
	case *UnaryExpr:
		add(n.X)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *LogicalExpr:
		add(n.Left)
		add(n.Right)
	case *ConditionalExpr:
		add(n.Test)
		add(n.Then)
		add(n.Else)
	case *AssignExpr:
		add(n.Target)
		add(n.Value)
	case *ParenExpr:
		add(n.X)
	case *AsExpr:
		add(n.X)
		add(n.Type)

	case *ExprStmt:
		add(n.X)
	case *BlockStmt:
		for _, s := range n.Body {
			add(s)
		}
	case *IfStmt:
		add(n.Test)
		add(n.Then)
		if n.Else != nil {
			add(n.Else)
		}
	case *ReturnStmt:
		if n.X != nil {
			add(n.X)
		}
	case *ThrowStmt:
		add(n.X)
	case *VarDecl:
		for _, d := range n.Decls {
			add(d)
		}
	case *Declarator:
		add(n.Target)
		if n.Type != nil {
			add(n.Type)
		}
		if n.Init != nil {
			add(n.Init)
		}
	case *FuncDecl:
		add(n.Name)
		addParams(n.Params)
		if n.ReturnType != nil {
			add(n.ReturnType)
		}
		add(n.Body)
	case *TypeAlias:
		add(n.Type)
	case *Program:
		for _, s := range n.Body {
			add(s)
		}

	case *LiteralType:
		add(n.Lit)
	case *TypeRef:
		addTypes(n.Args)
	case *UnionType:
		addTypes(n.Types)
	case *ArrayType:
		add(n.Elem)
	case *TupleType:
		addTypes(n.Elems)
	case *ObjectType:
		for _, m := range n.Members {
			add(m.Type)
		}
	case *ParenType:
		add(n.X)
	}
	return out
}

// ListKind tells a Transformer's Stmts hook where a statement list sits.
type ListKind int

const (
	FileList    ListKind = iota // top level of a Program
	FuncBody                    // body of a function or arrow
	NestedBlock                 // any other braced block
)

// Transformer rewrites a tree in place.
//
// Expr runs before an expression's children are visited; when it reports
// handled, its result replaces the expression and the children are skipped.
// Stmts runs on every statement list after the list's own statements were
// transformed. Either hook may be nil.
type Transformer struct {
	Expr  func(e Expr) (Expr, bool, error)
	Stmts func(list []Stmt, kind ListKind) ([]Stmt, error)
}

// Program transforms every statement of p.
func (t *Transformer) Program(p *Program) error {
	body, err := t.list(p.Body, FileList)
	if err != nil {
		return err
	}
	p.Body = body
	return nil
}

// Rewrite transforms e and returns its replacement.
func (t *Transformer) Rewrite(e Expr) (Expr, error) {
	return t.expr(e)
}

func (t *Transformer) list(list []Stmt, kind ListKind) ([]Stmt, error) {
	for i, s := range list {
		ns, err := t.stmt(s)
		if err != nil {
			return nil, err
		}
		list[i] = ns
	}
	if t.Stmts == nil {
		return list, nil
	}
	return t.Stmts(list, kind)
}

func (t *Transformer) block(b *BlockStmt, kind ListKind) error {
	if b == nil {
		return nil
	}
	list, err := t.list(b.Body, kind)
	if err != nil {
		return err
	}
	b.Body = list
	return nil
}

func (t *Transformer) stmt(s Stmt) (Stmt, error) {
	var err error
	switch s := s.(type) {
	case *ExprStmt:
		s.X, err = t.expr(s.X)
	case *BlockStmt:
		err = t.block(s, NestedBlock)
	case *IfStmt:
		if s.Test, err = t.expr(s.Test); err != nil {
			return nil, err
		}
		if s.Then, err = t.stmt(s.Then); err != nil {
			return nil, err
		}
		if s.Else != nil {
			s.Else, err = t.stmt(s.Else)
		}
	case *ReturnStmt:
		if s.X != nil {
			s.X, err = t.expr(s.X)
		}
	case *ThrowStmt:
		s.X, err = t.expr(s.X)
	case *VarDecl:
		for _, d := range s.Decls {
			if d.Init == nil {
				continue
			}
			if d.Init, err = t.expr(d.Init); err != nil {
				return nil, err
			}
		}
	case *FuncDecl:
		if err = t.params(s.Params); err != nil {
			return nil, err
		}
		err = t.block(s.Body, FuncBody)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (t *Transformer) params(params []*Param) error {
	for _, p := range params {
		if p.Default == nil {
			continue
		}
		d, err := t.expr(p.Default)
		if err != nil {
			return err
		}
		p.Default = d
	}
	return nil
}

func (t *Transformer) exprs(list []Expr) error {
	for i, e := range list {
		if e == nil {
			continue
		}
		ne, err := t.expr(e)
		if err != nil {
			return err
		}
		list[i] = ne
	}
	return nil
}

func (t *Transformer) expr(e Expr) (Expr, error) {
	if e == nil {
		return nil, nil
	}
	if t.Expr != nil {
		ne, handled, err := t.Expr(e)
		if err != nil {
			return nil, err
		}
		if handled {
			return ne, nil
		}
	}

	var err error
	switch e := e.(type) {
	case *TemplateLit:
		err = t.exprs(e.Exprs)
	case *TaggedTemplate:
		if e.Tag, err = t.expr(e.Tag); err != nil {
			return nil, err
		}
		err = t.exprs(e.Quasi.Exprs)
	case *ArrayLit:
		err = t.exprs(e.Elems)
	case *ObjectLit:
		for _, p := range e.Props {
			if p.Computed {
				if p.Key, err = t.expr(p.Key); err != nil {
					return nil, err
				}
			}
			if p.Shorthand {
				continue
			}
			if p.Value, err = t.expr(p.Value); err != nil {
				return nil, err
			}
		}
	case *SpreadElement:
		e.Arg, err = t.expr(e.Arg)
	case *ArrowFunc:
		if err = t.params(e.Params); err != nil {
			return nil, err
		}
		if e.Body != nil {
			err = t.block(e.Body, FuncBody)
		} else {
			e.ExprBody, err = t.expr(e.ExprBody)
		}
	case *FuncExpr:
		if err = t.params(e.Params); err != nil {
			return nil, err
		}
		err = t.block(e.Body, FuncBody)
	case *CallExpr:
		if e.Callee, err = t.expr(e.Callee); err != nil {
			return nil, err
		}
		err = t.exprs(e.Args)
	case *NewExpr:
		if e.Callee, err = t.expr(e.Callee); err != nil {
			return nil, err
		}
		err = t.exprs(e.Args)
	case *MemberExpr:
		if e.Object, err = t.expr(e.Object); err != nil {
			return nil, err
		}
		if e.Computed {
			e.Property, err = t.expr(e.Property)
		}
	case *NonNullExpr:
		e.X, err = t.expr(e.X)
	case *UnaryExpr:
		e.X, err = t.expr(e.X)
	case *BinaryExpr:
		if e.Left, err = t.expr(e.Left); err != nil {
			return nil, err
		}
		e.Right, err = t.expr(e.Right)
	case *LogicalExpr:
		if e.Left, err = t.expr(e.Left); err != nil {
			return nil, err
		}
		e.Right, err = t.expr(e.Right)
	case *ConditionalExpr:
		if e.Test, err = t.expr(e.Test); err != nil {
			return nil, err
		}
		if e.Then, err = t.expr(e.Then); err != nil {
			return nil, err
		}
		e.Else, err = t.expr(e.Else)
	case *AssignExpr:
		e.Value, err = t.expr(e.Value)
	case *ParenExpr:
		e.X, err = t.expr(e.X)
	case *AsExpr:
		e.X, err = t.expr(e.X)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
