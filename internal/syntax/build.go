package syntax

// Name returns a synthesized identifier.
func Name(name string) *Ident { return &Ident{Name: name} }

// Member returns obj.name.
func Member(obj Expr, name string) *MemberExpr {
	return &MemberExpr{Object: obj, Property: Name(name)}
}

// Path returns the member chain a.b.c for names [a b c].
func Path(names []string) Expr {
	if len(names) == 0 {
		return nil
	}
	var e Expr = Name(names[0])
	for _, n := range names[1:] {
		e = Member(e, n)
	}
	return e
}

// Call returns callee(args...).
func Call(callee Expr, args ...Expr) *CallExpr {
	return &CallExpr{Callee: callee, Args: args}
}

// MethodCall returns recv.method(args...).
func MethodCall(recv Expr, method string, args ...Expr) *CallExpr {
	return Call(Member(recv, method), args...)
}

// Thunk returns () => x.
func Thunk(x Expr) *ArrowFunc {
	return &ArrowFunc{ExprBody: x}
}

// Returning returns a block holding the single statement return x;
func Returning(x Expr) *BlockStmt {
	return &BlockStmt{Body: []Stmt{&ReturnStmt{X: x}}}
}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// Directive reports whether s is a directive statement ('use match';) and
// returns its string value.
func Directive(s Stmt) (string, bool) {
	es, ok := s.(*ExprStmt)
	if !ok {
		return "", false
	}
	lit, ok := es.X.(*StringLit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// HasDirective reports whether the statement list opens with the given directive.
func HasDirective(list []Stmt, value string) bool {
	if len(list) == 0 {
		return false
	}
	v, ok := Directive(list[0])
	return ok && v == value
}

// BoundNames lists the names a parameter list binds, in source order,
// looking through array and object destructuring.
func BoundNames(params []*Param) []string {
	var names []string
	for _, p := range params {
		names = appendBound(names, p.Target)
	}
	return names
}

func appendBound(names []string, target Expr) []string {
	switch t := target.(type) {
	case *Ident:
		return append(names, t.Name)
	case *ArrayLit:
		for _, el := range t.Elems {
			if el != nil {
				names = appendBound(names, el)
			}
		}
	case *ObjectLit:
		for _, p := range t.Props {
			names = appendBound(names, p.Value)
		}
	case *SpreadElement:
		return appendBound(names, t.Arg)
	case *AssignExpr:
		return appendBound(names, t.Target)
	}
	return names
}
