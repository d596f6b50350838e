package pattern

import (
	"github.com/roach88/matchc/internal/syntax"
)

// Constraint is the classification of a guard clause's type constraint.
type Constraint struct {
	Kind Kind
	Test syntax.Expr
}

// Guard builds the test of subject against a type constraint:
//
//	literal            subject === literal
//	Qualified.Name     subject === Qualified.Name
//	Name               subject instanceof Name
//	A | B              test(A) || test(B)
func Guard(subject string, t syntax.Type) (Constraint, error) {
	switch t := t.(type) {
	case *syntax.ParenType:
		return Guard(subject, t.X)
	case *syntax.LiteralType:
		return Constraint{Kind: Equality, Test: compare("===", subject, t.Lit)}, nil
	case *syntax.TypeRef:
		if t.Qualified() {
			return Constraint{Kind: Equality, Test: compare("===", subject, syntax.Path(t.Name))}, nil
		}
		return Constraint{Kind: Membership, Test: compare("instanceof", subject, syntax.Name(t.Name[0]))}, nil
	case *syntax.UnionType:
		var test syntax.Expr
		for _, member := range t.Types {
			c, err := Guard(subject, member)
			if err != nil {
				return Constraint{}, err
			}
			if test == nil {
				test = c.Test
				continue
			}
			test = &syntax.LogicalExpr{Op: "||", Left: test, Right: c.Test}
		}
		return Constraint{Kind: Alternatives, Test: test}, nil
	case nil:
		return Constraint{}, &UnclassifiableError{Shape: "missing type constraint"}
	}
	return Constraint{}, &UnclassifiableError{Pos: t.Position(), Shape: constraintShape(t)}
}

func compare(op, subject string, right syntax.Expr) syntax.Expr {
	return &syntax.BinaryExpr{Op: op, Left: syntax.Name(subject), Right: right}
}

func constraintShape(t syntax.Type) string {
	switch t := t.(type) {
	case *syntax.KeywordType:
		return "type constraint " + t.Name
	case *syntax.ArrayType:
		return "array type constraint"
	case *syntax.TupleType:
		return "tuple type constraint"
	case *syntax.ObjectType:
		return "object type constraint"
	}
	return "type constraint"
}
