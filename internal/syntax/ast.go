package syntax

import "fmt"

// Pos is a 1-based source position. The zero Pos means "synthesized".
type Pos struct {
	Line   int
	Column int
}

// IsValid reports whether p refers to a real source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is implemented by every tree node.
type Node interface {
	Position() Pos
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Type is a type-annotation node.
type Type interface {
	Node
	typeNode()
}

// --- Expressions ---

// Ident is a bare name, e.g. value or Λ.
type Ident struct {
	Start Pos
	Name  string
}

// NumberLit is a numeric literal. Raw keeps the source spelling.
type NumberLit struct {
	Start Pos
	Raw   string
	Value float64
}

// StringLit is a quoted string literal. Raw includes the quotes.
type StringLit struct {
	Start Pos
	Raw   string
	Value string
}

// BoolLit is true or false.
type BoolLit struct {
	Start Pos
	Value bool
}

// NullLit is null.
type NullLit struct {
	Start Pos
}

// TemplateLit is a template literal. Quasis holds the raw text fragments;
// len(Quasis) == len(Exprs)+1 and Exprs[i] sits between Quasis[i] and Quasis[i+1].
type TemplateLit struct {
	Start  Pos
	Quasis []string
	Exprs  []Expr
}

// TaggedTemplate is a tag expression applied to a template literal,
// e.g. Λ("match")`...`.
type TaggedTemplate struct {
	Start Pos
	Tag   Expr
	Quasi *TemplateLit
}

// ArrayLit is an array literal or array binding pattern. A nil element is a hole.
type ArrayLit struct {
	Start Pos
	Elems []Expr
}

// ObjectLit is an object literal or object binding pattern.
type ObjectLit struct {
	Start Pos
	Props []*Property
}

// Property is one member of an ObjectLit.
// For a spread member only Value is set.
type Property struct {
	Start     Pos
	Key       Expr
	Value     Expr
	Computed  bool
	Shorthand bool
	Spread    bool
}

// SpreadElement is ...x inside an array literal or argument list.
type SpreadElement struct {
	Start Pos
	Arg   Expr
}

// Param is one parameter of a function.
type Param struct {
	Start    Pos
	Target   Expr // *Ident, *ArrayLit or *ObjectLit
	Type     Type
	Default  Expr
	Optional bool
	Rest     bool
}

// ArrowFunc is an arrow function. Exactly one of Body and ExprBody is set.
type ArrowFunc struct {
	Start      Pos
	Params     []*Param
	ReturnType Type
	Body       *BlockStmt
	ExprBody   Expr
}

// FuncExpr is a function expression.
type FuncExpr struct {
	Start      Pos
	Name       *Ident
	Params     []*Param
	ReturnType Type
	Body       *BlockStmt
}

// CallExpr is a call, optionally with explicit type arguments.
type CallExpr struct {
	Start    Pos
	Callee   Expr
	TypeArgs []Type
	Args     []Expr
	Optional bool
}

// NewExpr is a constructor call.
type NewExpr struct {
	Start    Pos
	Callee   Expr
	TypeArgs []Type
	Args     []Expr
}

// MemberExpr is x.y, x?.y or x[y]. A non-computed Property is an *Ident.
type MemberExpr struct {
	Start    Pos
	Object   Expr
	Property Expr
	Computed bool
	Optional bool
}

// NonNullExpr is the postfix assertion x!.
type NonNullExpr struct {
	Start Pos
	X     Expr
}

// UnaryExpr is a prefix operator applied to X.
type UnaryExpr struct {
	Start Pos
	Op    string
	X     Expr
}

// BinaryExpr is an arithmetic, comparison, instanceof or in expression.
type BinaryExpr struct {
	Start Pos
	Op    string
	Left  Expr
	Right Expr
}

// LogicalExpr is &&, || or ??.
type LogicalExpr struct {
	Start Pos
	Op    string
	Left  Expr
	Right Expr
}

// ConditionalExpr is Test ? Then : Else.
type ConditionalExpr struct {
	Start Pos
	Test  Expr
	Then  Expr
	Else  Expr
}

// AssignExpr is Target Op Value, where Op is = or a compound assignment.
type AssignExpr struct {
	Start  Pos
	Op     string
	Target Expr
	Value  Expr
}

// ParenExpr keeps source parentheses, which carry meaning for arrow bodies.
type ParenExpr struct {
	Start Pos
	X     Expr
}

// AsExpr is the type ascription X as Type.
type AsExpr struct {
	Start Pos
	X     Expr
	Type  Type
}

// --- Statements ---

// ExprStmt is an expression used as a statement. Directives are ExprStmts
// holding a *StringLit.
type ExprStmt struct {
	Start Pos
	X     Expr
}

// BlockStmt is a braced statement list.
type BlockStmt struct {
	Start Pos
	Body  []Stmt
}

// IfStmt is if (Test) Then else Else. Else is nil, an *IfStmt or any other statement.
type IfStmt struct {
	Start Pos
	Test  Expr
	Then  Stmt
	Else  Stmt
}

// ReturnStmt returns X, which may be nil.
type ReturnStmt struct {
	Start Pos
	X     Expr
}

// ThrowStmt throws X.
type ThrowStmt struct {
	Start Pos
	X     Expr
}

// VarDecl is a const, let or var declaration.
type VarDecl struct {
	Start    Pos
	Kind     string
	Decls    []*Declarator
	Exported bool
}

// Declarator is one binding of a VarDecl.
type Declarator struct {
	Start  Pos
	Target Expr
	Type   Type
	Init   Expr
}

// FuncDecl is a function declaration.
type FuncDecl struct {
	Start      Pos
	Name       *Ident
	Params     []*Param
	ReturnType Type
	Body       *BlockStmt
	Exported   bool
}

// TypeAlias is type Name<Params> = Type.
type TypeAlias struct {
	Start      Pos
	Name       *Ident
	TypeParams []*Ident
	Type       Type
	Exported   bool
}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	Start Pos
}

// Program is a parsed source file.
type Program struct {
	Body []Stmt
}

// --- Types ---

// LiteralType is a literal used as a type, e.g. 1, "a", -1 or true.
// Lit is a *NumberLit, *StringLit, *BoolLit or a negated *NumberLit.
type LiteralType struct {
	Start Pos
	Lit   Expr
}

// KeywordType is a predefined type such as number or unknown.
type KeywordType struct {
	Start Pos
	Name  string
}

// TypeRef is a (possibly qualified) type name with optional type arguments.
type TypeRef struct {
	Start Pos
	Name  []string
	Args  []Type
}

// UnionType is A | B | ...
type UnionType struct {
	Start Pos
	Types []Type
}

// ArrayType is Elem[].
type ArrayType struct {
	Start Pos
	Elem  Type
}

// TupleType is [A, B].
type TupleType struct {
	Start Pos
	Elems []Type
}

// ObjectType is an object type literal { a: A; b?: B }.
type ObjectType struct {
	Start   Pos
	Members []*TypeMember
}

// TypeMember is one member of an ObjectType.
type TypeMember struct {
	Name     string
	Optional bool
	Type     Type
}

// ParenType is (Type).
type ParenType struct {
	Start Pos
	X     Type
}

// Qualified reports whether the reference names a member of a namespace, e.g. Event.A.
func (t *TypeRef) Qualified() bool { return len(t.Name) > 1 }

func (n *Ident) Position() Pos           { return n.Start }
func (n *NumberLit) Position() Pos       { return n.Start }
func (n *StringLit) Position() Pos       { return n.Start }
func (n *BoolLit) Position() Pos         { return n.Start }
func (n *NullLit) Position() Pos         { return n.Start }
func (n *TemplateLit) Position() Pos     { return n.Start }
func (n *TaggedTemplate) Position() Pos  { return n.Start }
func (n *ArrayLit) Position() Pos        { return n.Start }
func (n *ObjectLit) Position() Pos       { return n.Start }
func (n *Property) Position() Pos        { return n.Start }
func (n *SpreadElement) Position() Pos   { return n.Start }
func (n *Param) Position() Pos           { return n.Start }
func (n *ArrowFunc) Position() Pos       { return n.Start }
func (n *FuncExpr) Position() Pos        { return n.Start }
func (n *CallExpr) Position() Pos        { return n.Start }
func (n *NewExpr) Position() Pos         { return n.Start }
func (n *MemberExpr) Position() Pos      { return n.Start }
func (n *NonNullExpr) Position() Pos     { return n.Start }
func (n *UnaryExpr) Position() Pos       { return n.Start }
func (n *BinaryExpr) Position() Pos      { return n.Start }
func (n *LogicalExpr) Position() Pos     { return n.Start }
func (n *ConditionalExpr) Position() Pos { return n.Start }
func (n *AssignExpr) Position() Pos      { return n.Start }
func (n *ParenExpr) Position() Pos       { return n.Start }
func (n *AsExpr) Position() Pos          { return n.Start }

func (n *ExprStmt) Position() Pos   { return n.Start }
func (n *BlockStmt) Position() Pos  { return n.Start }
func (n *IfStmt) Position() Pos     { return n.Start }
func (n *ReturnStmt) Position() Pos { return n.Start }
func (n *ThrowStmt) Position() Pos  { return n.Start }
func (n *VarDecl) Position() Pos    { return n.Start }
func (n *Declarator) Position() Pos { return n.Start }
func (n *FuncDecl) Position() Pos   { return n.Start }
func (n *TypeAlias) Position() Pos  { return n.Start }
func (n *EmptyStmt) Position() Pos  { return n.Start }

func (n *Program) Position() Pos {
	if len(n.Body) == 0 {
		return Pos{}
	}
	return n.Body[0].Position()
}

func (n *LiteralType) Position() Pos { return n.Start }
func (n *KeywordType) Position() Pos { return n.Start }
func (n *TypeRef) Position() Pos     { return n.Start }
func (n *UnionType) Position() Pos   { return n.Start }
func (n *ArrayType) Position() Pos   { return n.Start }
func (n *TupleType) Position() Pos   { return n.Start }
func (n *ObjectType) Position() Pos  { return n.Start }
func (n *ParenType) Position() Pos   { return n.Start }

func (*Ident) exprNode()           {}
func (*NumberLit) exprNode()       {}
func (*StringLit) exprNode()       {}
func (*BoolLit) exprNode()         {}
func (*NullLit) exprNode()         {}
func (*TemplateLit) exprNode()     {}
func (*TaggedTemplate) exprNode()  {}
func (*ArrayLit) exprNode()        {}
func (*ObjectLit) exprNode()       {}
func (*SpreadElement) exprNode()   {}
func (*ArrowFunc) exprNode()       {}
func (*FuncExpr) exprNode()        {}
func (*CallExpr) exprNode()        {}
func (*NewExpr) exprNode()         {}
func (*MemberExpr) exprNode()      {}
func (*NonNullExpr) exprNode()     {}
func (*UnaryExpr) exprNode()       {}
func (*BinaryExpr) exprNode()      {}
func (*LogicalExpr) exprNode()     {}
func (*ConditionalExpr) exprNode() {}
func (*AssignExpr) exprNode()      {}
func (*ParenExpr) exprNode()       {}
func (*AsExpr) exprNode()          {}

func (*ExprStmt) stmtNode()   {}
func (*BlockStmt) stmtNode()  {}
func (*IfStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode() {}
func (*ThrowStmt) stmtNode()  {}
func (*VarDecl) stmtNode()    {}
func (*FuncDecl) stmtNode()   {}
func (*TypeAlias) stmtNode()  {}
func (*EmptyStmt) stmtNode()  {}

func (*LiteralType) typeNode() {}
func (*KeywordType) typeNode() {}
func (*TypeRef) typeNode()     {}
func (*UnionType) typeNode()   {}
func (*ArrayType) typeNode()   {}
func (*TupleType) typeNode()   {}
func (*ObjectType) typeNode()  {}
func (*ParenType) typeNode()   {}
