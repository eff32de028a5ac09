package parser

type Node interface {
	Pos() Position
	WrapError(err error) error
}

type Stmt interface {
	Node
	stmt()
}

type Expr interface {
	Node
	expr()
}

type Program struct {
	Position

	Body []Stmt
}

func (*Program) stmt() {}

type VarDeclaration struct {
	Position

	Constant bool
	Name     string
	Value    Expr
}

func (*VarDeclaration) stmt() {}

type PrintStatement struct {
	Position

	Argument Expr
}

func (*PrintStatement) stmt() {}

type ExprStatement struct {
	Position

	Expr Expr
}

func (*ExprStatement) stmt() {}

// ConditionalStatement holds a single then/else pair. An elif chain is a
// ConditionalStatement that is the only entry of its parent's Else.
type ConditionalStatement struct {
	Position

	Condition Expr
	Then      []Stmt
	Else      []Stmt
}

func (*ConditionalStatement) stmt() {}

type WhileLoop struct {
	Position

	Condition Expr
	Body      []Stmt
}

func (*WhileLoop) stmt() {}

type ForLoop struct {
	Position

	Iterator string
	Start    Expr
	End      Expr
	Step     Expr
	Body     []Stmt
}

func (*ForLoop) stmt() {}

type ForEachLoop struct {
	Position

	Iterator string
	Iterable Expr
	Body     []Stmt
}

func (*ForEachLoop) stmt() {}

type SkipStatement struct {
	Position
}

func (*SkipStatement) stmt() {}

type ShatterStatement struct {
	Position
}

func (*ShatterStatement) stmt() {}

type FunctionDeclaration struct {
	Position

	Name       string
	Parameters []string
	Body       []Stmt
}

func (*FunctionDeclaration) stmt() {}

type ReturnStatement struct {
	Position

	Argument Expr
}

func (*ReturnStatement) stmt() {}

type BlockStatement struct {
	Position

	Body []Stmt
}

func (*BlockStatement) stmt() {}

type AssignmentExpr struct {
	Position

	Assignee Expr
	Value    Expr
}

func (*AssignmentExpr) expr() {}

type BinaryExpr struct {
	Position

	Left     Expr
	Operator Operator
	Right    Expr
}

func (*BinaryExpr) expr() {}

type UnaryExpr struct {
	Position

	Operator Operator
	Argument Expr
}

func (*UnaryExpr) expr() {}

type Identifier struct {
	Position

	Symbol string
}

func (*Identifier) expr() {}

type NumericLiteral struct {
	Position

	Value float64
}

func (*NumericLiteral) expr() {}

type BooleanLiteral struct {
	Position

	Value bool
}

func (*BooleanLiteral) expr() {}

type NullLiteral struct {
	Position
}

func (*NullLiteral) expr() {}

type StringLiteral struct {
	Position

	Value string
}

func (*StringLiteral) expr() {}

type ArrayLiteral struct {
	Position

	Elements []Expr
}

func (*ArrayLiteral) expr() {}

type IndexExpr struct {
	Position

	Array Expr
	Index Expr
}

func (*IndexExpr) expr() {}

type Property struct {
	Key   string
	Value Expr
}

type ObjectLiteral struct {
	Position

	Properties []Property
}

func (*ObjectLiteral) expr() {}

type ObjectAccess struct {
	Position

	Object Expr
	Key    Expr
}

func (*ObjectAccess) expr() {}

type CallExpr struct {
	Position

	Callee    Expr
	Arguments []Expr
}

func (*CallExpr) expr() {}
