package parser_test

import (
	"testing"

	"github.com/einah-lang/einah/pkg/lexer"
	"github.com/einah-lang/einah/pkg/parser"
	"github.com/stretchr/testify/require"
)

func parseExprStmt(t *testing.T, src string) parser.Expr {
	t.Helper()
	r := require.New(t)

	prog, err := parser.ProduceAST(src)
	r.NoError(err)
	r.Len(prog.Body, 1)

	stmt, ok := prog.Body[0].(*parser.ExprStatement)
	r.True(ok, "expected *parser.ExprStatement, got %T", prog.Body[0])

	return stmt.Expr
}

func TestProduceAST_Empty(t *testing.T) {
	r := require.New(t)

	prog, err := parser.ProduceAST("   psst nothing here\n")
	r.NoError(err)
	r.Empty(prog.Body)
}

func TestProduceAST_NumericLiteral(t *testing.T) {
	expr := parseExprStmt(t, "3.5~")

	lit, ok := expr.(*parser.NumericLiteral)
	require.True(t, ok)
	require.Equal(t, 3.5, lit.Value)
}

func TestProduceAST_Precedence(t *testing.T) {
	r := require.New(t)

	expr := parseExprStmt(t, "1 + 2 * 3 < 10 &= yup~")

	and, ok := expr.(*parser.BinaryExpr)
	r.True(ok)
	r.Equal(parser.LogicalAnd, and.Operator)

	less, ok := and.Left.(*parser.BinaryExpr)
	r.True(ok)
	r.Equal(parser.LessThan, less.Operator)

	sum, ok := less.Left.(*parser.BinaryExpr)
	r.True(ok)
	r.Equal(parser.Addition, sum.Operator)

	product, ok := sum.Right.(*parser.BinaryExpr)
	r.True(ok)
	r.Equal(parser.Multiplication, product.Operator)
}

func TestProduceAST_LeftAssociative(t *testing.T) {
	r := require.New(t)

	expr := parseExprStmt(t, "10 - 4 - 3~")

	outer, ok := expr.(*parser.BinaryExpr)
	r.True(ok)

	inner, ok := outer.Left.(*parser.BinaryExpr)
	r.True(ok)
	r.Equal(10.0, inner.Left.(*parser.NumericLiteral).Value)
	r.Equal(3.0, outer.Right.(*parser.NumericLiteral).Value)
}

func TestProduceAST_AssignmentRightAssociative(t *testing.T) {
	r := require.New(t)

	expr := parseExprStmt(t, "a -> b -> 1~")

	outer, ok := expr.(*parser.AssignmentExpr)
	r.True(ok)
	r.Equal("a", outer.Assignee.(*parser.Identifier).Symbol)

	inner, ok := outer.Value.(*parser.AssignmentExpr)
	r.True(ok)
	r.Equal("b", inner.Assignee.(*parser.Identifier).Symbol)
}

func TestProduceAST_StackedNot(t *testing.T) {
	r := require.New(t)

	expr := parseExprStmt(t, "~!~!yup~")

	outer, ok := expr.(*parser.UnaryExpr)
	r.True(ok)
	_, ok = outer.Argument.(*parser.UnaryExpr)
	r.True(ok)
}

func TestProduceAST_IndexAndCall(t *testing.T) {
	r := require.New(t)

	expr := parseExprStmt(t, "grid.1.0~")
	outer, ok := expr.(*parser.IndexExpr)
	r.True(ok)
	r.Equal(0.0, outer.Index.(*parser.NumericLiteral).Value)
	_, ok = outer.Array.(*parser.IndexExpr)
	r.True(ok)

	expr = parseExprStmt(t, "add | 2, 3~")
	call, ok := expr.(*parser.CallExpr)
	r.True(ok)
	r.Equal("add", call.Callee.(*parser.Identifier).Symbol)
	r.Len(call.Arguments, 2)

	expr = parseExprStmt(t, "(random |) + 1~")
	sum, ok := expr.(*parser.BinaryExpr)
	r.True(ok)
	call, ok = sum.Left.(*parser.CallExpr)
	r.True(ok)
	r.Empty(call.Arguments)
}

func TestProduceAST_BareCallBeforeThen(t *testing.T) {
	r := require.New(t)

	prog, err := parser.ProduceAST(`
whisper ready| then [ spit 1~ ]
or check | then [ spit 2~ ]~`)
	r.NoError(err)
	r.Len(prog.Body, 1)

	cond, ok := prog.Body[0].(*parser.ConditionalStatement)
	r.True(ok)
	call, ok := cond.Condition.(*parser.CallExpr)
	r.True(ok, "expected *parser.CallExpr, got %T", cond.Condition)
	r.Equal("ready", call.Callee.(*parser.Identifier).Symbol)
	r.Empty(call.Arguments)

	elif, ok := cond.Else[0].(*parser.ConditionalStatement)
	r.True(ok)
	call, ok = elif.Condition.(*parser.CallExpr)
	r.True(ok, "expected *parser.CallExpr, got %T", elif.Condition)
	r.Equal("check", call.Callee.(*parser.Identifier).Symbol)
	r.Empty(call.Arguments)
}

func TestProduceAST_ObjectLiteralAndAccess(t *testing.T) {
	r := require.New(t)

	expr := parseExprStmt(t, "{name => #einah#; age => 3, #odd key# => zip}~")
	obj, ok := expr.(*parser.ObjectLiteral)
	r.True(ok)
	r.Len(obj.Properties, 3)
	r.Equal("name", obj.Properties[0].Key)
	r.Equal("odd key", obj.Properties[2].Key)

	expr = parseExprStmt(t, "person.name~")
	access, ok := expr.(*parser.ObjectAccess)
	r.True(ok)
	r.Equal("name", access.Key.(*parser.StringLiteral).Value)
}

func TestProduceAST_EmptyArray(t *testing.T) {
	expr := parseExprStmt(t, "[]~")

	arr, ok := expr.(*parser.ArrayLiteral)
	require.True(t, ok)
	require.Empty(t, arr.Elements)
}

func TestProduceAST_ConditionalDesugarsElif(t *testing.T) {
	r := require.New(t)

	prog, err := parser.ProduceAST(`
whisper x < 0 then [ spit #neg#~ ]
or x ~~ 0 then [ spit #zero#~ ]
or x < 10 then [ spit #small#~ ]
or [ spit #big#~ ]~`)
	r.NoError(err)
	r.Len(prog.Body, 1)

	top, ok := prog.Body[0].(*parser.ConditionalStatement)
	r.True(ok)
	r.Len(top.Then, 1)
	r.Len(top.Else, 1)

	second, ok := top.Else[0].(*parser.ConditionalStatement)
	r.True(ok)
	r.Equal(parser.Equal, second.Condition.(*parser.BinaryExpr).Operator)
	r.Len(second.Else, 1)

	third, ok := second.Else[0].(*parser.ConditionalStatement)
	r.True(ok)
	r.Len(third.Else, 1)
	_, ok = third.Else[0].(*parser.PrintStatement)
	r.True(ok)
}

func TestProduceAST_Loops(t *testing.T) {
	r := require.New(t)

	prog, err := parser.ProduceAST(`
spin forever [ shatter~ ]~
spin <<i < 5>> [ skip~ ]~
cartwheel i <<10, 0, -2>> [ spit i~ ]~
drift item <<[1, 2]>> [ spit item~ ]~`)
	r.NoError(err)
	r.Len(prog.Body, 4)

	forever, ok := prog.Body[0].(*parser.WhileLoop)
	r.True(ok)
	r.True(forever.Condition.(*parser.BooleanLiteral).Value)
	_, ok = forever.Body[0].(*parser.ShatterStatement)
	r.True(ok)

	while, ok := prog.Body[1].(*parser.WhileLoop)
	r.True(ok)
	_, ok = while.Body[0].(*parser.SkipStatement)
	r.True(ok)

	forLoop, ok := prog.Body[2].(*parser.ForLoop)
	r.True(ok)
	r.Equal("i", forLoop.Iterator)
	r.Equal(-2.0, forLoop.Step.(*parser.NumericLiteral).Value)

	each, ok := prog.Body[3].(*parser.ForEachLoop)
	r.True(ok)
	r.Equal("item", each.Iterator)
}

func TestProduceAST_FunctionDeclaration(t *testing.T) {
	r := require.New(t)

	prog, err := parser.ProduceAST("conjure add <<a, b>> [ zipback a + b~ ]~")
	r.NoError(err)

	fn, ok := prog.Body[0].(*parser.FunctionDeclaration)
	r.True(ok)
	r.Equal("add", fn.Name)
	r.Equal([]string{"a", "b"}, fn.Parameters)

	ret, ok := fn.Body[0].(*parser.ReturnStatement)
	r.True(ok)
	r.NotNil(ret.Argument)
}

func TestProduceAST_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"constant without initializer", "root x~"},
		{"missing terminator", "spit 1"},
		{"skip without terminator", "spin forever [ skip ]~"},
		{"unclosed paren", "(1 + 2~"},
		{"bad primary", "spit ]~"},
		{"elif without then", "whisper yup [ ]\nor nope [ ]~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)

			prog, err := parser.ProduceAST(tt.src)
			r.Error(err)
			r.Nil(prog)
			r.ErrorIs(err, parser.ErrUnexpectedToken)
		})
	}
}

func TestProduceAST_LexicalErrorPropagates(t *testing.T) {
	_, err := parser.ProduceAST("spit #open~")
	require.ErrorIs(t, err, lexer.ErrUnterminatedString)
}

func TestIsIncomplete(t *testing.T) {
	r := require.New(t)

	_, err := parser.ProduceAST("conjure f <<a>> [\n spit a~")
	r.True(parser.IsIncomplete(err))

	_, err = parser.ProduceAST("spit ]~")
	r.False(parser.IsIncomplete(err))
}

func TestSyntaxErrorPosition(t *testing.T) {
	r := require.New(t)

	_, err := parser.ProduceAST("spit 1~\nspit 2 3~")

	var syntaxErr *parser.SyntaxError
	r.ErrorAs(err, &syntaxErr)
	r.Equal(parser.Position{Line: 2, Column: 8}, syntaxErr.Position)
}
