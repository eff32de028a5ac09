package parser

import (
	"fmt"

	"github.com/einah-lang/einah/pkg/token"
)

type Operator string

const (
	Addition       Operator = "+"
	Subtraction    Operator = "-"
	Multiplication Operator = "*"
	Division       Operator = "/"
	Modulo         Operator = "%"

	Equal              Operator = "~~"
	NotEqual           Operator = "!~"
	LessThan           Operator = "<"
	GreaterThan        Operator = ">"
	LessThanOrEqual    Operator = "<~"
	GreaterThanOrEqual Operator = ">~"

	LogicalAnd Operator = "&="
	LogicalOr  Operator = "|="

	Not Operator = "~!"
)

func (o Operator) IsArithmetic() bool {
	switch o {
	case Addition,
		Subtraction,
		Multiplication,
		Division,
		Modulo:
		return true
	default:
		return false
	}
}

func (o Operator) IsEquality() bool {
	return o == Equal || o == NotEqual
}

func (o Operator) IsRelational() bool {
	switch o {
	case LessThan,
		GreaterThan,
		LessThanOrEqual,
		GreaterThanOrEqual:
		return true
	default:
		return false
	}
}

func (o Operator) IsLogical() bool {
	return o == LogicalAnd || o == LogicalOr
}

// precedence tiers from lowest to highest binding; each tier is left
// associative
var binaryTiers = [][]token.Kind{
	{token.Or},
	{token.And},
	{token.Eq, token.Neq},
	{token.Less, token.Greater, token.LessEq, token.GreaterEq},
	{token.Plus, token.Minus},
	{token.Star, token.Slash, token.Percent},
}

var tokenOperators = map[token.Kind]Operator{
	token.Plus:      Addition,
	token.Minus:     Subtraction,
	token.Star:      Multiplication,
	token.Slash:     Division,
	token.Percent:   Modulo,
	token.Eq:        Equal,
	token.Neq:       NotEqual,
	token.Less:      LessThan,
	token.Greater:   GreaterThan,
	token.LessEq:    LessThanOrEqual,
	token.GreaterEq: GreaterThanOrEqual,
	token.And:       LogicalAnd,
	token.Or:        LogicalOr,
	token.Not:       Not,
}

func operatorFor(kind token.Kind) (Operator, error) {
	op, ok := tokenOperators[kind]
	if !ok {
		return "", fmt.Errorf("token %s is not an operator", kind)
	}

	return op, nil
}
