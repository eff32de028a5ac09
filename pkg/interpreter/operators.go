package interpreter

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/einah-lang/einah/pkg/parser"
)

// binaryOperate applies op to two evaluated operands. Operand kinds an
// operator has no rule for produce Null rather than an error.
func (i *Interpreter) binaryOperate(lhs, rhs Value, op parser.Operator) (Value, error) {
	switch {
	case op.IsArithmetic():
		l, lok := lhs.(Number)
		r, rok := rhs.(Number)
		if !lok || !rok {
			return i.mismatch(lhs, rhs, op), nil
		}

		return arithmetic(float64(l), float64(r), op)
	case op.IsEquality():
		eq := valuesEqual(lhs, rhs)
		if op == parser.NotEqual {
			return Boolean(!eq), nil
		}
		return Boolean(eq), nil
	case op.IsRelational():
		l, lok := lhs.(Number)
		r, rok := rhs.(Number)
		if !lok || !rok {
			return i.mismatch(lhs, rhs, op), nil
		}

		return compare(float64(l), float64(r), op)
	case op.IsLogical():
		l, lok := lhs.(Boolean)
		r, rok := rhs.(Boolean)
		if !lok || !rok {
			return i.mismatch(lhs, rhs, op), nil
		}

		if op == parser.LogicalAnd {
			return l && r, nil
		}
		return l || r, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %q", op)
	}
}

func (i *Interpreter) mismatch(lhs, rhs Value, op parser.Operator) Value {
	i.logger.Debug("binary operator on mismatched operands yields zip",
		slog.String("operator", string(op)),
		slog.String("left", string(lhs.Kind())),
		slog.String("right", string(rhs.Kind())),
	)

	return Null{}
}

func arithmetic(l, r float64, op parser.Operator) (Value, error) {
	switch op {
	case parser.Addition:
		return Number(l + r), nil
	case parser.Subtraction:
		return Number(l - r), nil
	case parser.Multiplication:
		return Number(l * r), nil
	case parser.Division:
		return Number(l / r), nil
	case parser.Modulo:
		return Number(math.Mod(l, r)), nil
	default:
		return nil, fmt.Errorf("unsupported arithmetic operator %q", op)
	}
}

func compare(l, r float64, op parser.Operator) (Value, error) {
	switch op {
	case parser.LessThan:
		return Boolean(l < r), nil
	case parser.GreaterThan:
		return Boolean(l > r), nil
	case parser.LessThanOrEqual:
		return Boolean(l <= r), nil
	case parser.GreaterThanOrEqual:
		return Boolean(l >= r), nil
	default:
		return nil, fmt.Errorf("unsupported comparison operator %q", op)
	}
}

// valuesEqual compares numbers and booleans structurally. Any other pair of
// values is unequal.
func valuesEqual(a, b Value) bool {
	switch a := a.(type) {
	case Number:
		b, ok := b.(Number)
		return ok && a == b
	case Boolean:
		b, ok := b.(Boolean)
		return ok && a == b
	default:
		return false
	}
}

func notOperate(v Value) Value {
	switch v := v.(type) {
	case Boolean:
		return !v
	case Number:
		return Boolean(v == 0)
	default:
		return Boolean(false)
	}
}

func (i *Interpreter) boolOrFail(val Value) (bool, error) {
	b, ok := val.(Boolean)
	if !ok {
		return false, fmt.Errorf("%w, got %s", ErrCondition, val.Kind())
	}

	return bool(b), nil
}

func (i *Interpreter) numberOrFail(what string, val Value) (float64, error) {
	n, ok := val.(Number)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number, got %s", ErrType, what, val.Kind())
	}

	return float64(n), nil
}

func (i *Interpreter) arrayOrFail(val Value) (*Array, error) {
	arr, ok := val.(*Array)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotIndexable, val.Kind())
	}

	return arr, nil
}
