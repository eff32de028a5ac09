package interpreter

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/einah-lang/einah/pkg/parser"
)

func (i *Interpreter) executeExpression(ctx context.Context, env Env, expr parser.Expr) (Value, error) {
	switch expr := expr.(type) {
	case *parser.NumericLiteral:
		return Number(expr.Value), nil
	case *parser.BooleanLiteral:
		return Boolean(expr.Value), nil
	case *parser.StringLiteral:
		return String(expr.Value), nil
	case *parser.NullLiteral:
		return Null{}, nil
	case *parser.Identifier:
		val, err := env.LookUp(expr.Symbol)
		if err != nil {
			return nil, expr.WrapError(err)
		}

		return val, nil
	case *parser.BinaryExpr:
		lhs, err := i.executeExpression(ctx, env, expr.Left)
		if err != nil {
			return nil, err
		}

		rhs, err := i.executeExpression(ctx, env, expr.Right)
		if err != nil {
			return nil, err
		}

		result, err := i.binaryOperate(lhs, rhs, expr.Operator)
		if err != nil {
			return nil, expr.WrapError(err)
		}

		return result, nil
	case *parser.UnaryExpr:
		val, err := i.executeExpression(ctx, env, expr.Argument)
		if err != nil {
			return nil, err
		}

		switch expr.Operator {
		case parser.Not:
			return notOperate(val), nil
		default:
			return nil, expr.WrapError(fmt.Errorf("unhandled unary operator %q", expr.Operator))
		}
	case *parser.AssignmentExpr:
		ident, ok := expr.Assignee.(*parser.Identifier)
		if !ok {
			return nil, expr.WrapError(fmt.Errorf("%w: left side of '->' must be a name, got %T", ErrAssignTarget, expr.Assignee))
		}

		val, err := i.executeExpression(ctx, env, expr.Value)
		if err != nil {
			return nil, err
		}

		val, err = env.Assign(ident.Symbol, val)
		if err != nil {
			return nil, expr.WrapError(err)
		}

		return val, nil
	case *parser.ArrayLiteral:
		var elems []Value
		for _, elemExpr := range expr.Elements {
			elem, err := i.executeExpression(ctx, env, elemExpr)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}

		return NewArray(elems...), nil
	case *parser.ObjectLiteral:
		obj := NewObject()
		for _, prop := range expr.Properties {
			val, err := i.executeExpression(ctx, env, prop.Value)
			if err != nil {
				return nil, err
			}
			obj.Properties[prop.Key] = val
		}

		return obj, nil
	case *parser.IndexExpr:
		base, err := i.executeExpression(ctx, env, expr.Array)
		if err != nil {
			return nil, err
		}

		index, err := i.executeExpression(ctx, env, expr.Index)
		if err != nil {
			return nil, err
		}

		val, err := i.index(base, index)
		if err != nil {
			return nil, expr.WrapError(err)
		}

		return val, nil
	case *parser.ObjectAccess:
		base, err := i.executeExpression(ctx, env, expr.Object)
		if err != nil {
			return nil, err
		}

		key, err := i.executeExpression(ctx, env, expr.Key)
		if err != nil {
			return nil, err
		}

		val, err := i.property(base, key)
		if err != nil {
			return nil, expr.WrapError(err)
		}

		return val, nil
	case *parser.CallExpr:
		return i.executeCall(ctx, env, expr)
	default:
		return nil, expr.WrapError(fmt.Errorf("unhandled expression type: %T", expr))
	}
}

func (i *Interpreter) index(base, index Value) (Value, error) {
	arr, err := i.arrayOrFail(base)
	if err != nil {
		return nil, err
	}

	n, err := i.numberOrFail("array index", index)
	if err != nil {
		return nil, err
	}

	if n != math.Trunc(n) {
		return nil, fmt.Errorf("%w: array index must be a whole number, got %s", ErrType, FormatNumber(n))
	}

	if n < 0 || n >= float64(len(arr.Elements)) {
		return nil, fmt.Errorf("%w: index %s, length %d", ErrIndexOutOfBounds, FormatNumber(n), len(arr.Elements))
	}

	return arr.Elements[int(n)], nil
}

func (i *Interpreter) property(base, key Value) (Value, error) {
	obj, ok := base.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: cannot access property of %s", ErrType, base.Kind())
	}

	name, ok := key.(String)
	if !ok {
		return nil, fmt.Errorf("%w: property key must be a string, got %s", ErrType, key.Kind())
	}

	val, ok := obj.Properties[string(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingProperty, string(name))
	}

	return val, nil
}

func (i *Interpreter) executeCall(ctx context.Context, env Env, expr *parser.CallExpr) (Value, error) {
	callee, err := i.executeExpression(ctx, env, expr.Callee)
	if err != nil {
		return nil, err
	}

	switch callee.(type) {
	case *Function, *NativeFunction:
	default:
		return nil, expr.WrapError(fmt.Errorf("%w: %s", ErrNotCallable, callee.Kind()))
	}

	args := make([]Value, 0, len(expr.Arguments))
	for _, argExpr := range expr.Arguments {
		arg, err := i.executeExpression(ctx, env, argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	switch fn := callee.(type) {
	case *NativeFunction:
		if len(args) != fn.Arity {
			return nil, expr.WrapError(fmt.Errorf("%w: %s expects %d, got %d", ErrArity, fn.Name, fn.Arity, len(args)))
		}

		val, err := fn.Func(args)
		if err != nil {
			return nil, expr.WrapError(fmt.Errorf("%s: %w", fn.Name, err))
		}

		return orNull(val), nil
	case *Function:
		if len(args) != len(fn.Parameters) {
			return nil, expr.WrapError(fmt.Errorf("%w: %s expects %d, got %d", ErrArity, fn.Name, len(fn.Parameters), len(args)))
		}

		val, err := i.executeFunction(ctx, fn, args)
		if err != nil {
			return nil, expr.WrapError(err)
		}

		return val, nil
	default:
		return nil, expr.WrapError(fmt.Errorf("%w: %s", ErrNotCallable, callee.Kind()))
	}
}

func (i *Interpreter) executeFunction(ctx context.Context, fn *Function, args []Value) (Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if i.depth >= i.Config.MaxCallDepth {
		return nil, fmt.Errorf("%w (%d) calling %s", ErrCallDepth, i.Config.MaxCallDepth, fn.Name)
	}

	i.depth++
	defer func() { i.depth-- }()

	scope := fn.Scope.Child()
	defer scope.Release()

	for idx, param := range fn.Parameters {
		_, err := scope.Declare(param, args[idx], true)
		if err != nil {
			return nil, err
		}
	}

	i.logger.Debug("call", slog.String("function", fn.Name), slog.Int("depth", i.depth))

	res, err := i.executeStatements(ctx, scope, fn.Body)
	if err != nil {
		return nil, err
	}

	switch res.Signal {
	case SignalSkip, SignalShatter:
		return nil, fmt.Errorf("%w: %s escaped function %s", ErrLoopSignal, res.Signal, fn.Name)
	}

	return orNull(res.Value), nil
}
