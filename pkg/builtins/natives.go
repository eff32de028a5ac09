package builtins

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/einah-lang/einah/pkg/interpreter"
)

var (
	ErrArgument   = errors.New("bad argument")
	ErrEmptyArray = errors.New("pop on empty array")
)

// Natives returns the native functions every program can call. rng backs
// random; a nil rng draws from the global source.
func Natives(rng *rand.Rand) []*interpreter.NativeFunction {
	draw := rand.Float64
	if rng != nil {
		draw = rng.Float64
	}

	return []*interpreter.NativeFunction{
		{
			Name:  "length",
			Arity: 1,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				switch v := args[0].(type) {
				case *interpreter.Array:
					return interpreter.Number(len(v.Elements)), nil
				case interpreter.String:
					return interpreter.Number(utf8.RuneCountInString(string(v))), nil
				case *interpreter.Object:
					return interpreter.Number(len(v.Properties)), nil
				default:
					return nil, argError("array, string or object", args[0])
				}
			},
		},
		{
			Name:  "push",
			Arity: 2,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				arr, ok := args[0].(*interpreter.Array)
				if !ok {
					return nil, argError("array", args[0])
				}

				elems := slices.Clone(arr.Elements)
				return interpreter.NewArray(append(elems, args[1])...), nil
			},
		},
		{
			Name:  "pop",
			Arity: 1,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				arr, ok := args[0].(*interpreter.Array)
				if !ok {
					return nil, argError("array", args[0])
				}

				if len(arr.Elements) == 0 {
					return nil, ErrEmptyArray
				}

				return interpreter.NewArray(slices.Clone(arr.Elements[:len(arr.Elements)-1])...), nil
			},
		},
		{
			Name:  "slice",
			Arity: 3,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				arr, ok := args[0].(*interpreter.Array)
				if !ok {
					return nil, argError("array", args[0])
				}

				from, ok := args[1].(interpreter.Number)
				if !ok {
					return nil, argError("number", args[1])
				}

				to, ok := args[2].(interpreter.Number)
				if !ok {
					return nil, argError("number", args[2])
				}

				hi := clampIndex(float64(to), len(arr.Elements))
				lo := min(clampIndex(float64(from), len(arr.Elements)), hi)

				if hi == 0 {
					return interpreter.NewArray(), nil
				}

				return interpreter.NewArray(slices.Clone(arr.Elements[lo:hi])...), nil
			},
		},
		{
			Name:  "keys",
			Arity: 1,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				obj, ok := args[0].(*interpreter.Object)
				if !ok {
					return nil, argError("object", args[0])
				}

				var keys []interpreter.Value
				for _, key := range slices.Sorted(maps.Keys(obj.Properties)) {
					keys = append(keys, interpreter.String(key))
				}

				return interpreter.NewArray(keys...), nil
			},
		},
		{
			Name:  "has",
			Arity: 2,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				obj, ok := args[0].(*interpreter.Object)
				if !ok {
					return nil, argError("object", args[0])
				}

				var key string
				switch k := args[1].(type) {
				case interpreter.String:
					key = string(k)
				case interpreter.Number:
					key = strconv.Itoa(int(k))
				default:
					return nil, argError("string or number key", args[1])
				}

				_, found := obj.Properties[key]
				return interpreter.Boolean(found), nil
			},
		},
		{
			Name:  "split",
			Arity: 2,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				s, ok := args[0].(interpreter.String)
				if !ok {
					return nil, argError("string", args[0])
				}

				sep, ok := args[1].(interpreter.String)
				if !ok {
					return nil, argError("string", args[1])
				}

				var parts []interpreter.Value
				for _, part := range strings.Split(string(s), string(sep)) {
					parts = append(parts, interpreter.String(part))
				}

				return interpreter.NewArray(parts...), nil
			},
		},
		{
			Name:  "random",
			Arity: 0,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				return interpreter.Number(draw()), nil
			},
		},
		{
			Name:  "floor",
			Arity: 1,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				n, ok := args[0].(interpreter.Number)
				if !ok {
					return nil, argError("number", args[0])
				}

				return interpreter.Number(math.Floor(float64(n))), nil
			},
		},
		{
			Name:  "ceil",
			Arity: 1,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				n, ok := args[0].(interpreter.Number)
				if !ok {
					return nil, argError("number", args[0])
				}

				return interpreter.Number(math.Ceil(float64(n))), nil
			},
		},
		{
			Name:  "type",
			Arity: 1,
			Func: func(args []interpreter.Value) (interpreter.Value, error) {
				return interpreter.String(args[0].Kind()), nil
			},
		},
	}
}

func argError(want string, got interpreter.Value) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrArgument, want, got.Kind())
}

// clampIndex truncates f into [0, n]. Clamping happens before the
// conversion, which is undefined for values outside the int range.
func clampIndex(f float64, n int) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= float64(n):
		return n
	default:
		return int(f)
	}
}
