package builtins_test

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/einah-lang/einah/pkg/builtins"
	"github.com/einah-lang/einah/pkg/interpreter"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()

	var output bytes.Buffer
	interp, err := interpreter.New(slogt.New(t), interpreter.Config{
		Stdout:  &output,
		Natives: builtins.Natives(rand.New(rand.NewPCG(1, 2))),
	})
	require.NoError(t, err)

	_, err = interp.Run(context.Background(), "natives.exn", src)
	return strings.TrimSpace(output.String()), err
}

func TestNatives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"LengthArray", "spit length | [1, 2, 3]~", "3"},
		{"LengthString", "spit length | #héllo#~", "5"},
		{"LengthObject", "spit length | {a => 1, b => 2}~", "2"},
		{"Push", "sprout a -> [1]~ spit push | a, 2~ spit a~", "[1, 2]\n[1]"},
		{"Pop", "sprout a -> [1, 2]~ spit pop | a~ spit a~", "[1]\n[1, 2]"},
		{"Slice", "spit slice | [1, 2, 3, 4], 1, 3~", "[2, 3]"},
		{"SliceClamped", "spit slice | [1, 2, 3], -5, 10~", "[1, 2, 3]"},
		{"SliceInverted", "spit slice | [1, 2, 3], 2, 1~", "[]"},
		{"SliceNegativeEnd", "spit slice | [1, 2, 3], 0, -1~", "[]"},
		{"SliceInfiniteEnd", "spit slice | [1, 2, 3], 1, 1 / 0~", "[2, 3]"},
		{"SliceInfiniteStart", "spit slice | [1, 2, 3], 0 - 1 / 0, 2~", "[1, 2]"},
		{"SliceNaNBounds", "spit slice | [1, 2, 3], 0 / 0, 0 / 0~", "[]"},
		{"SliceHugeEnd", "spit slice | [1, 2, 3], 0, 100000000000000000000000~", "[1, 2, 3]"},
		{"KeysSorted", "spit keys | {b => 1, a => 2, c => 3}~", "[#a#, #b#, #c#]"},
		{"HasString", "spit has | {a => 1}, #a#~", "yup"},
		{"HasMissing", "spit has | {a => 1}, #b#~", "nope"},
		{"HasNumber", "spit has | {#1# => 1}, 1~", "yup"},
		{"Split", "spit split | #a,b,,c#, #,#~", "[#a#, #b#, ##, #c#]"},
		{"Floor", "spit floor | 2.7~", "2"},
		{"Ceil", "spit ceil | 2.1~", "3"},
		{"FloorNegative", "spit floor | -2.5~", "-3"},
		{"Type", "spit [(type | 1), (type | #s#), (type | yup), (type | zip), (type | []), (type | {}), (type | length)]~",
			"[#num#, #str#, #bool#, #null#, #array#, #obj#, #func#]"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := require.New(t)

			output, err := run(t, test.src)
			r.NoError(err)
			r.Equal(test.expected, output)
		})
	}
}

func TestNativeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"PopEmpty", "pop | []~", builtins.ErrEmptyArray},
		{"LengthNumber", "length | 4~", builtins.ErrArgument},
		{"PushNonArray", "push | #s#, 1~", builtins.ErrArgument},
		{"KeysArray", "keys | [1]~", builtins.ErrArgument},
		{"SplitNumber", "split | 1, #,#~", builtins.ErrArgument},
		{"FloorString", "floor | #1#~", builtins.ErrArgument},
		{"Arity", "floor | 1, 2~", interpreter.ErrArity},
		{"Constant", "length -> 1~", interpreter.ErrConstant},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := require.New(t)

			_, err := run(t, test.src)
			r.ErrorIs(err, test.err)
		})
	}
}

func TestRandom(t *testing.T) {
	r := require.New(t)

	natives := builtins.Natives(rand.New(rand.NewPCG(7, 7)))
	var random *interpreter.NativeFunction
	for _, native := range natives {
		if native.Name == "random" {
			random = native
		}
	}
	r.NotNil(random)
	r.Equal(0, random.Arity)

	for range 1000 {
		v, err := random.Func(nil)
		r.NoError(err)

		n, ok := v.(interpreter.Number)
		r.True(ok)
		r.GreaterOrEqual(float64(n), 0.0)
		r.Less(float64(n), 1.0)
	}

	// same seed, same sequence
	a := builtins.Natives(rand.New(rand.NewPCG(3, 4)))
	b := builtins.Natives(rand.New(rand.NewPCG(3, 4)))
	for idx := range a {
		if a[idx].Name != "random" {
			continue
		}
		va, err := a[idx].Func(nil)
		r.NoError(err)
		vb, err := b[idx].Func(nil)
		r.NoError(err)
		r.Equal(va, vb)
	}
}

func TestNativesValidate(t *testing.T) {
	r := require.New(t)

	config := interpreter.Config{Natives: builtins.Natives(nil)}
	r.NoError(config.Validate(slogt.New(t)))

	config.Natives = append(config.Natives, builtins.Natives(nil)[0])
	r.Error(config.Validate(slogt.New(t)))
}
