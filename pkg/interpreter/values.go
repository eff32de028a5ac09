package interpreter

import (
	"github.com/einah-lang/einah/pkg/parser"
)

type Kind string

const (
	KindNull     Kind = "null"
	KindNumber   Kind = "num"
	KindBoolean  Kind = "bool"
	KindString   Kind = "str"
	KindArray    Kind = "array"
	KindObject   Kind = "obj"
	KindFunction Kind = "func"
)

// Value is one of Null, Number, Boolean, String, *Array, *Object, *Function
// or *NativeFunction.
type Value interface {
	Kind() Kind
	value()
}

type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) value()     {}

type Number float64

func (Number) Kind() Kind { return KindNumber }
func (Number) value()     {}

type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }
func (Boolean) value()     {}

type String string

func (String) Kind() Kind { return KindString }
func (String) value()     {}

type Array struct {
	Elements []Value
}

func NewArray(elems ...Value) *Array {
	return &Array{Elements: elems}
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) value()     {}

type Object struct {
	Properties map[string]Value
}

func NewObject() *Object {
	return &Object{Properties: make(map[string]Value)}
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) value()     {}

type Function struct {
	Name       string
	Parameters []string
	Body       []parser.Stmt

	// Scope is the scope the function was declared in.
	Scope Env
}

func (*Function) Kind() Kind { return KindFunction }
func (*Function) value()     {}

type NativeFunc func(args []Value) (Value, error)

type NativeFunction struct {
	Name  string
	Arity int
	Func  NativeFunc
}

func (*NativeFunction) Kind() Kind { return KindFunction }
func (*NativeFunction) value()     {}

func IsNull(v Value) bool {
	_, ok := v.(Null)
	return ok
}
