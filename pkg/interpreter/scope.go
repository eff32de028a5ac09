package interpreter

import "fmt"

type ScopeID int

const noScope ScopeID = -1

type scope struct {
	parent    ScopeID
	vars      map[string]Value
	constants map[string]struct{}
	refs      int
}

// Arena owns every scope of an interpreter. Scopes refer to their parent by
// index and carry an explicit reference count; a slot is cleared and reused
// once its count drops to zero.
type Arena struct {
	scopes []*scope
	free   []ScopeID
	live   int
}

func NewArena() *Arena {
	return &Arena{}
}

// NewRoot allocates a scope with no parent. The caller owns one reference.
func (a *Arena) NewRoot() Env {
	return Env{arena: a, id: a.alloc(noScope)}
}

// Live returns the number of scopes currently allocated.
func (a *Arena) Live() int {
	return a.live
}

// Capacity returns the number of slots, live or free.
func (a *Arena) Capacity() int {
	return len(a.scopes)
}

func (a *Arena) alloc(parent ScopeID) ScopeID {
	s := &scope{
		parent:    parent,
		vars:      make(map[string]Value),
		constants: make(map[string]struct{}),
		refs:      1,
	}

	if parent != noScope {
		a.get(parent).refs++
	}

	a.live++

	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.scopes[id] = s
		return id
	}

	a.scopes = append(a.scopes, s)
	return ScopeID(len(a.scopes) - 1)
}

func (a *Arena) get(id ScopeID) *scope {
	s := a.scopes[id]
	if s == nil {
		panic(fmt.Sprintf("use of released scope %d", id))
	}

	return s
}

func (a *Arena) release(id ScopeID) {
	for id != noScope {
		s := a.scopes[id]
		if s == nil {
			return
		}

		s.refs--
		if s.refs > 0 {
			return
		}

		parent := s.parent
		a.scopes[id] = nil
		a.free = append(a.free, id)
		a.live--

		id = parent
	}
}

// Env is a handle to one scope in an Arena.
type Env struct {
	arena *Arena
	id    ScopeID
}

func (e Env) ID() ScopeID {
	return e.id
}

func (e Env) Parent() (Env, bool) {
	parent := e.arena.get(e.id).parent
	if parent == noScope {
		return Env{}, false
	}

	return Env{arena: e.arena, id: parent}, true
}

// Child allocates a new scope whose parent is e. The caller owns one
// reference to it and must Release it.
func (e Env) Child() Env {
	return Env{arena: e.arena, id: e.arena.alloc(e.id)}
}

func (e Env) Retain() {
	e.arena.get(e.id).refs++
}

func (e Env) Release() {
	e.arena.release(e.id)
}

func (e Env) Declare(name string, val Value, constant bool) (Value, error) {
	s := e.arena.get(e.id)

	if _, ok := s.vars[name]; ok {
		return nil, fmt.Errorf("%w: cannot declare %q", ErrRedeclared, name)
	}

	s.vars[name] = val
	if constant {
		s.constants[name] = struct{}{}
	}

	return val, nil
}

func (e Env) Assign(name string, val Value) (Value, error) {
	owner, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}

	s := owner.arena.get(owner.id)
	if _, ok := s.constants[name]; ok {
		return nil, fmt.Errorf("%w %q", ErrConstant, name)
	}

	s.vars[name] = val
	return val, nil
}

// Resolve returns the nearest scope, starting at e, that declares name.
func (e Env) Resolve(name string) (Env, error) {
	for id := e.id; id != noScope; {
		s := e.arena.get(id)
		if _, ok := s.vars[name]; ok {
			return Env{arena: e.arena, id: id}, nil
		}

		id = s.parent
	}

	return Env{}, fmt.Errorf("%w: %s", ErrUndefined, name)
}

func (e Env) LookUp(name string) (Value, error) {
	owner, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}

	return owner.arena.get(owner.id).vars[name], nil
}

func (e Env) IsConstant(name string) bool {
	_, ok := e.arena.get(e.id).constants[name]
	return ok
}
