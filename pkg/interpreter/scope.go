package interpreter

import (
	"maps"
	"math"
	"slices"

	"github.com/rhino1998/dimcalc/pkg/value"
)

type Scope struct {
	parent *Scope
	name   string
	scope  map[string]*Variable
}

func NewScope(parent *Scope, name string) *Scope {
	return &Scope{
		scope:  make(map[string]*Variable),
		name:   name,
		parent: parent,
	}
}

// Constants returns a fresh scope holding the predefined constants.
func Constants() *Scope {
	s := NewScope(nil, "constants")
	s.Put(NewConstant("pi", value.Scalar(math.Pi)))
	s.Put(NewConstant("e", value.Scalar(math.E)))

	return s
}

// NewGlobalScope returns an empty scope whose parent holds the constants.
func NewGlobalScope() *Scope {
	return NewScope(Constants(), "global")
}

func (s *Scope) Name() string {
	return s.name
}

func (s *Scope) Get(name string) (*Variable, bool) {
	if s == nil {
		return nil, false
	}

	v, ok := s.scope[name]
	if ok {
		return v, true
	}

	return s.parent.Get(name)
}

// Put binds a variable, replacing any binding of the same name in s.
func (s *Scope) Put(v *Variable) {
	s.scope[v.Name()] = v
}

// Variables lists the variables visible from s sorted by name, with inner
// bindings shadowing outer ones.
func (s *Scope) Variables() []*Variable {
	visible := make(map[string]*Variable)
	for cur := s; cur != nil; cur = cur.parent {
		for name, v := range cur.scope {
			if _, ok := visible[name]; !ok {
				visible[name] = v
			}
		}
	}

	vars := make([]*Variable, 0, len(visible))
	for _, name := range slices.Sorted(maps.Keys(visible)) {
		vars = append(vars, visible[name])
	}

	return vars
}

func (s *Scope) snapshot() *Scope {
	return &Scope{
		parent: s.parent,
		name:   s.name,
		scope:  maps.Clone(s.scope),
	}
}

func (s *Scope) commit(from *Scope) {
	s.scope = from.scope
}
