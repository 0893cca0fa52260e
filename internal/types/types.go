// Package types models the Mica type system: a closed set of variants
// with structural equality and lvalue/rvalue tracking.
//
// Invariants:
//   - Equality ignores the value category.
//   - Int and Pointer are one word (4 bytes); an Array is elem size * count.
//   - Pointers have no pointee type, only a depth: every pointee is
//     word-sized, so arithmetic always scales by 4.
//   - An Array is always an RValue; its value IS its base address.
//     Retagging an array has no effect.
package types

import (
	"fmt"
	"strings"
)

// WordSize is the size in bytes of int and of every pointer.
const WordSize = 4

// Category tells whether an expression names a location or a value.
type Category uint8

const (
	// RValue is a transient value; the default category.
	RValue Category = iota
	// LValue is an addressable location. LValues load to RValues on
	// demand, never the reverse.
	LValue
)

func (c Category) String() string {
	if c == LValue {
		return "lvalue"
	}
	return "rvalue"
}

// Type is the closed variant. Concrete types are Int, Pointer, Array,
// Func, and None; dispatch is by type switch.
type Type interface {
	// Size returns the value's size in bytes (0 for Func and None).
	Size() int
	// Cat returns the value category carried by this instance.
	Cat() Category
	// WithCat returns the same shape tagged with the given category.
	WithCat(Category) Type
	String() string

	typ()
}

// Int is the only primitive: a signed 32-bit integer.
type Int struct {
	C Category
}

// Pointer is a pointer of the given depth (>= 1). Depth 1 points at an
// int, depth d at a pointer of depth d-1.
type Pointer struct {
	Depth int
	C     Category
}

// Array is a contiguous block of Count elements. Nested arrays put the
// innermost dimension in the deepest Elem; the leaf element is an
// lvalue-tagged Int or Pointer.
type Array struct {
	Elem  Type
	Count int
}

// Func is a function signature. It is not a value type; functions are
// called by name only.
type Func struct {
	Return Type
	Params []Type
}

// None marks the absence of a type: statements, and the result of
// misused transforms.
type None struct{}

func (Int) typ()     {}
func (Pointer) typ() {}
func (Array) typ()   {}
func (Func) typ()    {}
func (None) typ()    {}

func (Int) Size() int     { return WordSize }
func (Pointer) Size() int { return WordSize }
func (a Array) Size() int { return a.Elem.Size() * a.Count }
func (Func) Size() int    { return 0 }
func (None) Size() int    { return 0 }

func (t Int) Cat() Category     { return t.C }
func (t Pointer) Cat() Category { return t.C }
func (Array) Cat() Category     { return RValue }
func (Func) Cat() Category      { return RValue }
func (None) Cat() Category      { return RValue }

func (t Int) WithCat(c Category) Type     { t.C = c; return t }
func (t Pointer) WithCat(c Category) Type { t.C = c; return t }
func (t Array) WithCat(Category) Type     { return t }
func (t Func) WithCat(Category) Type      { return t }
func (t None) WithCat(Category) Type      { return t }

func (Int) String() string { return "int" }

func (t Pointer) String() string {
	return "int" + strings.Repeat("*", t.Depth)
}

func (t Array) String() string {
	var dims strings.Builder
	var cur Type = t
	for {
		arr, ok := cur.(Array)
		if !ok {
			break
		}
		fmt.Fprintf(&dims, "[%d]", arr.Count)
		cur = arr.Elem
	}
	return cur.String() + dims.String()
}

func (t Func) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return t.Return.String() + "(" + strings.Join(params, ", ") + ")"
}

func (None) String() string { return "<none>" }

// Equal reports structural equality, ignoring value categories.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case Int:
		_, ok := b.(Int)
		return ok
	case Pointer:
		bt, ok := b.(Pointer)
		return ok && at.Depth == bt.Depth
	case Array:
		bt, ok := b.(Array)
		return ok && at.Count == bt.Count && Equal(at.Elem, bt.Elem)
	case Func:
		bt, ok := b.(Func)
		if !ok || len(at.Params) != len(bt.Params) || !Equal(at.Return, bt.Return) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return true
	case None:
		_, ok := b.(None)
		return ok
	}
	return false
}

// Deref resolves one level of indirection: depth 1 yields int, deeper
// pointers lose one level. The result names a location, so it is tagged
// LValue. Callers must check the shape first; misuse yields None.
func Deref(t Type) Type {
	p, ok := t.(Pointer)
	if !ok {
		return None{}
	}
	if p.Depth == 1 {
		return Int{C: LValue}
	}
	return Pointer{Depth: p.Depth - 1, C: LValue}
}

// Ref wraps t into a pointer one level deeper, regardless of t's
// category (address-of enforces the lvalue requirement itself). The
// resulting address is a transient value, so it is tagged RValue.
// Misuse on a non-scalar yields None.
func Ref(t Type) Type {
	switch rt := t.(type) {
	case Int:
		return Pointer{Depth: 1}
	case Pointer:
		return Pointer{Depth: rt.Depth + 1}
	}
	return None{}
}
