package ast

import "fmt"

// TypeSpecKind discriminates the variants of TypeSpec.
type TypeSpecKind int

const (
	// TypeAny is unresolved; the emitter makes it a generic parameter.
	TypeAny TypeSpecKind = iota
	// TypeNone is the unit type; becomes the runtime's none-sentinel.
	TypeNone
	// TypeTagged is a parameter-scoped placeholder; becomes a template
	// parameter named Tag<name>.
	TypeTagged
	// TypeNamed is a user-defined type; becomes t_<name> at emit time.
	TypeNamed
	// TypePrimitive is a built-in numeric/boolean/char type.
	TypePrimitive
)

// Primitive describes a #[sign][bits][#dims...] source primitive.
type Primitive struct {
	Bits      int // as written; only 8, 16, 32, 64 are legal for emission
	Signed    bool
	Floating  bool
	ArrayDims []int // each 0 means unbounded
}

// String renders p the way it appeared in source, e.g. "#32", "#.64",
// "#8#" for a pointer-to-int8.
func (p Primitive) String() string {
	s := "#"
	if p.Floating {
		s += "."
	} else if !p.Signed {
		s += "+"
	}
	s += fmt.Sprintf("%d", p.Bits)
	for range p.ArrayDims {
		s += "#"
	}
	return s
}

// TypeSpec is a tagged value describing a source-level type.
type TypeSpec struct {
	Kind      TypeSpecKind
	Name      string // set for TypeTagged and TypeNamed
	Primitive Primitive
}

// Any, None are the two singleton type specs with no payload.
var (
	Any  = TypeSpec{Kind: TypeAny}
	None = TypeSpec{Kind: TypeNone}
)

// Tagged returns the TypeSpec for a parameter-scoped placeholder.
func Tagged(name string) TypeSpec { return TypeSpec{Kind: TypeTagged, Name: name} }

// Named returns the TypeSpec for a user-defined type.
func Named(name string) TypeSpec { return TypeSpec{Kind: TypeNamed, Name: name} }

// PrimitiveType returns the TypeSpec wrapping a primitive description.
func PrimitiveType(p Primitive) TypeSpec { return TypeSpec{Kind: TypePrimitive, Primitive: p} }

func (t TypeSpec) String() string {
	switch t.Kind {
	case TypeAny:
		return "any"
	case TypeNone:
		return "none"
	case TypeTagged:
		return "tag:" + t.Name
	case TypeNamed:
		return t.Name
	case TypePrimitive:
		return t.Primitive.String()
	default:
		return fmt.Sprintf("TypeSpec(%d)", int(t.Kind))
	}
}
