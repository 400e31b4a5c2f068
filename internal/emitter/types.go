package emitter

import (
	"fmt"

	"lovelac/internal/ast"
)

// targetPrimitive maps a source primitive to its target-language type
// name, per spec.md §4.4.1's table. It returns ok=false for the
// lexically-accepted-but-semantically-illegal forms spec.md §9 calls
// out by name: 1-bit widths and 16-bit floats, plus any width outside
// {8,16,32,64}.
func targetPrimitive(p ast.Primitive) (string, bool) {
	validBits := map[int]bool{8: true, 16: true, 32: true, 64: true}
	if !validBits[p.Bits] {
		return "", false
	}
	if p.Floating && p.Bits != 32 && p.Bits != 64 {
		return "", false
	}
	if p.Floating {
		if p.Bits == 32 {
			return "l_f32", true
		}
		return "l_f64", true
	}

	sign := "i"
	if !p.Signed {
		sign = "u"
	}
	base := fmt.Sprintf("l_%s%d", sign, p.Bits)

	if len(p.ArrayDims) == 0 {
		return base, true
	}
	// i8 with exactly one array dimension is the special-cased C string.
	if p.Bits == 8 && p.Signed && len(p.ArrayDims) == 1 {
		return "l_cstr", true
	}
	stars := ""
	for range p.ArrayDims {
		stars += "*"
	}
	return base + stars, true
}

// primitiveOnly returns t's target type name only when t is a
// Primitive type spec, for use in ABI-exported signatures which must
// be primitive-only (spec.md §4.4.1.5).
func primitiveOnly(t ast.TypeSpec) (string, bool) {
	if t.Kind != ast.TypePrimitive {
		return "", false
	}
	return targetPrimitive(t.Primitive)
}

func appendUniqueTemplateParam(params []string, p string) []string {
	for _, existing := range params {
		if existing == p {
			return params
		}
	}
	return append(params, p)
}

// targetType resolves t to its target-language spelling, registering
// a generic template parameter as a side effect when t is Tagged.
func (e *Emitter) targetType(t ast.TypeSpec, templateParams *[]string) string {
	switch t.Kind {
	case ast.TypeAny:
		return "auto"
	case ast.TypeNone:
		return "None"
	case ast.TypeTagged:
		p := "Tag" + t.Name
		if templateParams != nil {
			*templateParams = appendUniqueTemplateParam(*templateParams, p)
		}
		return p
	case ast.TypeNamed:
		return "t_" + t.Name
	case ast.TypePrimitive:
		name, ok := targetPrimitive(t.Primitive)
		if !ok {
			e.diags.Addf("InvalidTypeName", 0, 0, "", "invalid primitive type %s", t.Primitive.String())
			return "auto"
		}
		return name
	default:
		return "auto"
	}
}
