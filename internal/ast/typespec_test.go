package ast

import (
	"reflect"
	"testing"
)

func TestPrimitiveString(t *testing.T) {
	tests := []struct {
		name string
		p    Primitive
		want string
	}{
		{"signed 32", Primitive{Bits: 32, Signed: true}, "#32"},
		{"unsigned 32", Primitive{Bits: 32, Signed: false}, "#+32"},
		{"floating 64", Primitive{Bits: 64, Floating: true}, "#.64"},
		{"one array dim", Primitive{Bits: 8, Signed: true, ArrayDims: []int{0}}, "#8#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeSpecConstructors(t *testing.T) {
	if got := Tagged("T"); got.Kind != TypeTagged || got.Name != "T" {
		t.Errorf("Tagged(\"T\") = %+v, want Kind=TypeTagged Name=T", got)
	}
	if got := Named("widget"); got.Kind != TypeNamed || got.Name != "widget" {
		t.Errorf("Named(\"widget\") = %+v, want Kind=TypeNamed Name=widget", got)
	}
	p := Primitive{Bits: 32, Signed: true}
	if got := PrimitiveType(p); got.Kind != TypePrimitive || !reflect.DeepEqual(got.Primitive, p) {
		t.Errorf("PrimitiveType(%+v) = %+v, want Kind=TypePrimitive Primitive=%+v", p, got, p)
	}
	if Any.Kind != TypeAny {
		t.Errorf("Any.Kind = %v, want TypeAny", Any.Kind)
	}
	if None.Kind != TypeNone {
		t.Errorf("None.Kind = %v, want TypeNone", None.Kind)
	}
}

func TestTypeSpecString(t *testing.T) {
	tests := []struct {
		name string
		t    TypeSpec
		want string
	}{
		{"any", Any, "any"},
		{"none", None, "none"},
		{"tagged", Tagged("T"), "tag:T"},
		{"named", Named("widget"), "widget"},
		{"primitive", PrimitiveType(Primitive{Bits: 32, Signed: true}), "#32"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.t.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
