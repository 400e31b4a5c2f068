package ast

import "testing"

func TestNameSpaceString(t *testing.T) {
	tests := []struct {
		name string
		ns   NameSpace
		want string
	}{
		{"empty", NameSpace{}, ""},
		{"single relative", NameSpace{Segments: []string{"a"}}, "a"},
		{"chain relative", NameSpace{Segments: []string{"a", "b"}}, "a|b"},
		{"absolute", NameSpace{Segments: []string{"a", "b"}, Absolute: true}, "/a|b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ns.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNameSpaceEmpty(t *testing.T) {
	if !(NameSpace{}).Empty() {
		t.Error("zero-value NameSpace should be Empty")
	}
	if (NameSpace{Segments: []string{"a"}}).Empty() {
		t.Error("NameSpace with segments should not be Empty")
	}
}
