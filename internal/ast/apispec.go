package ast

// ApiSpec is a bit-set over a declaration's extern-linkage and dialect
// intent, set by the '->' / '<-' prefix and an optional dialect string
// literal ("C", "C++", "Standard C", "Standard C++", "C Dynamic").
type ApiSpec uint8

const (
	Import ApiSpec = 1 << iota
	Export
	Dynamic
	Standard
	C
	Cpp
)

// Has reports whether every bit in mask is set in a.
func (a ApiSpec) Has(mask ApiSpec) bool { return a&mask == mask }
