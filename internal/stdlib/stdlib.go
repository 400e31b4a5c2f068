// Package stdlib holds the two static standard-library mapping
// tables: source-visible function names to the target header that
// declares them, one table per supported dialect (C, C++).
//
// Grounded on the teacher's TypeKindFromName/TypeKindToName map idiom
// in pkg/yang/yangtype.go: a small, read-only package-level map
// rather than a generated or reflection-driven lookup.
package stdlib

// Dialect selects which mapping table backs a Standard import lacking
// an explicit C/C++ qualifier.
type Dialect int

const (
	C Dialect = iota
	Cpp
)

// cHeaders maps a Lovela-visible standard function name to the C
// header that declares it.
var cHeaders = map[string]string{
	"puts":   "stdio.h",
	"printf": "stdio.h",
	"getc":   "stdio.h",
	"malloc": "stdlib.h",
	"free":   "stdlib.h",
	"exit":   "stdlib.h",
	"strlen": "string.h",
	"strcmp": "string.h",
	"memcpy": "string.h",
	"sqrt":   "math.h",
	"pow":    "math.h",
	"abs":    "stdlib.h",
}

// cppHeaders maps the "std/"-prefixed name the C++ dialect uses for
// the same standard functions to the C++ header that declares them.
var cppHeaders = map[string]string{
	"std/puts":   "cstdio",
	"std/printf": "cstdio",
	"std/getc":   "cstdio",
	"std/malloc": "cstdlib",
	"std/free":   "cstdlib",
	"std/exit":   "cstdlib",
	"std/strlen": "cstring",
	"std/strcmp": "cstring",
	"std/memcpy": "cstring",
	"std/sqrt":   "cmath",
	"std/pow":    "cmath",
	"std/abs":    "cstdlib",
	"std/cout":   "iostream",
	"std/cin":    "iostream",
	"std/vector": "vector",
	"std/string": "string",
}

// Header returns the header that must be included for a Standard
// import of name under dialect, and whether name is recognised at
// all. An unrecognised name under a Standard import is not itself an
// error (§6): no header is emitted and emission falls back to a
// forward declaration.
func Header(dialect Dialect, name string) (string, bool) {
	switch dialect {
	case Cpp:
		h, ok := cppHeaders[name]
		return h, ok
	default:
		h, ok := cHeaders[name]
		return h, ok
	}
}
