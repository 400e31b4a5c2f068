// Package diag defines the diagnostic record shared by the parser and
// emitter, and the accumulation idiom each of them uses to collect
// diagnostics without aborting the pipeline. Lexer errors arrive as
// Error tokens and are recorded by the parser.
package diag

import "fmt"

// Diagnostic is one user-visible error or warning produced by a
// pipeline stage.
type Diagnostic struct {
	Code    string
	Message string
	Line    int
	Col     int
	Excerpt string
}

func (d Diagnostic) String() string {
	if d.Excerpt == "" {
		return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Col, d.Code, d.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s\n\t%s", d.Line, d.Col, d.Code, d.Message, d.Excerpt)
}

// Bag accumulates diagnostics. The parser and emitter each hold one
// in place of a shared global list, following the
// teacher's Entry.errorf/addError/GetErrors accumulation pattern.
type Bag struct {
	diags []Diagnostic
}

// Addf appends a new diagnostic built from code, format and args.
func (b *Bag) Addf(code string, line, col int, excerpt, format string, args ...interface{}) {
	b.diags = append(b.diags, Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Col:     col,
		Excerpt: excerpt,
	})
}

// Add appends d verbatim.
func (b *Bag) Add(d Diagnostic) {
	b.diags = append(b.diags, d)
}

// All returns every diagnostic accumulated so far, in emission order.
func (b *Bag) All() []Diagnostic {
	return b.diags
}

// Empty reports whether no diagnostics have been recorded.
func (b *Bag) Empty() bool {
	return len(b.diags) == 0
}
