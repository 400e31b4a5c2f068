// Package emitter lowers a parsed AST into a C-family target program,
// plus the two companion header blocks (required includes and
// exported-function signatures) spec.md §4.4 describes.
//
// Grounded on the teacher's Entry diagnostics idiom (errorf/addError/
// GetErrors in pkg/yang/entry.go) for error accumulation, and on
// pkg/indent for scope indentation of emitted function bodies.
package emitter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"lovelac/internal/ast"
	"lovelac/internal/diag"
	"lovelac/pkg/indent"
	"lovelac/internal/stdlib"
	"lovelac/internal/token"
)

// Emitter is a single-threaded post-order walker. It owns three sinks:
// the caller-supplied program stream (written immediately), a set of
// required header includes, and a list of exported-function
// signatures; the latter two are drained by ImportsHeader/ExportsHeader.
type Emitter struct {
	dialect stdlib.Dialect
	diags   diag.Bag

	headerSet   map[string]bool
	headerOrder []string
	exports     []string

	// varCounter is the shared per-function local-variable index
	// (v1, v2, ...). It is reset at the start of every function
	// declaration.
	varCounter int
}

// New creates an Emitter. dialect selects which standard-library
// mapping table backs a Standard import lacking an explicit C/C++
// qualifier.
func New(dialect stdlib.Dialect) *Emitter {
	return &Emitter{dialect: dialect, headerSet: map[string]bool{}}
}

// Diagnostics returns every diagnostic accumulated so far, in order.
func (e *Emitter) Diagnostics() []diag.Diagnostic { return e.diags.All() }

// ImportsHeader renders the accumulated #include lines.
func (e *Emitter) ImportsHeader() string {
	var b strings.Builder
	for _, h := range e.headerOrder {
		fmt.Fprintf(&b, "#include <%s>\n", h)
	}
	return b.String()
}

// ExportsHeader renders the accumulated exported-function signatures.
func (e *Emitter) ExportsHeader() string {
	var b strings.Builder
	for _, sig := range e.exports {
		fmt.Fprintf(&b, "%s;\n", sig)
	}
	return b.String()
}

func (e *Emitter) addHeader(h string) {
	if e.headerSet[h] {
		return
	}
	e.headerSet[h] = true
	e.headerOrder = append(e.headerOrder, h)
}

// Emit writes n's target-language rendering to w. n must be a node
// produced by parser.Parser.Next: a FunctionDeclaration or an Error.
func (e *Emitter) Emit(w io.Writer, n *ast.Node) {
	switch n.Kind {
	case ast.Error:
		// The parser already recorded this as a parse diagnostic; the
		// emitter has nothing to lower.
		return
	case ast.FunctionDeclaration:
		e.emitFunctionDeclaration(w, n)
	default:
		e.diags.Addf("UnhandledNodeKind", n.Token.Line, n.Token.Col, n.Token.Excerpt,
			"emitter: unhandled top-level node kind %s", n.Kind)
	}
}

func (e *Emitter) emitFunctionDeclaration(w io.Writer, n *ast.Node) {
	if n.ApiSpec.Has(ast.Import) {
		e.emitImport(w, n)
		return
	}

	e.varCounter = 1 // v1 is reserved for the function's input anchor.
	var templateParams []string
	inType := e.targetType(n.InType, &templateParams)
	outType := e.targetType(n.OutType, &templateParams)
	paramDecls, _ := e.renderParams(n.Parameters, &templateParams)

	name := functionDeclName(n)
	nsOpen, nsClose := namespaceBlocks(n.NameSpace)
	io.WriteString(w, nsOpen)
	e.writeSignatureAndBody(w, templateParams, outType, name, inType, paramDecls, n)
	io.WriteString(w, nsClose)

	if n.ApiSpec.Has(ast.Export) {
		e.emitExportWrapper(w, n, name)
	}
}

func (e *Emitter) renderParams(params []ast.VariableDeclaration, templateParams *[]string) (decls []string, names []string) {
	for i, pd := range params {
		t := e.targetType(pd.Type, templateParams)
		name := pd.Name
		if name == "" {
			name = fmt.Sprintf("_%d", i)
		}
		decls = append(decls, fmt.Sprintf("%s p_%s", t, name))
		names = append(names, name)
	}
	return decls, names
}

func functionDeclName(n *ast.Node) string {
	switch {
	case n.IsMain():
		return "f_main"
	case n.IsOperator():
		return "operator" + n.Value
	default:
		return "f_" + n.Value
	}
}

// namespaceBlocks opens and closes the nested `namespace a { namespace
// b { ... } }` wrapping a declaration, per SPEC_FULL.md §4.5(2). Each
// declaration opens and closes its own namespace independently; the
// root-absolute flag carries no further effect at this per-declaration
// granularity since no namespace state is threaded between sibling
// declarations (see DESIGN.md).
func namespaceBlocks(ns ast.NameSpace) (open, close string) {
	if ns.Empty() {
		return "", ""
	}
	var o, c strings.Builder
	for _, seg := range ns.Segments {
		fmt.Fprintf(&o, "namespace %s {\n", seg)
		c.WriteString("}\n")
	}
	return o.String(), c.String()
}

func (e *Emitter) writeSignatureAndBody(w io.Writer, templateParams []string, outType, name, inType string, paramDecls []string, n *ast.Node) {
	if len(templateParams) > 0 {
		parts := make([]string, len(templateParams))
		for i, t := range templateParams {
			parts[i] = "typename " + t
		}
		fmt.Fprintf(w, "template <%s>\n", strings.Join(parts, ", "))
	}

	sig := fmt.Sprintf("%s %s(context& ctx, %s in", outType, name, inType)
	for _, pd := range paramDecls {
		sig += ", " + pd
	}
	sig += ")"
	fmt.Fprintf(w, "%s\n{\n", sig)

	inner := indent.NewWriter(w, "\t")
	fmt.Fprintf(inner, "const auto v1 = in; (void)ctx; (void)v1;\n")

	last := "v1"
	if len(n.Children) == 1 && n.Children[0].Kind == ast.Expression {
		last = e.emitBodyStatements(inner, n.Children[0])
	}
	if outType == "None" {
		fmt.Fprint(inner, "return {};\n")
	} else {
		fmt.Fprintf(inner, "return %s;\n", last)
	}
	io.WriteString(w, "}\n")
}

// emitBodyStatements implements the Expression visitor of spec.md
// §4.4: for each child, begin-assign, recurse, end-assign. It returns
// the variable name holding the last statement's result.
func (e *Emitter) emitBodyStatements(w io.Writer, expr *ast.Node) string {
	last := "v1"
	for _, stmt := range expr.Children {
		e.varCounter++
		k := e.varCounter
		text := e.renderInline(stmt)
		fmt.Fprintf(w, "const auto v%d = %s; (void)v%d;\n", k, text, k)
		last = fmt.Sprintf("v%d", k)
	}
	return last
}

// renderInline renders n as inline target-language text, with no
// assignment boilerplate of its own; only emitBodyStatements assigns
// named results. This is the expression-level visitor table of
// spec.md §4.4, collapsed into one dispatch since their contracts
// (return a string, consult the shared variable counter) agree.
func (e *Emitter) renderInline(n *ast.Node) string {
	switch n.Kind {
	case ast.ExpressionInput:
		return fmt.Sprintf("v%d", e.varCounter-1)
	case ast.VariableReference:
		return "p_" + n.Value
	case ast.Literal:
		return e.renderLiteral(n)
	case ast.FunctionCall:
		return e.renderFunctionCall(n)
	case ast.BinaryOperation:
		left := e.renderInline(n.Children[0])
		right := e.renderInline(n.Children[1])
		return fmt.Sprintf("%s %s %s", left, n.Value, right)
	case ast.Tuple:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = e.renderInline(c)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ast.Expression:
		// An expression embedded inside another (the "inner" flag of
		// spec.md §4.4 suppresses the assignment boilerplate): fold
		// its statements into a single value via the comma operator.
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = e.renderInline(c)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		e.diags.Addf("UnhandledNodeKind", n.Token.Line, n.Token.Col, n.Token.Excerpt,
			"emitter: unhandled expression node kind %s", n.Kind)
		return "/* unhandled */"
	}
}

func (e *Emitter) renderFunctionCall(n *ast.Node) string {
	args := make([]string, len(n.Children))
	for i, c := range n.Children {
		args[i] = e.renderInline(c)
	}
	target := functionCallTarget(n)
	return fmt.Sprintf("%s(ctx, %s)", target, strings.Join(args, ", "))
}

func functionCallTarget(n *ast.Node) string {
	name := "f_" + n.Value
	if isOperatorToken(n.Token) {
		name = "operator" + n.Value
	}
	if n.NameSpace.Empty() {
		return name
	}
	prefix := strings.Join(n.NameSpace.Segments, "::")
	if n.NameSpace.Absolute {
		prefix = "::" + prefix
	}
	return prefix + "::" + name
}

func (e *Emitter) renderLiteral(n *ast.Node) string {
	if n.Value == "()" {
		return "None{}"
	}
	switch n.Token.Kind {
	case token.LiteralString:
		if len(n.Children) == 0 {
			return quoteCString(n.Value)
		}
		parts := []string{quoteCString(n.Value)}
		for _, c := range n.Children {
			if c.Token.Kind == token.LiteralStringInterpolation {
				parts = append(parts, fmt.Sprintf("ctx.Arg(%s)", c.Value))
			} else {
				parts = append(parts, quoteCString(c.Value))
			}
		}
		return strings.Join(parts, " + ")
	default:
		// Integer and decimal literals carry their source form
		// verbatim; it is already valid C-family literal syntax.
		return n.Value
	}
}

func quoteCString(s string) string { return strconv.Quote(s) }

// isOperatorToken reports whether t's kind marks an operator-named
// qualified-name segment (spec.md §4.3 rule 4 / SPEC_FULL.md §4.5(1)).
func isOperatorToken(t token.Token) bool {
	switch t.Kind {
	case token.Comparison, token.Arithmetic, token.Bitwise, token.Arrow:
		return true
	default:
		return false
	}
}

// emitImport lowers an import declaration (spec.md §4.4.1.6). A
// Standard import recognised in the selected dialect's mapping table
// contributes a header include and nothing else; any other import
// gets a forward declaration plus a one-line forwarding wrapper,
// decorated per its api-spec bits.
func (e *Emitter) emitImport(w io.Writer, n *ast.Node) {
	if n.ApiSpec.Has(ast.Standard) {
		dialect := e.dialect
		switch {
		case n.ApiSpec.Has(ast.Cpp):
			dialect = stdlib.Cpp
		case n.ApiSpec.Has(ast.C):
			dialect = stdlib.C
		}
		name := n.Value
		if dialect == stdlib.Cpp && !strings.HasPrefix(name, "std/") {
			name = "std/" + name
		}
		if header, ok := stdlib.Header(dialect, name); ok {
			e.addHeader(header)
			return
		}
	}

	var templateParams []string
	inType := e.targetType(n.InType, &templateParams)
	outType := e.targetType(n.OutType, &templateParams)

	decorator := "LOVELA_API_C"
	switch {
	case n.ApiSpec.Has(ast.Dynamic):
		decorator = "LOVELA_API_DYNAMIC_IMPORT"
	case n.ApiSpec.Has(ast.Cpp):
		decorator = "LOVELA_API_CPP"
	}

	fmt.Fprintf(w, "%s %s %s(%s in);\n", decorator, outType, n.Value, inType)
	fmt.Fprintf(w, "%s f_%s(context& ctx, %s in) { (void)ctx; return %s(in); }\n",
		outType, n.Value, inType, n.Value)
}

// emitExportWrapper synthesises the ABI wrapper spec.md §4.4.1.5
// requires for an exported declaration, with primitive-only types; a
// non-primitive type anywhere in the signature is an error and the
// wrapper is skipped.
func (e *Emitter) emitExportWrapper(w io.Writer, n *ast.Node, targetName string) {
	inPrim, inOK := primitiveOnly(n.InType)
	outPrim, outOK := primitiveOnly(n.OutType)
	allOK := inOK && outOK

	paramSig := make([]string, 0, len(n.Parameters))
	argNames := []string{"in"}
	for _, pd := range n.Parameters {
		pt, ok := primitiveOnly(pd.Type)
		if !ok {
			allOK = false
		}
		paramSig = append(paramSig, fmt.Sprintf("%s p_%s", pt, pd.Name))
		argNames = append(argNames, "p_"+pd.Name)
	}

	if !allOK {
		e.diags.Addf("InvalidTypeName", n.Token.Line, n.Token.Col, n.Token.Excerpt,
			"exported declaration %q has a non-primitive type in its ABI signature", n.Value)
		return
	}

	decorator := "LOVELA_API_C"
	switch {
	case n.ApiSpec.Has(ast.Dynamic):
		decorator = "LOVELA_API_DYNAMIC_EXPORT"
	case n.ApiSpec.Has(ast.Cpp):
		decorator = "LOVELA_API_CPP"
	}

	sig := fmt.Sprintf("%s %s(%s in", outPrim, n.Value, inPrim)
	for _, p := range paramSig {
		sig += ", " + p
	}
	sig += ")"
	e.exports = append(e.exports, sig)

	fmt.Fprintf(w, "%s %s\n{\n\tcontext ctx;\n\treturn %s(ctx, %s);\n}\n",
		decorator, sig, targetName, strings.Join(argNames, ", "))
}
