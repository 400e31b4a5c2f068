package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"lovelac/internal/ast"
)

// ignoreTokens drops the lexical position/excerpt noise a Token
// carries, following the teacher's ast_test.go practice of comparing
// parsed trees structurally rather than byte-for-byte against the
// scanner's bookkeeping.
var ignoreTokens = cmpopts.IgnoreFields(ast.Node{}, "Token")

func parseOne(t *testing.T, src string) *ast.Node {
	t.Helper()
	p := New(src)
	node, ok := p.Next()
	if !ok {
		t.Fatalf("parse(%q): expected one node, got none", src)
	}
	if diags := p.Diagnostics(); len(diags) != 0 {
		t.Fatalf("parse(%q): unexpected diagnostics: %v", src, diags)
	}
	return node
}

// TestParseFunctionWithBody exercises spec.md §8 scenario 1: a bare
// declaration whose body is a single binary operation against the
// implicit expression input.
func TestParseFunctionWithBody(t *testing.T) {
	got := parseOne(t, "func: + 1.")

	want := &ast.Node{
		Kind:    ast.FunctionDeclaration,
		Value:   "func",
		InType:  ast.Any,
		OutType: ast.Any,
		Children: []*ast.Node{
			{
				Kind: ast.Expression,
				Children: []*ast.Node{
					{
						Kind:  ast.BinaryOperation,
						Value: "+",
						Children: []*ast.Node{
							{Kind: ast.ExpressionInput},
							{Kind: ast.Literal, Value: "1"},
						},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got, ignoreTokens); diff != "" {
		t.Errorf("parse mismatch (-want +got):\n%s", diff)
	}
}

// TestParseMainEntryOutTypeDefaultsToNone exercises spec.md §4.3 rule
// 2: an unnamed declaration's out-type is None even without an
// explicit type-spec.
func TestParseMainEntryOutTypeDefaultsToNone(t *testing.T) {
	got := parseOne(t, ": 1.")
	if !cmp.Equal(got.OutType, ast.None) {
		t.Errorf("OutType = %s, want None", got.OutType)
	}
	if got.Value != "" || !got.NameSpace.Empty() {
		t.Errorf("expected the unnamed program entry point, got Value=%q NameSpace=%v", got.Value, got.NameSpace)
	}
	if !got.IsMain() {
		t.Errorf("IsMain() = false, want true")
	}
}

// TestParseImportPrefix exercises spec.md §8 scenario 2: an import
// declaration carries no body.
func TestParseImportPrefix(t *testing.T) {
	got := parseOne(t, "-> 'Standard C' puts.")

	if !got.ApiSpec.Has(ast.Import | ast.Standard | ast.C) {
		t.Errorf("ApiSpec = %v, want Import|Standard|C", got.ApiSpec)
	}
	if got.Value != "puts" {
		t.Errorf("Value = %q, want puts", got.Value)
	}
	if len(got.Children) != 0 {
		t.Errorf("expected no body children for an import, got %d", len(got.Children))
	}
}

// TestParseExportWithPrimitiveTypes exercises spec.md §8 scenario 3:
// an export carries explicit primitive in/out types and a body.
func TestParseExportWithPrimitiveTypes(t *testing.T) {
	got := parseOne(t, "<- [#32] ex [#32]: + 1.")

	if !got.ApiSpec.Has(ast.Export) {
		t.Errorf("ApiSpec = %v, want Export set", got.ApiSpec)
	}
	if got.Value != "ex" {
		t.Errorf("Value = %q, want ex", got.Value)
	}
	wantType := ast.PrimitiveType(ast.Primitive{Bits: 32, Signed: true})
	if !cmp.Equal(got.InType, wantType) {
		t.Errorf("InType = %s, want %s", got.InType, wantType)
	}
	if !cmp.Equal(got.OutType, wantType) {
		t.Errorf("OutType = %s, want %s", got.OutType, wantType)
	}
	if len(got.Children) != 1 || got.Children[0].Kind != ast.Expression {
		t.Fatalf("expected a single Expression body child, got %+v", got.Children)
	}
}

// TestParseParamVariableReference confirms a bare identifier matching
// a declared parameter name parses as a VariableReference rather than
// a niladic FunctionCall.
func TestParseParamVariableReference(t *testing.T) {
	got := parseOne(t, "double(x): x.")

	if len(got.Parameters) != 1 || got.Parameters[0].Name != "x" {
		t.Fatalf("Parameters = %+v, want one param named x", got.Parameters)
	}
	body := got.Children[0]
	if len(body.Children) != 1 {
		t.Fatalf("body children = %+v, want one statement", body.Children)
	}
	stmt := body.Children[0]
	if stmt.Kind != ast.VariableReference || stmt.Value != "x" {
		t.Errorf("statement = %+v, want VariableReference x", stmt)
	}
}

// TestParseFunctionCallNotShadowedByParam confirms a parenthesized
// call to a name that also happens to be a parameter still parses as
// a FunctionCall, since the '(' rules out VariableReference.
func TestParseFunctionCallNotShadowedByParam(t *testing.T) {
	got := parseOne(t, "apply(x): x().")
	body := got.Children[0]
	stmt := body.Children[0]
	if stmt.Kind != ast.FunctionCall || stmt.Value != "x" {
		t.Errorf("statement = %+v, want FunctionCall x", stmt)
	}
}

// TestParseFunctionCallChain confirms a multi-segment expression folds
// left-associatively, each call's input being the previous call's
// result.
func TestParseFunctionCallChain(t *testing.T) {
	got := parseOne(t, "chain: 1 inc inc.")
	body := got.Children[0]
	stmt := body.Children[0]

	outer, ok := stmt, stmt.Kind == ast.FunctionCall
	if !ok || outer.Value != "inc" {
		t.Fatalf("outer call = %+v, want FunctionCall inc", stmt)
	}
	inner := outer.Children[0]
	if inner.Kind != ast.FunctionCall || inner.Value != "inc" {
		t.Fatalf("inner call = %+v, want FunctionCall inc", inner)
	}
	lit := inner.Children[0]
	if lit.Kind != ast.Literal || lit.Value != "1" {
		t.Errorf("innermost input = %+v, want Literal 1", lit)
	}
}

// TestParseBodyStatementSeparator confirms a '.' followed by a token
// that can start a fresh call continues the body instead of
// terminating the declaration, and that a '.' at true end-of-body is
// consumed by the declaration's trailing terminator.
func TestParseBodyStatementSeparator(t *testing.T) {
	got := parseOne(t, "multi: 1. 2.")
	body := got.Children[0]
	if len(body.Children) != 2 {
		t.Fatalf("body statements = %+v, want 2", body.Children)
	}
	if body.Children[0].Value != "1" || body.Children[1].Value != "2" {
		t.Errorf("body statements = %+v, want [1 2]", body.Children)
	}
}

// TestParseQualifiedNameWithNamespace confirms a '|'-separated
// qualified name splits into namespace segments plus a final name.
func TestParseQualifiedNameWithNamespace(t *testing.T) {
	got := parseOne(t, "/a|b|c: 1.")
	if !got.NameSpace.Absolute {
		t.Errorf("NameSpace.Absolute = false, want true")
	}
	if diff := cmp.Diff([]string{"a", "b"}, got.NameSpace.Segments); diff != "" {
		t.Errorf("NameSpace.Segments mismatch (-want +got):\n%s", diff)
	}
	if got.Value != "c" {
		t.Errorf("Value = %q, want c", got.Value)
	}
}

// TestParseOperatorDeclaration confirms a qualified name ending in an
// operator token is accepted and recognised via IsOperator.
func TestParseOperatorDeclaration(t *testing.T) {
	got := parseOne(t, "num|+(other [#32]) [#32]: 1.")
	if !got.IsOperator() {
		t.Errorf("IsOperator() = false, want true for %+v", got)
	}
	if got.Value != "+" {
		t.Errorf("Value = %q, want +", got.Value)
	}
}

// TestParseGroupUnwrapsSingleExpression confirms parenthesizing a
// single expression yields that expression directly, not a Tuple.
func TestParseGroupUnwrapsSingleExpression(t *testing.T) {
	got := parseOne(t, "g: (1).")
	stmt := got.Children[0].Children[0]
	if stmt.Kind != ast.Literal || stmt.Value != "1" {
		t.Errorf("statement = %+v, want bare Literal 1", stmt)
	}
}

// TestParseTuple confirms comma-separated parenthesized expressions
// form a Tuple node.
func TestParseTuple(t *testing.T) {
	got := parseOne(t, "g: (1, 2, 3).")
	stmt := got.Children[0].Children[0]
	if stmt.Kind != ast.Tuple || len(stmt.Children) != 3 {
		t.Fatalf("statement = %+v, want a 3-element Tuple", stmt)
	}
}

// TestParseEmptyGroupIsNone confirms empty parens parse as the None
// literal value, per spec.md's group/tuple grammar.
func TestParseEmptyGroupIsNone(t *testing.T) {
	got := parseOne(t, "g: ().")
	stmt := got.Children[0].Children[0]
	if stmt.Kind != ast.Literal || !cmp.Equal(stmt.OutType, ast.None) {
		t.Errorf("statement = %+v, want a None-typed Literal", stmt)
	}
}

// TestParseTaggedVsNamedType confirms the initial-capital convention
// that disambiguates Tagged from Named types in a type-spec position.
func TestParseTaggedVsNamedType(t *testing.T) {
	got := parseOne(t, "id(x [T]) [T]: x.")
	if got.Parameters[0].Type.Kind != ast.TypeTagged || got.Parameters[0].Type.Name != "T" {
		t.Errorf("param type = %+v, want Tagged T", got.Parameters[0].Type)
	}
	if got.OutType.Kind != ast.TypeTagged || got.OutType.Name != "T" {
		t.Errorf("out type = %+v, want Tagged T", got.OutType)
	}

	got2 := parseOne(t, "wrap(x [widget]) [widget]: x.")
	if got2.Parameters[0].Type.Kind != ast.TypeNamed || got2.Parameters[0].Type.Name != "widget" {
		t.Errorf("param type = %+v, want Named widget", got2.Parameters[0].Type)
	}
}

// TestParsePrimitiveLiteralTypeInference exercises spec.md §4.3 rule
// 3: a literal used as a type-spec infers the narrowest primitive.
func TestParsePrimitiveLiteralTypeInference(t *testing.T) {
	tests := []struct {
		src  string
		bits int
	}{
		{"f([200]): 1.", 8},
		{"f([40000]): 1.", 16},
		{"f([3000000000]): 1.", 32},
	}
	for _, tt := range tests {
		got := parseOne(t, tt.src)
		pt := got.Parameters[0].Type
		if pt.Kind != ast.TypePrimitive || pt.Primitive.Bits != tt.bits || pt.Primitive.Signed {
			t.Errorf("parse(%q) param type = %+v, want unsigned %d-bit primitive", tt.src, pt, tt.bits)
		}
	}
}

// TestParseStringInterpolationLiteral confirms an interpolated string
// literal folds into sibling Literal children alternating segments
// and interpolation indices.
func TestParseStringInterpolationLiteral(t *testing.T) {
	got := parseOne(t, "g: 'abc{}def{}'.")
	stmt := got.Children[0].Children[0]
	if stmt.Kind != ast.Literal || stmt.Value != "abc" {
		t.Fatalf("root literal = %+v, want abc", stmt)
	}
	// The lexer closes the literal with a trailing empty LiteralString
	// segment, so the fold is [1, "def", 2, ""].
	if len(stmt.Children) != 4 {
		t.Fatalf("literal children = %+v, want 4", stmt.Children)
	}
	if stmt.Children[0].Value != "1" || stmt.Children[1].Value != "def" ||
		stmt.Children[2].Value != "2" || stmt.Children[3].Value != "" {
		t.Errorf("literal children = %+v, want [1 def 2 \"\"]", stmt.Children)
	}
}

// TestParseRecoversFromMissingTerminator confirms a malformed
// declaration yields an Error node and that parsing resumes at the
// next top-level boundary rather than aborting the whole stream.
func TestParseRecoversFromMissingTerminator(t *testing.T) {
	p := New("bad: 1 ) more. good: 2.")

	first, ok := p.Next()
	if !ok {
		t.Fatalf("expected a first node")
	}
	if first.Kind != ast.Error {
		t.Fatalf("first node = %+v, want Error", first)
	}

	second, ok := p.Next()
	if !ok {
		t.Fatalf("expected a second node after recovery")
	}
	if second.Kind != ast.FunctionDeclaration || second.Value != "good" {
		t.Errorf("second node = %+v, want FunctionDeclaration good", second)
	}

	if _, ok := p.Next(); ok {
		t.Errorf("expected end of input after the two declarations")
	}
	if diags := p.Diagnostics(); len(diags) == 0 {
		t.Errorf("expected at least one diagnostic recorded for the malformed declaration")
	}
}

// TestParseMultipleDeclarations confirms Next() lazily walks a
// multi-declaration source to exhaustion.
func TestParseMultipleDeclarations(t *testing.T) {
	p := New("a: 1. b: 2. c: 3.")
	var names []string
	for {
		n, ok := p.Next()
		if !ok {
			break
		}
		names = append(names, n.Value)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, names); diff != "" {
		t.Errorf("declaration order mismatch (-want +got):\n%s", diff)
	}
}
