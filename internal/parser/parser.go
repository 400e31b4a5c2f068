// Package parser implements the recursive-descent parser that turns a
// lexer's token stream into a lazy sequence of top-level AST nodes.
//
// Grounded on the teacher's parser struct in pkg/yang/parse.go: a
// token push-back stack (push/pop/next) and a single recovery point
// per top-level construct (nextStatement's switch on hitBrace/ignoreMe
// becomes this package's recover-and-resync around parseTopDecl).
package parser

import (
	"lovelac/internal/ast"
	"lovelac/internal/diag"
	"lovelac/internal/lexer"
	"lovelac/internal/token"
)

// Parser is a single-threaded recursive-descent parser over a token
// stream. It produces a lazy, finite sequence of top-level nodes via
// repeated calls to Next.
type Parser struct {
	lex    *lexer.Lexer
	pushed []token.Token
	diags  diag.Bag

	// curParams holds the parameter names in scope for the function
	// body currently being parsed, used to disambiguate a bare
	// identifier call as a VariableReference rather than a niladic
	// FunctionCall. Lovela has no nested scopes, so one flat set per
	// top-level declaration suffices.
	curParams map[string]bool
}

// New creates a Parser over src.
func New(src string) *Parser {
	return &Parser{lex: lexer.New(src)}
}

// Diagnostics returns every diagnostic accumulated so far, in order.
func (p *Parser) Diagnostics() []diag.Diagnostic { return p.diags.All() }

// Next returns the next top-level node (FunctionDeclaration or Error),
// or (nil, false) once the input is exhausted.
func (p *Parser) Next() (*ast.Node, bool) {
	if p.peekKind() == token.End {
		return nil, false
	}
	return p.parseTopLevelRecover(), true
}

// --- token stream plumbing -------------------------------------------------

// push puts a token back so it is returned again by the next call to next.
func (p *Parser) push(t token.Token) { p.pushed = append(p.pushed, t) }

// nextRaw returns the next token without converting a lexer Error token
// into a panic; used only by resync, which must tolerate further
// ill-formed input while skipping ahead.
func (p *Parser) nextRaw() token.Token {
	if n := len(p.pushed); n > 0 {
		t := p.pushed[n-1]
		p.pushed = p.pushed[:n-1]
		return t
	}
	return p.lex.Next()
}

// next returns the next token, raising errorTokenFromLexer if the
// lexer reports an Error token.
func (p *Parser) next() token.Token {
	t := p.nextRaw()
	if t.Kind == token.Error {
		raise(errorTokenFromLexer, t, "%s", t.Message)
	}
	return t
}

// peekTok returns the next token without consuming it.
func (p *Parser) peekTok() token.Token {
	t := p.next()
	p.push(t)
	return t
}

func (p *Parser) peekKind() token.Kind { return p.peekTok().Kind }

func (p *Parser) peekIs(k token.Kind) bool { return p.peekKind() == k }

// peekIsSecond reports whether the token two positions ahead has kind k.
func (p *Parser) peekIsSecond(k token.Kind) bool {
	first := p.next()
	second := p.peekTok()
	ok := second.Kind == k
	p.push(first)
	return ok
}

// acceptKind consumes and returns true if the next token has kind k.
func (p *Parser) acceptKind(k token.Kind) bool {
	if p.peekKind() != k {
		return false
	}
	p.next()
	return true
}

// expect consumes the next token, requiring it to have kind k.
func (p *Parser) expect(k token.Kind) token.Token {
	t := p.next()
	if t.Kind != k {
		raise(missingToken, t, "expected %s, got %s", k, t.Kind)
	}
	return t
}

// --- top-level recovery -----------------------------------------------------

func (p *Parser) parseTopLevelRecover() (node *ast.Node) {
	defer func() {
		if r := recover(); r == nil {
			return
		} else if sig, ok := r.(*signal); ok {
			p.diags.Addf(sig.kind.code(), sig.tok.Line, sig.tok.Col, sig.tok.Excerpt, "%s", sig.message)
			node = ast.NewError(sig.tok, sig.message)
			p.resync()
		} else {
			panic(r)
		}
	}()
	return p.parseTopDecl()
}

// resync skips tokens until the next top-level boundary: a consumed
// '.' or end of input. Per spec.md §9's open question, recovery from
// a missing terminator is intentionally coarse: it skips to the next
// top-level start rather than trying to re-derive the intended
// structure.
func (p *Parser) resync() {
	for {
		t := p.nextRaw()
		if t.Kind == token.End {
			p.push(t)
			return
		}
		if t.Kind == token.SeparatorDot {
			return
		}
	}
}

// --- grammar -----------------------------------------------------------

func isOperatorToken(t token.Token) bool {
	switch t.Kind {
	case token.Comparison, token.Arithmetic, token.Bitwise, token.Arrow:
		return true
	default:
		return false
	}
}

func isNameSegmentToken(t token.Token) bool {
	return t.Kind == token.Identifier || isOperatorToken(t)
}

// canStartCall reports whether k can begin a `call` production. It is
// a cheap first filter for the body/terminator decision in parseBody;
// declarationFollows resolves the remaining ambiguity, since several
// call-starting kinds (Identifier, SeparatorSlash, RoundOpen, an
// operator) can equally start a fresh top-level declaration's name.
func canStartCall(k token.Kind) bool {
	switch k {
	case token.LiteralString, token.LiteralStringInterpolation,
		token.LiteralInteger, token.LiteralDecimal,
		token.Identifier, token.SeparatorSlash, token.RoundOpen,
		token.Comparison, token.Arithmetic, token.Bitwise:
		return true
	default:
		return false
	}
}

// declarationFollows looks ahead, without consuming, for a ':' at
// bracket depth 0 before the next depth-0 '.' or end of input. A
// body's statement separator is a bare '.', and nothing inside a call
// production ever opens a colon at depth 0, so finding one means the
// tokens starting here belong to a fresh top-level declaration's name
// and optional parameter list/type-spec, not a continuing body call.
func (p *Parser) declarationFollows() bool {
	var buf []token.Token
	depth := 0
	result := false
loop:
	for {
		t := p.nextRaw()
		buf = append(buf, t)
		switch t.Kind {
		case token.End, token.Error:
			break loop
		case token.RoundOpen, token.SquareOpen:
			depth++
		case token.RoundClose, token.SquareClose:
			depth--
		case token.SeparatorColon:
			if depth <= 0 {
				result = true
				break loop
			}
		case token.SeparatorDot:
			if depth <= 0 {
				break loop
			}
		}
	}
	for i := len(buf) - 1; i >= 0; i-- {
		p.push(buf[i])
	}
	return result
}

// parseTopDecl parses one top-level declaration:
//
//	top-decl := [api-prefix] [type-spec] qualified-name
//	            [ '(' params ')' ] [ type-spec ] [ ':' body '.' ]
func (p *Parser) parseTopDecl() *ast.Node {
	apiSpec := p.parseAPIPrefix()

	inType := ast.Any
	if p.peekIs(token.SquareOpen) {
		inType = p.parseTypeSpec()
	}

	var ns ast.NameSpace
	var nameTok token.Token
	hasName := false
	if next := p.peekTok(); next.Kind == token.Identifier || next.Kind == token.SeparatorSlash || isOperatorToken(next) {
		ns, nameTok = p.parseQualifiedName()
		hasName = true
	}

	var params []ast.VariableDeclaration
	if p.acceptKind(token.RoundOpen) {
		params = p.parseParams()
		p.expect(token.RoundClose)
	}

	outType := ast.Any
	if p.peekIs(token.SquareOpen) {
		outType = p.parseTypeSpec()
	} else if !hasName {
		// An unnamed declaration (the program entry point) with no
		// out-type spec gets None. An explicit out-type spec on it is
		// kept as parsed and is not checked against None.
		outType = ast.None
	}

	node := &ast.Node{
		Kind:       ast.FunctionDeclaration,
		InType:     inType,
		OutType:    outType,
		NameSpace:  ns,
		Parameters: params,
		ApiSpec:    apiSpec,
	}
	if hasName {
		node.Value = nameTok.Value
		node.Token = nameTok
	}

	if p.acceptKind(token.SeparatorColon) {
		p.curParams = paramSet(params)
		body := p.parseBody()
		p.curParams = nil
		node.Children = []*ast.Node{body}
	}
	p.expect(token.SeparatorDot)
	return node
}

func paramSet(params []ast.VariableDeclaration) map[string]bool {
	set := make(map[string]bool, len(params))
	for _, pd := range params {
		if pd.Name != "" {
			set[pd.Name] = true
		}
	}
	return set
}

// parseAPIPrefix parses an optional '->'/'<-' prefix and its optional
// dialect string literal.
func (p *Parser) parseAPIPrefix() ast.ApiSpec {
	if p.peekKind() != token.Arrow {
		return 0
	}
	t := p.next()
	var spec ast.ApiSpec
	if t.Value == "->" {
		spec |= ast.Import
	} else {
		spec |= ast.Export
	}
	if p.peekKind() == token.LiteralString {
		dialect := p.next()
		switch dialect.Value {
		case "C":
			spec |= ast.C
		case "C++":
			spec |= ast.Cpp
		case "Standard C":
			spec |= ast.Standard | ast.C
		case "Standard C++":
			spec |= ast.Standard | ast.Cpp
		case "C Dynamic":
			spec |= ast.C | ast.Dynamic
		default:
			raise(invalidCurrentToken, dialect, "unknown API dialect %q", dialect.Value)
		}
	}
	return spec
}

// parseQualifiedName parses:
//
//	qualified-name := ['/'] identifier { '|' identifier } [ '|' name-or-operator ]
func (p *Parser) parseQualifiedName() (ast.NameSpace, token.Token) {
	absolute := p.acceptKind(token.SeparatorSlash)
	var segments []string
	for {
		t := p.next()
		if !isNameSegmentToken(t) {
			raise(unexpectedToken, t, "expected identifier or operator in qualified name, got %s", t.Kind)
		}
		if p.peekKind() == token.SeparatorPipe {
			if isOperatorToken(t) {
				raise(unexpectedToken, t, "operator may only occupy the final segment of a qualified name")
			}
			segments = append(segments, t.Value)
			p.next() // consume '|'
			continue
		}
		return ast.NameSpace{Segments: segments, Absolute: absolute}, t
	}
}

func (p *Parser) parseParams() []ast.VariableDeclaration {
	var params []ast.VariableDeclaration
	if p.peekIs(token.RoundClose) {
		return params
	}
	params = append(params, p.parseParam())
	for p.acceptKind(token.SeparatorComma) {
		params = append(params, p.parseParam())
	}
	return params
}

// parseParam parses `[identifier] [ type-spec ]`.
func (p *Parser) parseParam() ast.VariableDeclaration {
	var v ast.VariableDeclaration
	v.Type = ast.Any
	if p.peekIs(token.Identifier) {
		v.Name = p.next().Value
	}
	if p.peekIs(token.SquareOpen) {
		v.Type = p.parseTypeSpec()
	}
	return v
}

// parseTypeSpec parses `'[' (nothing | '()' | type-ref) ']'`.
func (p *Parser) parseTypeSpec() ast.TypeSpec {
	p.expect(token.SquareOpen)
	if p.acceptKind(token.SquareClose) {
		return ast.Any
	}
	if p.peekIs(token.RoundOpen) && p.peekIsSecond(token.RoundClose) {
		p.next()
		p.next()
		p.expect(token.SquareClose)
		return ast.None
	}
	ts := p.parseTypeRef()
	p.expect(token.SquareClose)
	return ts
}

// parseTypeRef parses `type-ref := qualified-name | primitive | literal`.
// A literal in type position drives the narrowest-primitive inference
// of spec.md §4.3 rule 3 — the parser's one piece of semantic analysis.
func (p *Parser) parseTypeRef() ast.TypeSpec {
	t := p.peekTok()
	switch t.Kind {
	case token.PrimitiveType:
		p.next()
		return ast.PrimitiveType(parsePrimitiveToken(t.Value))
	case token.LiteralInteger:
		p.next()
		return inferPrimitiveFromInt(t.Value)
	case token.LiteralDecimal:
		p.next()
		return inferPrimitiveFromDecimal(t.Value)
	case token.Identifier, token.SeparatorSlash:
		_, nameTok := p.parseQualifiedName()
		if isTaggedName(nameTok.Value) {
			return ast.Tagged(nameTok.Value)
		}
		return ast.Named(nameTok.Value)
	default:
		raise(unexpectedToken, t, "expected a type reference, got %s", t.Kind)
		return ast.TypeSpec{}
	}
}

// isTaggedName reports whether name denotes a parameter-scoped
// placeholder (an emitter template parameter) rather than a concrete
// user-defined type. Lovela's distilled grammar does not give tagged
// types their own sigil, so — mirroring the convention the original
// compiler's generic functions use in its test fixtures — an
// initial-capital identifier in type position is treated as tagged
// and a lowercase one as a named user type.
func isTaggedName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// parseBody parses `body := expression { '.' expression }`, returning
// an Expression node whose children are the body's statement
// expressions in source order.
func (p *Parser) parseBody() *ast.Node {
	var stmts []*ast.Node
	stmts = append(stmts, p.parseExpressionChain())
	for p.peekIs(token.SeparatorDot) {
		dot := p.next()
		if !canStartCall(p.peekKind()) || p.declarationFollows() {
			// This '.' terminates the enclosing declaration, not the
			// body; hand it back so parseTopDecl's trailing expect
			// consumes it.
			p.push(dot)
			break
		}
		stmts = append(stmts, p.parseExpressionChain())
	}
	return &ast.Node{Kind: ast.Expression, Children: stmts}
}

// parseExpressionChain parses `expression := call { call }`: a
// left-associative fold where each call's implicit input is the
// previous call's result.
func (p *Parser) parseExpressionChain() *ast.Node {
	cur := p.parseCall(nil)
	for canStartCall(p.peekKind()) {
		cur = p.parseCall(cur)
	}
	return cur
}

// parseCall parses one `call` production. prevInput is the previous
// call's result in the enclosing chain, or nil if this is the first
// call (in which case an ExpressionInput node is synthesised to stand
// for whatever value feeds the expression).
func (p *Parser) parseCall(prevInput *ast.Node) *ast.Node {
	t := p.peekTok()
	switch {
	case t.Kind == token.LiteralString || t.Kind == token.LiteralInteger || t.Kind == token.LiteralDecimal:
		return p.parseLiteral()
	case t.Kind == token.Comparison || t.Kind == token.Arithmetic || t.Kind == token.Bitwise:
		return p.parseBinaryOp(prevInput)
	case t.Kind == token.RoundOpen:
		return p.parseGroupOrTuple()
	case t.Kind == token.Identifier || t.Kind == token.SeparatorSlash:
		return p.parseFunctionCallOrVarRef(prevInput)
	default:
		raise(invalidCurrentToken, t, "unexpected token %s in expression", t.Kind)
		return nil
	}
}

func inputOrSynth(prevInput *ast.Node) *ast.Node {
	if prevInput != nil {
		return prevInput
	}
	return &ast.Node{Kind: ast.ExpressionInput}
}

func (p *Parser) parseFunctionCallOrVarRef(prevInput *ast.Node) *ast.Node {
	ns, nameTok := p.parseQualifiedName()
	if ns.Empty() && !ns.Absolute && p.curParams[nameTok.Value] && p.peekKind() != token.RoundOpen {
		return &ast.Node{Kind: ast.VariableReference, Value: nameTok.Value, Token: nameTok}
	}

	node := &ast.Node{Kind: ast.FunctionCall, Value: nameTok.Value, Token: nameTok, NameSpace: ns}
	node.Children = append(node.Children, inputOrSynth(prevInput))

	if p.acceptKind(token.RoundOpen) {
		if !p.peekIs(token.RoundClose) {
			node.Children = append(node.Children, p.parseExpressionChain())
			for p.acceptKind(token.SeparatorComma) {
				node.Children = append(node.Children, p.parseExpressionChain())
			}
		}
		p.expect(token.RoundClose)
	}
	return node
}

func (p *Parser) parseBinaryOp(prevInput *ast.Node) *ast.Node {
	opTok := p.next()
	left := inputOrSynth(prevInput)
	right := p.parseExpressionChain()
	return &ast.Node{Kind: ast.BinaryOperation, Value: opTok.Value, Token: opTok, Children: []*ast.Node{left, right}}
}

// parseGroupOrTuple parses `group | tuple`: empty parens are the None
// value, a single inner expression is a group (returned unwrapped),
// and comma-separated expressions form a Tuple.
func (p *Parser) parseGroupOrTuple() *ast.Node {
	open := p.expect(token.RoundOpen)
	if p.acceptKind(token.RoundClose) {
		return &ast.Node{Kind: ast.Literal, Value: "()", Token: open, OutType: ast.None}
	}
	first := p.parseExpressionChain()
	if !p.peekIs(token.SeparatorComma) {
		p.expect(token.RoundClose)
		return first
	}
	children := []*ast.Node{first}
	for p.acceptKind(token.SeparatorComma) {
		children = append(children, p.parseExpressionChain())
	}
	p.expect(token.RoundClose)
	return &ast.Node{Kind: ast.Tuple, Token: open, Children: children}
}

// parseLiteral parses a literal, folding a `'...{}...' ` interpolation
// chain into sibling Literal children alternating string segments and
// interpolation indices.
func (p *Parser) parseLiteral() *ast.Node {
	t := p.next()
	node := &ast.Node{Kind: ast.Literal, Value: t.Value, Token: t}
	if t.Kind != token.LiteralString {
		return node
	}
	for p.peekKind() == token.LiteralStringInterpolation {
		interp := p.next()
		node.Children = append(node.Children, &ast.Node{Kind: ast.Literal, Value: interp.Value, Token: interp})
		if p.peekKind() == token.LiteralString {
			seg := p.next()
			node.Children = append(node.Children, &ast.Node{Kind: ast.Literal, Value: seg.Value, Token: seg})
		}
	}
	return node
}
