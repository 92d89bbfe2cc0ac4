package expr

import (
	"fmt"
)

// SyntaxError reports where a rewritten expression could not be parsed.
// Pos is a byte offset into the original source text.
type SyntaxError struct {
	Source string
	Pos    int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d in %q: %s", e.Pos, e.Source, e.Msg)
}

// Grammar, lowest precedence first:
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/' | '%') unary)*
//	unary   := ('+' | '-') unary | power
//	power   := primary ('**' unary)?
//	primary := Number | Ident | Func '(' args ')' | '(' expr ')'
//
// Power binds tighter than unary minus and is right-associative, so -x**2
// is -(x**2) and 2**3**2 is 2**9.
type parser struct {
	src  string
	toks []Token
	pos  int
	vars map[string]bool
}

func (p *parser) peek() Token {
	if p.pos >= len(p.toks) {
		return Token{Type: EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t Token, format string, args ...interface{}) {
	panic(&SyntaxError{Source: p.src, Pos: t.Pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.Type != Op {
		return false
	}
	for _, op := range ops {
		if t.Text == op {
			return true
		}
	}
	return false
}

func (p *parser) expr() node {
	n := p.term()
	for p.isOp("+", "-") {
		op := p.next().Text
		n = &binaryNode{op: op[0], left: n, right: p.term()}
	}
	return n
}

func (p *parser) term() node {
	n := p.unary()
	for p.isOp("*", "/", "%") {
		op := p.next().Text
		n = &binaryNode{op: op[0], left: n, right: p.unary()}
	}
	return n
}

func (p *parser) unary() node {
	if p.isOp("+", "-") {
		op := p.next().Text
		x := p.unary()
		if op == "+" {
			return x
		}
		return &negNode{x: x}
	}
	return p.power()
}

func (p *parser) power() node {
	base := p.primary()
	if p.isOp("**") {
		p.next()
		return &binaryNode{op: '^', left: base, right: p.unary()}
	}
	return base
}

func (p *parser) primary() node {
	t := p.next()
	switch t.Type {
	case Number:
		return numberNode(t.Value)
	case Ident:
		p.vars[t.Text] = true
		return varNode(t.Text)
	case Func:
		return p.call(t)
	case LParen:
		n := p.expr()
		if closing := p.next(); closing.Type != RParen {
			p.errorf(closing, "expected ), found %s", describe(closing))
		}
		return n
	case EOF:
		p.errorf(t, "unexpected end of expression")
	}
	p.errorf(t, "unexpected %s", describe(t))
	return nil
}

func (p *parser) call(fnTok Token) node {
	fn := functions[fnTok.Text]
	if open := p.next(); open.Type != LParen {
		p.errorf(open, "expected ( after %s", fnTok.Text)
	}
	var args []node
	if p.peek().Type != RParen {
		args = append(args, p.expr())
		for p.peek().Type == Comma {
			p.next()
			args = append(args, p.expr())
		}
	}
	if closing := p.next(); closing.Type != RParen {
		p.errorf(closing, "expected ) to close %s, found %s", fnTok.Text, describe(closing))
	}
	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		p.errorf(fnTok, "%s: %v", fnTok.Text, errArgCount)
	}
	return &callNode{fn: fn, args: args}
}

func describe(t Token) string {
	switch t.Type {
	case EOF:
		return "end of expression"
	case Number:
		return t.literal()
	}
	return fmt.Sprintf("%q", t.Text)
}

// compileTokens parses a token stream into a Program.
func compileTokens(toks []Token, src string) (prog *Program, err error) {
	p := &parser{src: src, toks: toks, vars: make(map[string]bool)}
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			prog, err = nil, se
		}
	}()
	root := p.expr()
	if t := p.peek(); t.Type != EOF {
		p.errorf(t, "unexpected %s", describe(t))
	}
	return &Program{root: root, vars: p.vars}, nil
}
