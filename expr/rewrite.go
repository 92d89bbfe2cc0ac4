package expr

import (
	"strings"
	"sync"
)

// ============================================================================
// REWRITER — raw text → canonical token stream
// ============================================================================
// Passes run in a fixed order; later passes rely on the canonical forms the
// earlier ones produce:
//
//   1. constants          pi, e → numeric literals
//   2. exponent           ^ → **
//   3. factorial          5! → 120
//   4. function names     log → ln, sec( → (1/cos(
//   5. reciprocal repair  close the (1/ wrapper after the argument
//   6. implicit multiply  2x, (x+1)(x-1), 3sin(x)
//
// Rewriting is total. Malformed input is carried through unchanged and
// rejected later, per point, by the evaluator.
// ============================================================================

// Rewritten is a canonicalized expression ready for evaluation. It is
// immutable after Rewrite returns and safe for concurrent use.
type Rewritten struct {
	Source string
	Tokens []Token

	once sync.Once
	prog *Program
	err  error
}

// String returns the canonical text, e.g. "2*x**2+(1/cos(x))".
func (r *Rewritten) String() string {
	return joinTokens(r.Tokens)
}

// Rewrite canonicalizes a raw expression.
func Rewrite(src string) *Rewritten {
	toks := Scan(src)
	toks = replaceConstants(toks)
	toks = replaceCarets(toks)
	toks = foldFactorials(toks)
	toks = canonicalizeFunctions(toks)
	toks = repairReciprocals(toks)
	toks = insertImplicitMultiplication(toks)
	return &Rewritten{Source: src, Tokens: toks}
}

// program compiles the token stream once and caches the outcome.
func (r *Rewritten) program() (*Program, error) {
	r.once.Do(func() {
		r.prog, r.err = compileTokens(r.Tokens, r.Source)
	})
	return r.prog, r.err
}

func replaceConstants(toks []Token) []Token {
	for i, t := range toks {
		if t.Type != Ident {
			continue
		}
		if v, ok := constants[strings.ToLower(t.Text)]; ok {
			toks[i] = Token{Type: Number, Pos: t.Pos, Value: v, Const: true}
		}
	}
	return toks
}

func replaceCarets(toks []Token) []Token {
	for i, t := range toks {
		if t.Type == Caret {
			toks[i] = Token{Type: Op, Pos: t.Pos, Text: "**"}
		}
	}
	return toks
}

// foldFactorials replaces a numeric literal followed by ! with its value.
// A ! after anything else is left for the parser to reject.
func foldFactorials(toks []Token) []Token {
	out := toks[:0:0]
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.isDigit() && i+1 < len(toks) && toks[i+1].Type == Bang {
			out = append(out, Token{Type: Number, Pos: t.Pos, Value: Factorial(t.Value)})
			i++
			continue
		}
		out = append(out, t)
	}
	return out
}

// canonicalizeFunctions turns identifiers naming functions into Func tokens.
// Tokens hold whole identifiers, so a name can only match in full: asin is
// never read as a followed by sin.
func canonicalizeFunctions(toks []Token) []Token {
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		if t.Type != Ident {
			out = append(out, t)
			continue
		}
		name := strings.ToLower(t.Text)
		if canon, ok := aliases[name]; ok {
			name = canon
		}
		if base, ok := reciprocals[name]; ok {
			out = append(out,
				Token{Type: LParen, Pos: t.Pos, Text: "("},
				Token{Type: Number, Pos: t.Pos, Text: "1", Value: 1},
				Token{Type: Op, Pos: t.Pos, Text: "/"},
				Token{Type: Func, Pos: t.Pos, Text: base, Wrapped: true},
			)
			continue
		}
		if _, ok := functions[name]; ok {
			out = append(out, Token{Type: Func, Pos: t.Pos, Text: name})
			continue
		}
		out = append(out, t)
	}
	return out
}

// repairReciprocals closes each (1/ wrapper right after the wrapped
// function's argument list. The argument's closing parenthesis is found with
// a depth counter; when it is missing the remainder is left as is.
func repairReciprocals(toks []Token) []Token {
	for i := 0; i < len(toks); i++ {
		if toks[i].Type != Func || !toks[i].Wrapped {
			continue
		}
		toks[i].Wrapped = false
		end := matchParen(toks, i+1)
		if end < 0 {
			continue
		}
		closing := Token{Type: RParen, Pos: toks[end].Pos, Text: ")"}
		toks = append(toks[:end+1], append([]Token{closing}, toks[end+1:]...)...)
	}
	return toks
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1 if toks[open] is not "(" or it is never closed.
func matchParen(toks []Token, open int) int {
	if open >= len(toks) || toks[open].Type != LParen {
		return -1
	}
	depth := 0
	for j := open; j < len(toks); j++ {
		switch toks[j].Type {
		case LParen:
			depth++
		case RParen:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// insertImplicitMultiplication adds * between juxtaposed operands:
//
//	2x  2sin(x)  2pi     digit then letter
//	(a)(b)               ) then (
//	(a)2                 ) then digit
//	2(a)                 digit then (
//	(a)x  (a)sin(x)      ) then letter
//	x(a)                 letter then (, unless the letter ends a function name
func insertImplicitMultiplication(toks []Token) []Token {
	out := make([]Token, 0, len(toks)+4)
	for i, t := range toks {
		if i > 0 && needsMultiply(toks[i-1], t) {
			out = append(out, Token{Type: Op, Pos: t.Pos, Text: "*"})
		}
		out = append(out, t)
	}
	return out
}

func needsMultiply(prev, next Token) bool {
	switch {
	case prev.isDigit() && next.isLetter():
		return true
	case prev.Type == RParen && next.Type == LParen:
		return true
	case prev.Type == RParen && next.Type == Number:
		return true
	case prev.Type == Number && next.Type == LParen:
		return true
	case prev.Type == RParen && next.isLetter():
		return true
	case prev.isLetter() && prev.Type != Func && next.Type == LParen:
		return true
	}
	return false
}
