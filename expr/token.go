package expr

import (
	"fmt"
	"strconv"
)

// Type identifies the kind of a lexical token.
type Type int

const (
	EOF     Type = iota
	Illegal      // unrecognized character; evaluation of the expression fails
	Number       // numeric literal, or a constant/factorial folded to a value
	Ident        // identifier that is not a known function: x, a, foo
	Func         // canonical function name: sin, ln, max
	Op           // + - * / % **
	Caret        // ^, replaced by ** during rewriting
	Bang         // ! factorial suffix
	LParen
	RParen
	Comma
)

var typeNames = [...]string{
	EOF:     "EOF",
	Illegal: "Illegal",
	Number:  "Number",
	Ident:   "Ident",
	Func:    "Func",
	Op:      "Op",
	Caret:   "Caret",
	Bang:    "Bang",
	LParen:  "LParen",
	RParen:  "RParen",
	Comma:   "Comma",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Token is one lexical item of an expression.
type Token struct {
	Type  Type
	Pos   int     // byte offset in the source expression
	Text  string  // source text, or the canonical text for rewritten tokens
	Value float64 // numeric value for Number tokens

	// Const marks a Number produced from a named constant (pi, e). Such
	// numbers still count as letters for implicit multiplication, so 2pi
	// reads as 2*pi.
	Const bool

	// Wrapped marks a reciprocal-trig Func whose leading "(1/" still needs
	// its closing parenthesis.
	Wrapped bool
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "EOF"
	case Number:
		return fmt.Sprintf("%s: %s", t.Type, t.literal())
	}
	return fmt.Sprintf("%s: %q", t.Type, t.Text)
}

// literal returns the text used when the token is written back out.
func (t Token) literal() string {
	if t.Type != Number {
		return t.Text
	}
	if t.Text != "" {
		return t.Text
	}
	return strconv.FormatFloat(t.Value, 'g', -1, 64)
}

// isLetter reports whether the token originated from letters in the source,
// which is what the implicit multiplication rules key on.
func (t Token) isLetter() bool {
	return t.Type == Ident || t.Type == Func || (t.Type == Number && t.Const)
}

func (t Token) isWord() bool {
	return t.Type == Ident || t.Type == Func || t.Type == Number
}

// isDigit reports whether the token is a numeric literal written with digits.
func (t Token) isDigit() bool {
	return t.Type == Number && !t.Const
}
