package expr

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner splits an expression into tokens. It never fails: characters it
// does not understand become Illegal tokens and are rejected by the parser.
type Scanner struct {
	input string
	pos   int
}

// NewScanner returns a scanner over the given expression text.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// Scan returns every token of the expression, ending with an EOF token.
func Scan(input string) []Token {
	s := NewScanner(input)
	var toks []Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

// Next returns the next token.
func (s *Scanner) Next() Token {
	s.skipSpace()
	if s.pos >= len(s.input) {
		return Token{Type: EOF, Pos: s.pos}
	}
	start := s.pos
	r, w := utf8.DecodeRuneInString(s.input[s.pos:])
	switch {
	case isDigit(r) || (r == '.' && isDigit(s.peekAt(s.pos+1))):
		return s.number()
	case isIdentStart(r):
		return s.identifier()
	}
	s.pos += w
	switch r {
	case '(':
		return Token{Type: LParen, Pos: start, Text: "("}
	case ')':
		return Token{Type: RParen, Pos: start, Text: ")"}
	case ',':
		return Token{Type: Comma, Pos: start, Text: ","}
	case '^':
		return Token{Type: Caret, Pos: start, Text: "^"}
	case '!':
		return Token{Type: Bang, Pos: start, Text: "!"}
	case '+', '-', '/', '%':
		return Token{Type: Op, Pos: start, Text: string(r)}
	case '*':
		if s.peekAt(s.pos) == '*' {
			s.pos++
			return Token{Type: Op, Pos: start, Text: "**"}
		}
		return Token{Type: Op, Pos: start, Text: "*"}
	}
	return Token{Type: Illegal, Pos: start, Text: string(r)}
}

func (s *Scanner) skipSpace() {
	for s.pos < len(s.input) {
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += w
	}
}

// peekAt returns the byte-sized rune at i, or -1 past the end.
func (s *Scanner) peekAt(i int) rune {
	if i >= len(s.input) {
		return -1
	}
	return rune(s.input[i])
}

// number scans digits, an optional fraction and an optional exponent. The
// exponent is only taken when digits follow it, so "2e" scans as 2 then e.
func (s *Scanner) number() Token {
	start := s.pos
	s.digits()
	if s.peekAt(s.pos) == '.' {
		s.pos++
		s.digits()
	}
	if c := s.peekAt(s.pos); c == 'e' || c == 'E' {
		next := s.pos + 1
		if c := s.peekAt(next); c == '+' || c == '-' {
			next++
		}
		if isDigit(s.peekAt(next)) {
			s.pos = next
			s.digits()
		}
	}
	text := s.input[start:s.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{Type: Illegal, Pos: start, Text: text}
	}
	return Token{Type: Number, Pos: start, Text: text, Value: v}
}

func (s *Scanner) digits() {
	for isDigit(s.peekAt(s.pos)) {
		s.pos++
	}
}

func (s *Scanner) identifier() Token {
	start := s.pos
	for s.pos < len(s.input) {
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		if !isIdentStart(r) && !isDigit(r) {
			break
		}
		s.pos += w
	}
	return Token{Type: Ident, Pos: start, Text: s.input[start:s.pos]}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// joinTokens writes tokens back out as canonical text. Adjacent words keep
// a space between them so "sin x" does not read back as one identifier.
func joinTokens(toks []Token) string {
	var b strings.Builder
	prev := Token{Type: EOF}
	for _, t := range toks {
		if t.Type == EOF {
			break
		}
		if prev.isWord() && t.isWord() {
			b.WriteByte(' ')
		}
		b.WriteString(t.literal())
		prev = t
	}
	return b.String()
}
