package grammar

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rhino1998/dimcalc/pkg/ast"
)

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF is the end of the input.
	tokenEOF
	// tokenNewline ends a line; ';' lexes as a newline too.
	tokenNewline
	tokenNum
	tokenIdent
	// tokenOp is one of Operators.
	tokenOp
	tokenOpen
	tokenClose
	tokenAssign
	// tokenArrow is "->", introducing a display unit.
	tokenArrow
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenNewline:
		return "end of line"
	case tokenNum:
		return "number"
	case tokenIdent:
		return "identifier"
	case tokenOp:
		return "operator"
	case tokenOpen:
		return "'('"
	case tokenClose:
		return "')'"
	case tokenAssign:
		return "'='"
	case tokenArrow:
		return "'->'"
	default:
		return "none"
	}
}

// Operators contains the runes lexed as binary operators.
const Operators = "+-*/^"

type token struct {
	kind  tokenKind
	text  string
	pos   ast.Position
	start int
	end   int
}

func (t token) String() string {
	if t.text == "" {
		return t.kind.String()
	}

	return fmt.Sprintf("%s %q", t.kind, t.text)
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
	file string
}

func newLexer(file, src string) *lexer {
	return &lexer{src: src, line: 1, col: 1, file: file}
}

func (l *lexer) pos() ast.Position {
	return ast.Position{File: l.file, Line: l.line, Column: l.col}
}

func (l *lexer) peekRune() (rune, int) {
	if l.off >= len(l.src) {
		return utf8.RuneError, 0
	}

	return utf8.DecodeRuneInString(l.src[l.off:])
}

func (l *lexer) advance() rune {
	r, sz := l.peekRune()
	l.off += sz
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexer) all() ([]token, error) {
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	for {
		r, sz := l.peekRune()
		switch {
		case sz == 0:
			return token{kind: tokenEOF, pos: l.pos(), start: l.off, end: l.off}, nil
		case r == '#':
			for sz > 0 && r != '\n' {
				l.advance()
				r, sz = l.peekRune()
			}
			continue
		case r == '\n' || r == ';':
			tok := token{kind: tokenNewline, text: string(r), pos: l.pos(), start: l.off}
			l.advance()
			tok.end = l.off
			return tok, nil
		case unicode.IsSpace(r):
			l.advance()
			continue
		}

		tok := token{pos: l.pos(), start: l.off}
		switch {
		case r >= '0' && r <= '9', r == '.':
			if err := l.scanNum(); err != nil {
				return token{}, err
			}
			tok.kind = tokenNum
		case r == '_', unicode.IsLetter(r):
			l.scanIdent()
			tok.kind = tokenIdent
		case r == '-' && strings.HasPrefix(l.src[l.off:], "->"):
			l.advance()
			l.advance()
			tok.kind = tokenArrow
		case strings.ContainsRune(Operators, r):
			l.advance()
			tok.kind = tokenOp
		case r == '(':
			l.advance()
			tok.kind = tokenOpen
		case r == ')':
			l.advance()
			tok.kind = tokenClose
		case r == '=':
			l.advance()
			tok.kind = tokenAssign
		default:
			return token{}, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("invalid character %q", r)}
		}

		tok.end = l.off
		tok.text = l.src[tok.start:tok.end]

		return tok, nil
	}
}

func (l *lexer) digits() int {
	n := 0
	for {
		r, _ := l.peekRune()
		if r < '0' || r > '9' {
			return n
		}
		l.advance()
		n++
	}
}

// scanNum scans digits ['.' digits] [('e'|'E') ['+'|'-'] digits]. An 'e'
// not followed by an exponent is left for the next token, so "5em" is a
// number followed by the unit "em".
func (l *lexer) scanNum() error {
	start := l.pos()

	n := l.digits()
	if r, _ := l.peekRune(); r == '.' {
		l.advance()
		n += l.digits()
	}

	if n == 0 {
		return &SyntaxError{Pos: start, Msg: "invalid number"}
	}

	if r, _ := l.peekRune(); r != 'e' && r != 'E' {
		return nil
	}

	i := l.off + 1
	if i < len(l.src) && (l.src[i] == '+' || l.src[i] == '-') {
		i++
	}
	if i >= len(l.src) || l.src[i] < '0' || l.src[i] > '9' {
		return nil
	}

	l.advance()
	if r, _ := l.peekRune(); r == '+' || r == '-' {
		l.advance()
	}
	l.digits()

	return nil
}

func (l *lexer) scanIdent() {
	for {
		r, sz := l.peekRune()
		if sz == 0 || (r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)) {
			return
		}
		l.advance()
	}
}
