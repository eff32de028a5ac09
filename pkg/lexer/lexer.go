package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/einah-lang/einah/pkg/token"
)

var (
	ErrUnterminatedString    = errors.New("unterminated string literal")
	ErrUnrecognizedCharacter = errors.New("unrecognized character")
)

type Error struct {
	Pos token.Position
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexical error at %s: %v", e.Pos, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// operators is ordered longest first so that the first match is the
// longest one.
var operators = []struct {
	text string
	kind token.Kind
}{
	{"~~", token.Eq},
	{"~!", token.Not},
	{"!~", token.Neq},
	{"->", token.Arrow},
	{"=>", token.FatArrow},
	{"&=", token.And},
	{"|=", token.Or},
	{"<~", token.LessEq},
	{">~", token.GreaterEq},
	{"<<", token.AngleOpen},
	{">>", token.AngleClose},
	{"~", token.Tilde},
	{";", token.Semicolon},
	{",", token.Comma},
	{".", token.Dot},
	{"|", token.Pipe},
	{"(", token.OpenParen},
	{")", token.CloseParen},
	{"[", token.OpenBracket},
	{"]", token.CloseBracket},
	{"{", token.OpenBrace},
	{"}", token.CloseBrace},
	{"<", token.Less},
	{">", token.Greater},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
}

const stringDelimiter = '#'

type lexer struct {
	src    []rune
	offset int
	line   int
	column int

	tokens []token.Token
}

// Tokenize converts source text into tokens. The result always ends with an
// EOF token. On error no tokens are returned.
func Tokenize(src string) ([]token.Token, error) {
	l := &lexer{
		src:    []rune(src),
		line:   1,
		column: 1,
	}

	err := l.run()
	if err != nil {
		return nil, err
	}

	return l.tokens, nil
}

func (l *lexer) run() error {
	for !l.atEnd() {
		ch := l.peek(0)
		pos := l.pos()

		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.advance()
		case ch == stringDelimiter:
			err := l.scanString(pos)
			if err != nil {
				return err
			}
		case isDigit(ch):
			l.scanNumber(pos, false)
		case ch == '-' && isDigit(l.peek(1)) && !l.prevEndsOperand():
			l.advance()
			l.scanNumber(pos, true)
		case isIdentStart(ch):
			l.scanWord(pos)
		default:
			if !l.scanOperator(pos) {
				return &Error{Pos: pos, Err: fmt.Errorf("%w %q", ErrUnrecognizedCharacter, ch)}
			}
		}
	}

	l.tokens = append(l.tokens, token.Token{Kind: token.EOF, Pos: l.pos()})
	return nil
}

func (l *lexer) scanOperator(pos token.Position) bool {
	for _, op := range operators {
		if l.hasPrefix(op.text) {
			for range len(op.text) {
				l.advance()
			}

			l.emit(op.kind, op.text, pos)
			return true
		}
	}

	return false
}

func (l *lexer) scanString(pos token.Position) error {
	l.advance()

	var b strings.Builder
	for {
		if l.atEnd() {
			return &Error{Pos: pos, Err: ErrUnterminatedString}
		}

		ch := l.advance()
		if ch == stringDelimiter {
			break
		}

		b.WriteRune(ch)
	}

	l.emit(token.String, b.String(), pos)
	return nil
}

func (l *lexer) scanNumber(pos token.Position, negative bool) {
	var b strings.Builder
	if negative {
		b.WriteRune('-')
	}

	// digits straight after a dot are an index, never a fraction
	allowFraction := !l.prevIs(token.Dot)

	for isDigit(l.peek(0)) {
		b.WriteRune(l.advance())
	}

	if allowFraction && l.peek(0) == '.' && isDigit(l.peek(1)) {
		b.WriteRune(l.advance())
		for isDigit(l.peek(0)) {
			b.WriteRune(l.advance())
		}
	}

	l.emit(token.Number, b.String(), pos)
}

func (l *lexer) scanWord(pos token.Position) {
	var b strings.Builder
	for isIdentPart(l.peek(0)) {
		b.WriteRune(l.advance())
	}

	word := b.String()
	if word == token.CommentMarker {
		for !l.atEnd() && l.peek(0) != '\n' {
			l.advance()
		}
		return
	}

	l.emit(token.LookupIdent(word), word, pos)
}

func (l *lexer) emit(kind token.Kind, literal string, pos token.Position) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Literal: literal, Pos: pos})
}

func (l *lexer) prevIs(kind token.Kind) bool {
	return len(l.tokens) > 0 && l.tokens[len(l.tokens)-1].Kind == kind
}

func (l *lexer) prevEndsOperand() bool {
	return len(l.tokens) > 0 && l.tokens[len(l.tokens)-1].Kind.EndsOperand()
}

func (l *lexer) atEnd() bool {
	return l.offset >= len(l.src)
}

func (l *lexer) peek(n int) rune {
	if l.offset+n >= len(l.src) {
		return 0
	}

	return l.src[l.offset+n]
}

func (l *lexer) hasPrefix(s string) bool {
	i := l.offset
	for _, r := range s {
		if i >= len(l.src) || l.src[i] != r {
			return false
		}
		i++
	}

	return true
}

func (l *lexer) advance() rune {
	ch := l.src[l.offset]
	l.offset++

	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	return ch
}

func (l *lexer) pos() token.Position {
	return token.Position{Line: l.line, Column: l.column}
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
