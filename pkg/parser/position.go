package parser

import (
	"errors"
	"fmt"

	"github.com/einah-lang/einah/pkg/token"
)

type Position struct {
	Line   int
	Column int
}

func positionOf(tok token.Token) Position {
	return Position{Line: tok.Pos.Line, Column: tok.Pos.Column}
}

func (p Position) Pos() Position {
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// WrapError attaches p to err unless err already carries a position.
func (p Position) WrapError(err error) error {
	if err == nil {
		return nil
	}

	var posErr *PositionError
	if errors.As(err, &posErr) {
		return err
	}

	return &PositionError{Position: p, Err: err}
}

type PositionError struct {
	Position Position
	Err      error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Position, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

var ErrUnexpectedToken = errors.New("unexpected token")

type SyntaxError struct {
	Position Position
	Found    token.Token
	Expected string
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("syntax error at %s: %s: found %s, expected %s", e.Position, e.Msg, e.Found, e.Expected)
	}

	return fmt.Sprintf("syntax error at %s: found %s, expected %s", e.Position, e.Found, e.Expected)
}

func (e *SyntaxError) Unwrap() error {
	return ErrUnexpectedToken
}

// IsIncomplete reports whether err was caused by the input ending early, so
// that more input could still make it parse.
func IsIncomplete(err error) bool {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Found.Kind == token.EOF
	}

	return false
}
