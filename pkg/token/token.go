package token

import "fmt"

type Kind int

const (
	EOF Kind = iota

	Identifier
	Number
	String

	Tilde
	Semicolon
	Comma
	Dot
	Pipe
	Arrow
	FatArrow

	OpenParen
	CloseParen
	OpenBracket
	CloseBracket
	OpenBrace
	CloseBrace
	AngleOpen
	AngleClose

	Plus
	Minus
	Star
	Slash
	Percent

	Eq
	Neq
	Less
	Greater
	LessEq
	GreaterEq
	And
	Or
	Not

	Sprout
	Root
	Spit
	Whisper
	Then
	OrElse
	Spin
	Forever
	Cartwheel
	Drift
	Skip
	Shatter
	Conjure
	Zipback
	Nest
	Boolean
	Null
)

var kindNames = map[Kind]string{
	EOF:          "EOF",
	Identifier:   "Identifier",
	Number:       "Number",
	String:       "String",
	Tilde:        "Tilde",
	Semicolon:    "Semicolon",
	Comma:        "Comma",
	Dot:          "Dot",
	Pipe:         "Pipe",
	Arrow:        "Arrow",
	FatArrow:     "FatArrow",
	OpenParen:    "OpenParen",
	CloseParen:   "CloseParen",
	OpenBracket:  "OpenBracket",
	CloseBracket: "CloseBracket",
	OpenBrace:    "OpenBrace",
	CloseBrace:   "CloseBrace",
	AngleOpen:    "AngleOpen",
	AngleClose:   "AngleClose",
	Plus:         "Plus",
	Minus:        "Minus",
	Star:         "Star",
	Slash:        "Slash",
	Percent:      "Percent",
	Eq:           "Eq",
	Neq:          "Neq",
	Less:         "Less",
	Greater:      "Greater",
	LessEq:       "LessEq",
	GreaterEq:    "GreaterEq",
	And:          "And",
	Or:           "Or",
	Not:          "Not",
	Sprout:       "Sprout",
	Root:         "Root",
	Spit:         "Spit",
	Whisper:      "Whisper",
	Then:         "Then",
	OrElse:       "OrElse",
	Spin:         "Spin",
	Forever:      "Forever",
	Cartwheel:    "Cartwheel",
	Drift:        "Drift",
	Skip:         "Skip",
	Shatter:      "Shatter",
	Conjure:      "Conjure",
	Zipback:      "Zipback",
	Nest:         "Nest",
	Boolean:      "Boolean",
	Null:         "Null",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return name
}

// CommentMarker starts a comment that runs to the end of the line.
const CommentMarker = "psst"

var keywords = map[string]Kind{
	"sprout":    Sprout,
	"root":      Root,
	"spit":      Spit,
	"whisper":   Whisper,
	"then":      Then,
	"or":        OrElse,
	"spin":      Spin,
	"forever":   Forever,
	"cartwheel": Cartwheel,
	"drift":     Drift,
	"skip":      Skip,
	"shatter":   Shatter,
	"conjure":   Conjure,
	"zipback":   Zipback,
	"nest":      Nest,
	"yup":       Boolean,
	"nope":      Boolean,
	"zip":       Null,
}

// LookupIdent returns the keyword kind for word, or Identifier.
func LookupIdent(word string) Kind {
	if kind, ok := keywords[word]; ok {
		return kind
	}

	return Identifier
}

type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}

	return fmt.Sprintf("%s(%q)", t.Kind, t.Literal)
}

// EndsOperand reports whether a token of this kind can be the last token of
// an operand, in which case a following '-' is a binary minus.
func (k Kind) EndsOperand() bool {
	switch k {
	case Identifier, Number, String, Boolean, Null,
		CloseParen, CloseBracket, CloseBrace:
		return true
	default:
		return false
	}
}
