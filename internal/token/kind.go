package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident     // name
	IntLit    // 42, 0x2a, 0b101010, 1_000
	StringLit // "text"
	BytesLit  // b"\x00\x01"

	KwFn       // fn
	KwIf       // if
	KwElse     // else
	KwWhile    // while
	KwReturn   // return
	KwBreak    // break
	KwContinue // continue
	KwPass     // pass
	KwImport   // import
	KwFrom     // from
	KwAs       // as
	KwTrue     // true
	KwFalse    // false
	KwNone     // none

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	Amp     // &
	Pipe    // |
	Caret   // ^
	Tilde   // ~
	Shl     // <<
	Shr     // >>
	AndAnd  // &&
	OrOr    // ||
	Bang    // !

	EqEq   // ==
	BangEq // !=
	Lt     // <
	LtEq   // <=
	Gt     // >
	GtEq   // >=

	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=

	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Comma     // ,
	Dot       // .
	Colon     // :
	Semicolon // ;
	Arrow     // ->
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	IntLit:        "IntLit",
	StringLit:     "StringLit",
	BytesLit:      "BytesLit",
	KwFn:          "fn",
	KwIf:          "if",
	KwElse:        "else",
	KwWhile:       "while",
	KwReturn:      "return",
	KwBreak:       "break",
	KwContinue:    "continue",
	KwPass:        "pass",
	KwImport:      "import",
	KwFrom:        "from",
	KwAs:          "as",
	KwTrue:        "true",
	KwFalse:       "false",
	KwNone:        "none",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Amp:           "&",
	Pipe:          "|",
	Caret:         "^",
	Tilde:         "~",
	Shl:           "<<",
	Shr:           ">>",
	AndAnd:        "&&",
	OrOr:          "||",
	Bang:          "!",
	EqEq:          "==",
	BangEq:        "!=",
	Lt:            "<",
	LtEq:          "<=",
	Gt:            ">",
	GtEq:          ">=",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	AmpAssign:     "&=",
	PipeAssign:    "|=",
	CaretAssign:   "^=",
	ShlAssign:     "<<=",
	ShrAssign:     ">>=",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
	Comma:         ",",
	Dot:           ".",
	Colon:         ":",
	Semicolon:     ";",
	Arrow:         "->",
}

// String returns the lexeme for punctuation and keywords, or the kind name otherwise.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsAugmentedAssign reports whether k is one of the compound assignment operators.
func (k Kind) IsAugmentedAssign() bool {
	return k >= PlusAssign && k <= ShrAssign
}

// AugmentedBase maps `+=` to `+`, `<<=` to `<<` and so on.
func (k Kind) AugmentedBase() (Kind, bool) {
	switch k {
	case PlusAssign:
		return Plus, true
	case MinusAssign:
		return Minus, true
	case StarAssign:
		return Star, true
	case SlashAssign:
		return Slash, true
	case PercentAssign:
		return Percent, true
	case AmpAssign:
		return Amp, true
	case PipeAssign:
		return Pipe, true
	case CaretAssign:
		return Caret, true
	case ShlAssign:
		return Shl, true
	case ShrAssign:
		return Shr, true
	default:
		return Invalid, false
	}
}
