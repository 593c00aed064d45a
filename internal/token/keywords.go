package token

var keywords = map[string]Kind{
	"fn":       KwFn,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"pass":     KwPass,
	"import":   KwImport,
	"from":     KwFrom,
	"as":       KwAs,
	"true":     KwTrue,
	"false":    KwFalse,
	"none":     KwNone,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsReserved reports whether name cannot be used as an identifier.
func IsReserved(name string) bool {
	_, ok := keywords[name]
	return ok
}
