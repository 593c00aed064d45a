package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := map[string]Kind{
		"fn":     KwFn,
		"return": KwReturn,
		"from":   KwFrom,
		"pass":   KwPass,
		"none":   KwNone,
	}
	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v, %v; want %v", lexeme, got, ok, want)
		}
	}

	for _, lexeme := range []string{"Fn", "RETURN", "print", "int", "let"} {
		if _, ok := LookupKeyword(lexeme); ok {
			t.Fatalf("LookupKeyword(%q) unexpectedly matched", lexeme)
		}
	}
}
