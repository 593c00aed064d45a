package encode

import (
	"fmt"

	"shroud/internal/ast"
	"shroud/internal/namegen"
	"shroud/internal/parser"
)

// Helpers names the two injected conversion functions.
type Helpers struct {
	FromBytes string // bytes -> int
	ToBytes   string // int -> bytes
}

// NewHelpers picks helper names that are free in the program.
func NewHelpers(g *namegen.Gen) Helpers {
	return Helpers{
		FromBytes: g.Fresh("int_from_bytes"),
		ToBytes:   g.Fresh("bytes_from_int"),
	}
}

const helperTemplate = `fn %[1]s(b) {
    n = 0;
    i = 0;
    while i < len(b) {
        n = n * 256 + b[i];
        i = i + 1;
    }
    return n;
}

fn %[2]s(n) {
    if n == 0 {
        return b"\x00";
    }
    out = b"";
    while n > 0 {
        out = byte(n %% 256) + out;
        n = n / 256;
    }
    return out;
}
`

// Source returns the helper definitions as program text.
func (h Helpers) Source() string {
	return fmt.Sprintf(helperTemplate, h.FromBytes, h.ToBytes)
}

// Funcs returns the helper definitions as top-level statements.
func (h Helpers) Funcs() []*ast.Stmt {
	prog, err := parser.ParseString("<encode-helpers>", h.Source())
	if err != nil {
		// Fresh only returns identifiers, so the template always parses.
		panic(fmt.Sprintf("encode: helper source does not parse: %v", err))
	}
	return prog.Items
}

func (h Helpers) decodeSite(n *ast.Expr, str bool) *ast.Expr {
	site := ast.CallName(h.ToBytes, n)
	if str {
		site = ast.CallName("decode", site)
	}
	return site
}
