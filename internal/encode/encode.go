// Package encode hides str and bytes values of a function behind integers.
//
// A value is encoded as the big-endian unsigned integer of its bytes; the
// inverse maps 0 back to a single zero byte. Strings travel through their
// UTF-8 form. Decoding helpers are injected into the program as ordinary
// functions.
package encode

import (
	"math/big"

	"shroud/internal/ast"
)

// Int returns the big-endian integer of b.
func Int(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// Bytes is the inverse of Int for non-negative n. Zero yields one zero byte.
func Bytes(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0}
	}
	return n.Bytes()
}

// Encodable reports whether a literal can be replaced by its integer form
// without changing its value. Empty values and values with a leading zero
// byte do not survive Bytes(Int(b)).
func Encodable(lit ast.LiteralData) bool {
	if lit.Kind != ast.LitStr && lit.Kind != ast.LitBytes {
		return false
	}
	return len(lit.Bytes) > 0 && lit.Bytes[0] != 0
}

// Result describes what Function changed.
type Result struct {
	Params   []string // parameters rebound to their integer form
	Literals int      // literals replaced by decode sites
}

// Changed reports whether the function now depends on the helpers.
func (r Result) Changed() bool {
	return len(r.Params) > 0 || r.Literals > 0
}

// Function rewrites fn in place.
//
// Every str or bytes parameter that is never reassigned is rebound in a
// prologue to its integer form, and each read of it becomes a decode site.
// Encodable literals become decode sites over integer literals.
func Function(fn *ast.Function, h Helpers) Result {
	var res Result

	ast.MapAllExprs(fn.Body, func(e *ast.Expr) *ast.Expr {
		lit, ok := e.Literal()
		if !ok || !Encodable(lit) {
			return e
		}
		res.Literals++
		return h.decodeSite(ast.BigLit(Int(lit.Bytes)), lit.Kind == ast.LitStr)
	})

	kinds := encodableParams(fn)
	if len(kinds) == 0 {
		return res
	}
	ast.MapAllExprs(fn.Body, func(e *ast.Expr) *ast.Expr {
		name, ok := e.IdentName()
		if !ok {
			return e
		}
		kind, hit := kinds[name]
		if !hit {
			return e
		}
		return h.decodeSite(e, kind == ast.TypeStr)
	})

	prologue := make([]*ast.Stmt, 0, len(kinds)+len(fn.Body))
	for _, p := range fn.Params {
		kind, ok := kinds[p.Name]
		if !ok {
			continue
		}
		raw := ast.Name(p.Name)
		if kind == ast.TypeStr {
			raw = ast.CallName("encode", raw)
		}
		prologue = append(prologue, ast.AssignName(p.Name, ast.CallName(h.FromBytes, raw)))
		res.Params = append(res.Params, p.Name)
	}
	fn.Body = append(prologue, fn.Body...)
	return res
}

func encodableParams(fn *ast.Function) map[string]ast.TypeKind {
	out := make(map[string]ast.TypeKind)
	for _, p := range fn.Params {
		if k := p.Type(); k == ast.TypeStr || k == ast.TypeBytes {
			out[p.Name] = k
		}
	}
	if len(out) == 0 {
		return nil
	}
	ast.InspectStmts(fn.Body, func(s *ast.Stmt) bool {
		d, ok := s.Data.(ast.AssignData)
		if !ok {
			return true
		}
		target := d.Target
		if idx, isIndex := target.Data.(ast.IndexData); isIndex {
			target = idx.Object
		}
		if name, isName := target.IdentName(); isName {
			delete(out, name)
		}
		return true
	})
	return out
}
