// Package token defines lexical token kinds for shroud program texts.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Whitespace and comments never appear in the token stream.
//   - Builtin names (print, len, int, str, ...) are identifiers; only the
//     interpreter gives them meaning.
package token
