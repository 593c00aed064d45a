// Package ast defines the program tree every rewrite pass operates on.
//
// The tree is a closed tagged union: Expr and Stmt carry a Kind and a
// Kind-specific Data payload, and every consumer switches exhaustively over
// the kinds it understands. Statements are never shared between statement
// lists; passes that need a private copy use Clone.
//
// Structured statements are Assign, If and Return. Everything else (While,
// Break, Continue, Pass, expression statements, imports and function
// definitions) is treated as an opaque passthrough by passes that only
// understand the structured subset; see Stmt.IsStructured.
package ast
