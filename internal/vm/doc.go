// Package vm implements a tree-walking interpreter for shroud programs.
//
// It executes the AST directly: top-level statements run in order against the
// global scope, functions get a fresh local scope per call. The interpreter is
// the reference for behavioural equivalence between an original program and
// its obfuscated rewrite, and backs `shroud run`.
package vm
