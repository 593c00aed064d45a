// Package diag defines the diagnostic model shared by the lexer, parser and
// obfuscation pipeline.
//
// Diagnostic is the central record: a severity, a stable numeric Code, a short
// message, the primary source.Span and optional notes. Producers emit through a
// Reporter so that storage (Bag) and rendering (internal/diagfmt) stay
// decoupled from the phases that find problems.
//
// Code ranges:
//
//   - 1000..1999 LEX – lexical errors
//   - 2000..2999 SYN – syntax errors
//   - 3000..3999 OBF – rewrite pipeline findings
//   - 4000..4999 IO  – file system problems
//   - 5000..5999 CFG – configuration problems
//   - 6000..6999 RUN – interpreter failures
//
// Keep the data model deterministic: diagnostics are sorted and deduplicated
// before rendering so CLI output and tests are stable.
package diag
