// Package trace records what the obfuscator does and how long it takes.
//
// Events are spans (begin/end pairs) and points. A span covers a driver run,
// a file stage, a rewritten function or one transform applied to it; points
// carry per-node counters such as the number of MBA rewrites.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "mba", parent)
//	defer sp.End("")
//
// Sinks: Nop, Stream (text, ndjson, chrome), Ring (kept in memory and dumped
// on failure), Multi, and Zap which forwards events to a *zap.Logger.
// Levels: off, error, phase (driver+pass), detail (+function), debug (+node).
package trace
