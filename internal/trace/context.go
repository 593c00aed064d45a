package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// FromContext returns the tracer installed by WithTracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer installs t for every stage run under ctx. A nil t means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// SpanContext is what nested work inherits: the span to parent new spans
// to and the input file being obfuscated.
type SpanContext struct {
	SpanID uint64
	File   string // empty outside the driver
}

// CurrentSpan returns the span context of ctx; the zero value means root.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	sc, _ := ctx.Value(spanKey{}).(SpanContext)
	return sc
}

// WithSpanContext replaces the span context of ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanKey{}, sc)
}

// Within makes s the parent of spans started under the returned context.
// The file label is kept.
func Within(ctx context.Context, s *Span) context.Context {
	sc := CurrentSpan(ctx)
	sc.SpanID = s.ID()
	return WithSpanContext(ctx, sc)
}

// WithFile labels spans started by BeginIn under the returned context.
func WithFile(ctx context.Context, path string) context.Context {
	sc := CurrentSpan(ctx)
	sc.File = path
	return WithSpanContext(ctx, sc)
}

// BeginIn starts a span on the tracer of ctx, parented to its current span.
// Under a file label the span ends with a "file" extra.
func BeginIn(ctx context.Context, scope Scope, name string) *Span {
	sc := CurrentSpan(ctx)
	s := Begin(FromContext(ctx), scope, name, sc.SpanID)
	if sc.File != "" {
		s.WithExtra("file", sc.File)
	}
	return s
}
