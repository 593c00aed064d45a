package trace

import (
	"io"
	"os"
	"sync"
)

const (
	chromeHeader = "{\"traceEvents\":[\n"
	chromeFooter = "\n]}\n"
)

// StreamTracer formats and writes every event as it arrives. Write errors
// are ignored: a broken trace file never fails an obfuscation run.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	events int // written so far; Chrome needs a comma before all but the first
	closed bool
}

// NewStreamTracer writes to w. In Chrome format the array header goes out
// immediately and Close writes the footer.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{w: w, level: level, format: format}
	if format == FormatChrome {
		t.write(chromeHeader)
	}
	return t
}

func (t *StreamTracer) write(s string) {
	_, _ = io.WriteString(t.w, s) //nolint:errcheck
}

// Emit drops events below the level, except heartbeats.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.format == FormatChrome && t.events > 0 {
		t.write(",\n")
	}
	t.events++
	_, _ = t.w.Write(data) //nolint:errcheck
}

// Flush forwards to w when it buffers (bufio.Writer and the like).
func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close finishes the Chrome array and closes w unless it is stdout or
// stderr. Events emitted afterwards are dropped.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	if t.format == FormatChrome {
		t.write(chromeFooter)
	}
	t.mu.Unlock()

	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
