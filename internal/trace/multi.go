package trace

import "errors"

// tee copies each event to several tracers. Used by --trace-mode=both so a
// streamed trace and the crash ring see the same run.
type tee struct {
	tracers []Tracer
	level   Level
}

// Tee returns a tracer that forwards to every non-nil tracer in tracers.
// Each receives its own copy of the event, so one tracer stamping Seq does
// not leak into another.
func Tee(level Level, tracers ...Tracer) Tracer {
	live := make([]Tracer, 0, len(tracers))
	for _, t := range tracers {
		if t != nil {
			live = append(live, t)
		}
	}
	return &tee{tracers: live, level: level}
}

func (t *tee) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

// Flush and Close reach every tracer and report all failures together.
func (t *tee) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *tee) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *tee) Level() Level  { return t.level }
func (t *tee) Enabled() bool { return t.level > LevelOff }

// Ring finds the ring buffer behind t, looking inside tees, so a failed run
// can dump it in both ring and both mode.
func Ring(t Tracer) (*RingTracer, bool) {
	switch t := t.(type) {
	case *RingTracer:
		return t, true
	case *tee:
		for _, tr := range t.tracers {
			if r, ok := Ring(tr); ok {
				return r, true
			}
		}
	}
	return nil, false
}
