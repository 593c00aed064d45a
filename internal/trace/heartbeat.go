package trace

import (
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Счётчики живых и завершённых спанов для heartbeat.
var (
	openSpans  atomic.Int64
	endedSpans atomic.Uint64
)

// Heartbeat periodically reports how many spans are open. A beat that sees
// open spans but no span finished since the previous beat is marked stalled:
// some pass is stuck or exploding on its input.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartHeartbeat starts the beat goroutine; nil when tracing is off.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer close(h.done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var beat uint64
	lastEnded := endedSpans.Load()
	for {
		select {
		case <-ticker.C:
			beat++
			open := openSpans.Load()
			ended := endedSpans.Load()
			stalled := open > 0 && ended == lastEnded
			lastEnded = ended
			h.tracer.Emit(beatEvent(beat, open, stalled))
		case <-h.stopCh:
			return
		}
	}
}

func beatEvent(beat uint64, open int64, stalled bool) *Event {
	detail := "#" + strconv.FormatUint(beat, 10) + " open=" + strconv.FormatInt(open, 10)
	if stalled {
		detail += " stalled"
	}
	return &Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		GID:    goroutineID(),
		Name:   "heartbeat",
		Detail: detail,
		Extra: map[string]string{
			"open_spans": strconv.FormatInt(open, 10),
			"goroutines": strconv.Itoa(runtime.NumGoroutine()),
		},
	}
}

// Stop ends the beat goroutine and waits for it. Safe on nil and repeated calls.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stopCh) })
	<-h.done
}
