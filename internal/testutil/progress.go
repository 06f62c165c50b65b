package testutil

import (
	"sync"

	"github.com/vytor/ninebynine/internal/progress"
)

// ProgressEvent is one call recorded by ProgressRecorder.
type ProgressEvent struct {
	Kind   string // "start", "total", "report" or "finish"
	Tick   int
	Total  int
	Status string
}

// ProgressRecorder is a progress.Reporter that keeps every call.
type ProgressRecorder struct {
	mu     sync.Mutex
	Events []ProgressEvent
}

func (r *ProgressRecorder) Start(total int, title string) {
	r.add(ProgressEvent{Kind: "start", Total: total, Status: title})
}

func (r *ProgressRecorder) SetTotal(total int) {
	r.add(ProgressEvent{Kind: "total", Total: total})
}

func (r *ProgressRecorder) Report(tick int, status string) {
	r.add(ProgressEvent{Kind: "report", Tick: tick, Status: status})
}

func (r *ProgressRecorder) Finish() {
	r.add(ProgressEvent{Kind: "finish"})
}

func (r *ProgressRecorder) add(e ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
}

// Reports returns only the report events.
func (r *ProgressRecorder) Reports() []ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ProgressEvent
	for _, e := range r.Events {
		if e.Kind == "report" {
			out = append(out, e)
		}
	}
	return out
}

var _ progress.Reporter = (*ProgressRecorder)(nil)
