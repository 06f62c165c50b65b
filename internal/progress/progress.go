// Package progress defines the observer the pipeline reports to while it
// walks pages and downloads SGF files. Reporting never affects control flow.
package progress

// Reporter receives a monotonically increasing tick and a status message.
type Reporter interface {
	// Start begins a new stage with the expected number of ticks.
	Start(total int, title string)
	// SetTotal changes the expected number of ticks once it is known.
	SetTotal(total int)
	// Report records the tick reached and a short status line.
	Report(tick int, status string)
	// Finish ends the current stage.
	Finish()
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Start(int, string)  {}
func (Nop) SetTotal(int)       {}
func (Nop) Report(int, string) {}
func (Nop) Finish()            {}

var _ Reporter = Nop{}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return Nop{}
	}
	return r
}
