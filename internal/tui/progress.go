package tui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/vytor/ninebynine/internal/progress"
)

const barWidth = 40

// ProgressBar renders progress.Reporter events as a single redrawn line:
// elapsed time, bar, tick/total and the latest status.
type ProgressBar struct {
	mu     sync.Mutex
	out    io.Writer
	bar    bprogress.Model
	now    func() time.Time
	start  time.Time
	title  string
	total  int
	tick   int
	status string
	active bool
}

// NewProgressBar writes to out, or stderr when out is nil.
func NewProgressBar(out io.Writer) *ProgressBar {
	if out == nil {
		out = os.Stderr
	}
	return &ProgressBar{
		out: out,
		bar: bprogress.New(
			bprogress.WithDefaultGradient(),
			bprogress.WithWidth(barWidth),
			bprogress.WithoutPercentage(),
		),
		now: time.Now,
	}
}

func (p *ProgressBar) Start(total int, title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.start = p.now()
	p.title = title
	p.total = total
	p.tick = 0
	p.status = title
	p.active = true
	p.draw()
}

func (p *ProgressBar) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.draw()
}

func (p *ProgressBar) Report(tick int, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tick = tick
	p.status = status
	p.draw()
}

func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.draw()
	fmt.Fprintln(p.out)
	p.active = false
}

// Line returns the current progress line without terminal control codes.
func (p *ProgressBar) Line() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.line()
}

func (p *ProgressBar) line() string {
	elapsed := p.now().Sub(p.start).Truncate(time.Second)
	h := int(elapsed.Hours())
	m := int(elapsed.Minutes()) % 60
	s := int(elapsed.Seconds()) % 60

	return fmt.Sprintf("[%02d:%02d:%02d] %s %d/%d %s",
		h, m, s,
		p.bar.ViewAs(p.percent()),
		p.tick, p.total,
		StatusStyle.Render(p.status),
	)
}

func (p *ProgressBar) percent() float64 {
	if p.total <= 0 {
		return 0
	}
	return min(float64(p.tick)/float64(p.total), 1)
}

func (p *ProgressBar) draw() {
	if !p.active {
		return
	}
	fmt.Fprintf(p.out, "\r\033[K%s", p.line())
}

var _ progress.Reporter = (*ProgressBar)(nil)
