package renderer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
	"golang.org/x/time/rate"
)

const progressBarWidth = 40

// ProgressReporter prints tile completion progress. On a terminal it redraws a
// single line in place; otherwise it writes one line per update.
type ProgressReporter struct {
	mu      sync.Mutex
	out     io.Writer
	tty     bool
	limiter *rate.Limiter

	pass, passes int
	done, total  int
}

// NewProgressReporter creates a reporter that prints at most once per interval,
// plus once when each pass completes
func NewProgressReporter(out io.Writer, interval time.Duration) *ProgressReporter {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}

	return &ProgressReporter{
		out:     out,
		tty:     tty,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// StartPass resets the tile counter for a new pass
func (p *ProgressReporter) StartPass(pass, passes, totalTiles int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pass = pass
	p.passes = passes
	p.done = 0
	p.total = totalTiles
}

// TileDone records one finished tile
func (p *ProgressReporter) TileDone() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if p.done == p.total || p.limiter.Allow() {
		p.print()
	}
}

// Finish terminates the in-place progress line
func (p *ProgressReporter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tty {
		fmt.Fprintln(p.out)
	}
}

func (p *ProgressReporter) print() {
	line := formatProgress(p.pass, p.passes, p.done, p.total)
	if p.tty {
		fmt.Fprintf(p.out, "\r%s", line)
	} else {
		fmt.Fprintln(p.out, line)
	}
}

func formatProgress(pass, passes, done, total int) string {
	fraction := 1.0
	if total > 0 {
		fraction = float64(done) / float64(total)
	}
	filled := int(fraction * progressBarWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", progressBarWidth-filled)
	return fmt.Sprintf("Pass %d/%d [%s] %3d%% (%d/%d tiles)", pass, passes, bar, int(fraction*100), done, total)
}
