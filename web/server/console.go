package server

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// ConsoleLine is one line of a render log as shown in the browser console
type ConsoleLine struct {
	Render string    `json:"render"`
	Seq    int64     `json:"seq"`
	Text   string    `json:"text"`
	Level  string    `json:"level"`
	At     time.Time `json:"at"`
}

// renderConsole forwards a render's log to the SSE writer. It implements core.Logger.
// Lines that do not fit in the channel are counted, never waited on.
type renderConsole struct {
	renderID string
	lines    chan<- ConsoleLine
	seq      atomic.Int64
	dropped  atomic.Int64
	now      func() time.Time
}

func newRenderConsole(renderID string, lines chan<- ConsoleLine) *renderConsole {
	return &renderConsole{renderID: renderID, lines: lines, now: time.Now}
}

// Printf splits the formatted message into lines, mirrors each to the server
// log and offers it to the console channel.
func (c *renderConsole) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if message == "" {
		return
	}
	for _, text := range strings.Split(message, "\n") {
		line := ConsoleLine{
			Render: c.renderID,
			Seq:    c.seq.Add(1),
			Text:   text,
			Level:  lineLevel(text),
			At:     c.now(),
		}
		glog.InfoDepth(1, c.renderID+": "+text)
		c.offer(line)
	}
}

func (c *renderConsole) offer(line ConsoleLine) {
	if c.lines == nil {
		return
	}
	select {
	case c.lines <- line:
	default:
		c.dropped.Add(1)
	}
}

// Dropped reports how many lines were discarded because the channel was full
func (c *renderConsole) Dropped() int64 {
	return c.dropped.Load()
}

// lineLevel classifies a log line by its leading word
func lineLevel(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(lower, "error"):
		return "error"
	case strings.HasPrefix(lower, "warning"):
		return "warning"
	default:
		return "info"
	}
}
