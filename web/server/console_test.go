package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/df07/rayo/pkg/core"
	"github.com/google/go-cmp/cmp"
)

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestConsole(renderID string, lines chan<- ConsoleLine) *renderConsole {
	c := newRenderConsole(renderID, lines)
	c.now = func() time.Time { return fixedTime }
	return c
}

func drain(lines chan ConsoleLine) []ConsoleLine {
	var out []ConsoleLine
	for {
		select {
		case line := <-lines:
			out = append(out, line)
		default:
			return out
		}
	}
}

func TestRenderConsole_ImplementsLogger(t *testing.T) {
	var _ core.Logger = newRenderConsole("r", nil)
}

func TestRenderConsole_SplitsLinesAndNumbersThem(t *testing.T) {
	lines := make(chan ConsoleLine, 10)
	console := newTestConsole("render-1", lines)

	console.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n", 2, 16, 4)
	console.Printf("Scene: %s\nShapes: %d\n", "cornell", 8)

	want := []ConsoleLine{
		{Render: "render-1", Seq: 1, Text: "Pass 2: Target 16 samples per pixel (using 4 workers)...", Level: "info", At: fixedTime},
		{Render: "render-1", Seq: 2, Text: "Scene: cornell", Level: "info", At: fixedTime},
		{Render: "render-1", Seq: 3, Text: "Shapes: 8", Level: "info", At: fixedTime},
	}
	if diff := cmp.Diff(want, drain(lines)); diff != "" {
		t.Errorf("Console lines mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderConsole_SkipsEmptyMessages(t *testing.T) {
	lines := make(chan ConsoleLine, 10)
	console := newTestConsole("render-2", lines)

	console.Printf("\n")
	console.Printf("")
	if got := drain(lines); len(got) != 0 {
		t.Errorf("Expected no lines, got %v", got)
	}
}

func TestRenderConsole_CountsDroppedLines(t *testing.T) {
	lines := make(chan ConsoleLine, 1)
	console := newTestConsole("render-3", lines)

	// Must not block once the channel is full
	for i := 1; i <= 4; i++ {
		console.Printf("Message %d\n", i)
	}

	got := drain(lines)
	if len(got) != 1 || got[0].Text != "Message 1" {
		t.Errorf("Expected only the first line to be delivered, got %v", got)
	}
	if console.Dropped() != 3 {
		t.Errorf("Expected 3 dropped lines, got %d", console.Dropped())
	}
}

func TestRenderConsole_NilChannel(t *testing.T) {
	console := newTestConsole("render-nil", nil)
	console.Printf("Test message with nil channel\n")
	if console.Dropped() != 0 {
		t.Errorf("Expected nothing counted as dropped without a channel, got %d", console.Dropped())
	}
}

func TestLineLevel(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Pass 1 done", "info"},
		{"Warning: large image", "warning"},
		{"  error while encoding", "error"},
		{"Errors are rare", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := lineLevel(tt.text); got != tt.want {
				t.Errorf("lineLevel(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestConsoleLine_JSON(t *testing.T) {
	data, err := json.Marshal(ConsoleLine{Render: "r", Seq: 7, Text: "Test message", Level: "info", At: fixedTime})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"render":"r","seq":7,"text":"Test message","level":"info","at":"2024-01-02T03:04:05Z"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}
