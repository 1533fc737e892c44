package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// captureStderr sends spinner frames to a buffer for the rest of the test.
func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stderr
	stderr = &buf
	t.Cleanup(func() { stderr = old })
	return &buf
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	buf := captureStderr(t)

	s := startSpinner(context.Background(), "Scaling demo.tscproj by 2x")
	time.Sleep(3 * spinnerInterval)
	if d := s.Stop(); d <= 0 {
		t.Errorf("Stop() = %v, want a positive duration", d)
	}

	out := buf.String()
	if !strings.Contains(out, "Scaling demo.tscproj by 2x") {
		t.Errorf("label not drawn: %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("line not cleared: %q", out)
	}
	if s.Interrupted() {
		t.Error("Stop reported as an interruption")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureStderr(t)
	s := startSpinner(context.Background(), "Analyzing demo.tscproj")
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerInterrupted(t *testing.T) {
	captureStderr(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := startSpinner(ctx, "Retiming demo.tscproj by 0.5x")
	cancel()
	<-s.stopped

	if !s.Interrupted() {
		t.Error("spinner not interrupted after its context ended")
	}
	s.Stop()
}

func TestSpinnerLine(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "Analyzing a.tscproj"},
		{999 * time.Millisecond, "Analyzing a.tscproj"},
		{time.Second, "Analyzing a.tscproj · 1s"},
		{2345 * time.Millisecond, "Analyzing a.tscproj · 2.3s"},
	}
	for _, tt := range tests {
		if got := spinnerLine("Analyzing a.tscproj", tt.elapsed); got != tt.want {
			t.Errorf("spinnerLine(%v) = %q, want %q", tt.elapsed, got, tt.want)
		}
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{transformLabel(opXYScale, 1.5, "/work/demo.tscproj"), "Scaling demo.tscproj by 1.5x"},
		{transformLabel(opTimeScale, 2, "demo.tscproj"), "Retiming demo.tscproj by 2x"},
		{analyzeLabel("/work/talk.cmproj"), "Analyzing talk.cmproj"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("label = %q, want %q", tt.got, tt.want)
		}
	}
}
