package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// stderr receives spinner frames so they never mix with command output.
var stderr io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerInterval = 80 * time.Millisecond
	// Elapsed time is only shown once an operation is noticeably slow.
	spinnerShowElapsed = time.Second
)

// Spinner animates a label on stderr while a project is loaded, scaled or
// analyzed. It stops on Stop or when its context ends.
type Spinner struct {
	ctx     context.Context
	cancel  context.CancelFunc
	started time.Time
	stopped chan struct{}
	once    sync.Once

	mu          sync.Mutex
	label       string
	width       int
	stopping    bool
	interrupted bool
}

// startSpinner starts a spinner showing label.
func startSpinner(ctx context.Context, label string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &Spinner{
		ctx:     sctx,
		cancel:  cancel,
		started: time.Now(),
		stopped: make(chan struct{}),
		label:   label,
	}
	go s.run()
	return s
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.mu.Lock()
			s.interrupted = !s.stopping
			s.clearLocked()
			s.mu.Unlock()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)], time.Since(s.started))
		}
	}
}

func (s *Spinner) draw(frame string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := spinnerLine(s.label, elapsed)
	s.width = max(s.width, len(line))
	fmt.Fprintf(stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
}

// Stop ends the animation, clears the line and returns how long the
// spinner ran. It is safe to call more than once.
func (s *Spinner) Stop() time.Duration {
	s.once.Do(func() {
		s.mu.Lock()
		s.stopping = true
		s.mu.Unlock()
		s.cancel()
		<-s.stopped
	})
	return time.Since(s.started)
}

// Interrupted reports whether the parent context ended before Stop.
func (s *Spinner) Interrupted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interrupted
}

func (s *Spinner) clearLocked() {
	if s.width > 0 {
		fmt.Fprintf(stderr, "\r%s\r", strings.Repeat(" ", s.width+2))
		s.width = 0
	}
}

// spinnerLine is the label with the elapsed time once it passes a second.
func spinnerLine(label string, elapsed time.Duration) string {
	if elapsed < spinnerShowElapsed {
		return label
	}
	return label + " · " + elapsed.Round(100*time.Millisecond).String()
}

// transformLabel describes a running xyscale or timescale.
func transformLabel(op string, factor float64, path string) string {
	verb := "Scaling"
	if op == opTimeScale {
		verb = "Retiming"
	}
	return fmt.Sprintf("%s %s by %sx", verb, filepath.Base(path), strconv.FormatFloat(factor, 'g', -1, 64))
}

// analyzeLabel describes a running analysis.
func analyzeLabel(path string) string {
	return "Analyzing " + filepath.Base(path)
}
