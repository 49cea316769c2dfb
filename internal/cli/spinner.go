package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames cycle a dot orbiting a ring.
var spinnerFrames = []string{"◜", "◝", "◞", "◟"}

const spinnerInterval = 100 * time.Millisecond

// spinner animates a status line on stderr until it is stopped or its
// context ends. The message can change while it runs.
type spinner struct {
	w      io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far, for clearing

	startOnce sync.Once
	stopOnce  sync.Once
}

// newSpinner returns a stopped spinner bound to ctx.
func newSpinner(ctx context.Context, message string) *spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *spinner {
	if ctx == nil {
		ctx = context.Background()
	}
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{w: w, parent: ctx, ctx: sctx, cancel: cancel, message: message, exited: make(chan struct{})}
}

// Start launches the animation. Calling it twice has no effect.
func (s *spinner) Start() {
	s.startOnce.Do(func() {
		go s.loop()
	})
}

func (s *spinner) loop() {
	defer close(s.exited)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		s.draw(spinnerFrames[frame%len(spinnerFrames)])
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
		}
	}
}

// Update replaces the message shown next to the animation.
func (s *spinner) Update(format string, args ...any) {
	s.mu.Lock()
	s.message = fmt.Sprintf(format, args...)
	s.mu.Unlock()
}

// Stop ends the animation and erases its line. It is safe to call more
// than once and before Start.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		// A spinner that never started has no loop to close exited.
		s.startOnce.Do(func() { close(s.exited) })
		<-s.exited
	})
}

// Interrupted reports whether the parent context ended the spinner.
func (s *spinner) Interrupted() bool {
	return s.parent.Err() != nil
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := frame + " " + s.message
	s.width = max(s.width, len([]rune(line)))
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
}
