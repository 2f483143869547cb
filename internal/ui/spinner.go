// spinner.go renders the activity line shown while mcbepatch waits on
// the store link resolver.
package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner shows an in-place activity line on interactive terminals and
// falls back to a single plain line elsewhere, so CI logs stay free of
// carriage returns.
type Spinner struct {
	out      io.Writer
	message  string
	animated bool
	stop     chan struct{}
	joined   sync.WaitGroup
	once     sync.Once
}

// NewSpinner starts the indicator. With animated false the message is
// printed once and the line stays open for Stop's outcome.
func NewSpinner(out io.Writer, message string, animated bool) *Spinner {
	s := &Spinner{out: out, message: message, animated: animated, stop: make(chan struct{})}
	if !animated {
		fmt.Fprintf(out, "%s ...", message)
		return s
	}
	s.joined.Add(1)
	go s.spin()
	return s
}

func (s *Spinner) spin() {
	defer s.joined.Done()
	frames := []rune{'|', '/', '-', '\\'}
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i = (i + 1) % len(frames) {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			fmt.Fprintf(s.out, "\r%s %c", s.message, frames[i])
		}
	}
}

// Stop ends the indicator and prints the outcome on the message line.
// Safe to call more than once; later calls do nothing.
func (s *Spinner) Stop(outcome string) {
	s.once.Do(func() {
		close(s.stop)
		if s.animated {
			s.joined.Wait()
			fmt.Fprintf(s.out, "\r%s %s\n", s.message, outcome)
			return
		}
		fmt.Fprintf(s.out, " %s\n", outcome)
	})
}
