// File: internal/ui/progress.go
// Brief: Download progress rendering for terminals and CI logs.

package ui

import (
	"fmt"
	"io"
	"sync"
)

// Progress counts bytes flowing through it and renders download
// progress. On an interactive terminal the same line is rewritten; in
// plain mode it emits a step line every tenth of the total, or every
// 50 MB when the total size is unknown.
type Progress struct {
	mu          sync.Mutex
	out         io.Writer
	total       int64
	done        int64
	interactive bool
	lastStep    int
}

// NewProgress returns a Progress writing to out. total may be zero when
// the server did not announce a content length.
func NewProgress(out io.Writer, total int64, interactive bool) *Progress {
	return &Progress{out: out, total: total, interactive: interactive, lastStep: -1}
}

// Write implements io.Writer so Progress can sit in an io.MultiWriter
// next to the destination file.
func (p *Progress) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += int64(len(b))
	p.render()
	return len(b), nil
}

func (p *Progress) render() {
	doneMB := float64(p.done) / 1024 / 1024
	if p.total > 0 {
		percent := float64(p.done) / float64(p.total) * 100
		totalMB := float64(p.total) / 1024 / 1024
		if p.interactive {
			fmt.Fprintf(p.out, "\r  Progress: %.1f%% (%.1f/%.1f MB)", percent, doneMB, totalMB)
			return
		}
		step := int(percent / 10)
		if step > p.lastStep {
			p.lastStep = step
			fmt.Fprintf(p.out, "  Progress: %.0f%% (%.1f/%.1f MB)\n", percent, doneMB, totalMB)
		}
		return
	}
	if p.interactive {
		fmt.Fprintf(p.out, "\r  Downloaded: %.1f MB", doneMB)
		return
	}
	mb := int(doneMB)
	if mb%50 == 0 && mb > p.lastStep {
		p.lastStep = mb
		fmt.Fprintf(p.out, "  Downloaded: %.0f MB\n", doneMB)
	}
}

// Finish ends the progress line. In interactive mode the rewritten line
// needs a final newline; plain mode already ended each step line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.interactive {
		fmt.Fprintln(p.out)
	}
}
