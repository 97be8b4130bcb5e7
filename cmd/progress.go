package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// progressPrinter renders a single carriage-return progress line.
type progressPrinter struct {
	out      io.Writer
	total    int
	name     string
	mu       sync.Mutex
	writeMu  sync.Mutex
	ok       int
	fail     int
	detected int
	duration float64
	updates  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newProgressPrinter(out io.Writer, total int, name string) *progressPrinter {
	if out == nil {
		out = os.Stdout
	}
	if total <= 0 {
		total = 1
	}
	return &progressPrinter{
		out:     out,
		total:   total,
		name:    name,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (p *progressPrinter) Start() {
	go p.loop()
}

// Increment records one finished host. ok means both resolution and probe succeeded.
func (p *progressPrinter) Increment(ok, detected bool, duration float64) {
	p.mu.Lock()
	if ok {
		p.ok++
	} else {
		p.fail++
	}
	if detected {
		p.detected++
	}
	p.duration += duration
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	p.writeMu.Lock()
	fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(" ", 80))
	p.writeMu.Unlock()
	p.print()
	p.writeMu.Lock()
	fmt.Fprintln(p.out)
	p.writeMu.Unlock()
}

func (p *progressPrinter) loop() {
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.updates:
			p.print()
		case <-ticker.C:
			p.print()
		case <-p.done:
			return
		}
	}
}

func (p *progressPrinter) print() {
	p.mu.Lock()
	ok := p.ok
	fail := p.fail
	detected := p.detected
	dur := p.duration
	completed := ok + fail
	if completed > p.total {
		p.total = completed
	}
	total := p.total
	p.mu.Unlock()

	percent := (float64(completed) / float64(total)) * 100
	avg := 0.0
	if completed > 0 {
		avg = dur / float64(completed)
	}

	line := fmt.Sprintf("\r[%s] Progress: %d/%d (%.1f%%) OK:%d Fail:%d BigIP:%d Avg:%.2fs",
		p.name, completed, total, percent, ok, fail, detected, avg)

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	fmt.Fprint(p.out, line)
}
