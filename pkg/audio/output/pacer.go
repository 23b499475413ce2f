// ABOUTME: Wall-clock pacing for backends without a hardware clock
// ABOUTME: Blocks writers for the duration of their audio and while paused
package output

import (
	"sync"
	"time"
)

// pacer makes a file or null backend consume audio at the speed a
// device would. It starts paused.
type pacer struct {
	mu       sync.Mutex
	resume   chan struct{} // closed while playing
	next     time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func newPacer() *pacer {
	return &pacer{
		resume: make(chan struct{}),
		stop:   make(chan struct{}),
	}
}

func (p *pacer) play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case <-p.resume:
	default:
		close(p.resume)
	}
}

func (p *pacer) pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case <-p.resume:
		p.resume = make(chan struct{})
	default:
	}
	p.next = time.Time{}
}

func (p *pacer) halt() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

// waitPlaying blocks while paused
func (p *pacer) waitPlaying() error {
	p.mu.Lock()
	resume := p.resume
	p.mu.Unlock()

	select {
	case <-resume:
		return nil
	case <-p.stop:
		return ErrClosed
	}
}

// consume blocks while paused, then for d of wall time measured from
// the end of the previous write
func (p *pacer) consume(d time.Duration) error {
	if err := p.waitPlaying(); err != nil {
		return err
	}

	p.mu.Lock()
	now := time.Now()
	if p.next.Before(now.Add(-d)) {
		// Fell behind (or first write after play): restart the schedule
		p.next = now
	}
	p.next = p.next.Add(d)
	deadline := p.next
	p.mu.Unlock()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-p.stop:
		return ErrClosed
	}
}
