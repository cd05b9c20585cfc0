package state

import (
	"context"
	"sync"
	"time"
)

// Ticker is the timer substrate polling runs on.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewTickerFunc builds a Ticker firing every d.
type NewTickerFunc func(d time.Duration) Ticker

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// SystemTicker backs polling with time.Ticker.
func SystemTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

// Poller runs one background task at a fixed cadence. At most one loop is
// active at a time.
type Poller struct {
	newTicker NewTickerFunc
	interval  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller returns a stopped poller. A nil newTicker means the environment
// has no timer substrate and Start is always a no-op.
func NewPoller(newTicker NewTickerFunc, interval time.Duration) *Poller {
	return &Poller{newTicker: newTicker, interval: interval}
}

// Start runs fn once immediately and then on every tick until Stop is called
// or ctx ends. It reports whether a new loop was started.
func (p *Poller) Start(ctx context.Context, fn func(context.Context)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil || p.newTicker == nil || p.interval <= 0 {
		return false
	}

	loopCtx, cancel := context.WithCancel(ctx)
	ticker := p.newTicker(p.interval)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer p.finished(done)
		defer ticker.Stop()

		fn(loopCtx)
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C():
				fn(loopCtx)
			}
		}
	}()
	return true
}

// Stop cancels the active loop and waits for it to exit. Stopping an idle
// poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Active reports whether a loop is running.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// finished releases the handle when the loop exits on its own because the
// parent context ended.
func (p *Poller) finished(done chan struct{}) {
	p.mu.Lock()
	if p.done == done {
		p.cancel()
		p.cancel = nil
		p.done = nil
	}
	p.mu.Unlock()
	close(done)
}
