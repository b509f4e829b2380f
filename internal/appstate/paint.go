package appstate

import (
	"context"
	"sync"
)

// painter draws frames on its own goroutine. A new frame cancels the one in
// progress, unless frameDropThreshold frames in a row were already dropped.
type painter struct {
	draw   func(ctx context.Context, st paintState)
	frames chan paintState
	done   chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	dropped int
}

func newPainter(draw func(ctx context.Context, st paintState)) *painter {
	p := &painter{
		draw:   draw,
		frames: make(chan paintState, 1),
		done:   make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *painter) loop() {
	defer close(p.done)
	for st := range p.frames {
		ctx, cancel := context.WithCancel(context.Background())
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()
		p.draw(ctx, st)
		p.mu.Lock()
		p.cancel = nil
		if ctx.Err() == nil {
			p.dropped = 0
		}
		p.mu.Unlock()
		cancel()
	}
}

// submit queues st, replacing a frame that has not started yet.
func (p *painter) submit(st paintState) {
	p.mu.Lock()
	if p.cancel != nil && p.dropped < frameDropThreshold {
		p.cancel()
		p.dropped++
	}
	p.mu.Unlock()
	select {
	case p.frames <- st:
	default:
		select {
		case <-p.frames:
		default:
		}
		p.frames <- st
	}
}

// stop cancels the current frame and waits for the goroutine to exit. The
// window may be released once stop returns.
func (p *painter) stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
	close(p.frames)
	<-p.done
}
