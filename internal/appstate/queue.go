package appstate

import (
	"context"
	"errors"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/imageselector/internal/session"
)

// ErrQueueClosed is returned for requests submitted after Close.
var ErrQueueClosed = errors.New("ui queue closed")

// Request asks the UI thread to run a window for Controller.
type Request struct {
	Controller *session.Controller
	Reply      chan<- Reply
	cancel     <-chan struct{}
}

// Reply is the result of a Request.
type Reply struct {
	Outcome session.Outcome
	Err     error
}

// Queue serializes selection windows onto the thread that owns the screen.
// Other goroutines Submit requests; Serve runs them one at a time.
type Queue struct {
	requests chan Request
	done     chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{requests: make(chan Request), done: make(chan struct{})}
}

// Submit blocks until the window for c is closed or ctx is done. A done
// context closes an open window and cancels its session.
func (q *Queue) Submit(ctx context.Context, c *session.Controller) (session.Outcome, error) {
	reply := make(chan Reply, 1)
	req := Request{Controller: c, Reply: reply, cancel: ctx.Done()}
	select {
	case q.requests <- req:
	case <-q.done:
		return session.Outcome{}, ErrQueueClosed
	case <-ctx.Done():
		return session.Outcome{}, ctx.Err()
	}
	select {
	case r := <-reply:
		return r.Outcome, r.Err
	case <-ctx.Done():
		// the window sees the same context and closes itself
		r := <-reply
		if r.Err == nil {
			r.Err = ctx.Err()
		}
		return r.Outcome, r.Err
	}
}

// Close stops Serve after the current window.
func (q *Queue) Close() {
	select {
	case <-q.done:
	default:
		close(q.done)
	}
}

// Serve runs requests on s until Close. newState builds the window for
// each controller. It must be called from the screen's thread, typically
// inside driver.Main.
func (q *Queue) Serve(s screen.Screen, newState func(*session.Controller) *AppState) {
	for {
		select {
		case <-q.done:
			return
		case req := <-q.requests:
			a := newState(req.Controller)
			a.cancel = req.cancel
			out, err := a.Main(s)
			req.Reply <- Reply{Outcome: out, Err: err}
		}
	}
}
