package capture

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"go-campus-harvester/internal/browser"
	"go-campus-harvester/internal/jsonutil"
)

// ErrSkip tells a Tap to drop a response without logging it.
var ErrSkip = errors.New("capture: skip response")

// Matcher selects responses by URL substring and HTTP method. Keep, when
// set, turns the decoded body into the value to record; returning an error
// drops the response (logged unless it is ErrSkip).
type Matcher struct {
	URLContains string
	Method      string
	Keep        func(body any) (any, error)
}

func (m Matcher) matches(r browser.Response) bool {
	return strings.Contains(r.URL(), m.URLContains) && strings.EqualFold(r.Method(), m.Method)
}

// Capture is one matched response body, in arrival order.
type Capture struct {
	Seq  int
	URL  string
	Body any
}

// Tap observes a page's responses. The browser callback only queues matched
// responses; a pump goroutine reads and decodes their bodies in order and
// sends them on a channel the harvester consumes. Nothing is correlated with
// the request that caused it, so a stale response that matches is kept.
type Tap struct {
	name   string
	match  Matcher
	remove func()

	mu      sync.Mutex
	pending []browser.Response
	closed  bool
	wake    chan struct{}

	out      chan Capture
	received []Capture
	drained  bool
}

// Open starts observing page. Close must be called to stop the pump.
func Open(page browser.Page, name string, m Matcher) *Tap {
	t := &Tap{
		name:  name,
		match: m,
		wake:  make(chan struct{}, 1),
		out:   make(chan Capture, 16),
	}
	t.remove = page.OnResponse(t.observe)
	go t.pump()
	return t
}

// observe runs on the browser's event goroutine and must not block.
func (t *Tap) observe(r browser.Response) {
	if !t.match.matches(r) {
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.pending = append(t.pending, r)
	t.mu.Unlock()

	t.signal()
}

func (t *Tap) signal() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *Tap) pump() {
	defer close(t.out)

	seq := 0
	for {
		t.mu.Lock()
		batch := t.pending
		t.pending = nil
		closed := t.closed
		t.mu.Unlock()

		for _, r := range batch {
			body, err := t.decode(r)
			if err != nil {
				if !errors.Is(err, ErrSkip) {
					log.Printf("    ⚠️ [%s] Could not parse response from %s: %v", t.name, r.URL(), err)
				}
				continue
			}
			seq++
			t.out <- Capture{Seq: seq, URL: r.URL(), Body: body}
		}

		if len(batch) == 0 {
			if closed {
				return
			}
			<-t.wake
		}
	}
}

func (t *Tap) decode(r browser.Response) (any, error) {
	data, err := r.Body()
	if err != nil {
		return nil, err
	}
	body, err := jsonutil.Decode(data)
	if err != nil {
		return nil, err
	}
	if t.match.Keep != nil {
		return t.match.Keep(body)
	}
	return body, nil
}

// drain moves every capture already sent into received without blocking.
func (t *Tap) drain() {
	for !t.drained {
		select {
		case c, ok := <-t.out:
			if !ok {
				t.drained = true
				return
			}
			t.received = append(t.received, c)
		default:
			return
		}
	}
}

// Await blocks until at least n captures have arrived, wait elapses or ctx
// ends. It reports whether the n-th capture is available.
func (t *Tap) Await(ctx context.Context, n int, wait time.Duration) bool {
	t.drain()
	if len(t.received) >= n {
		return true
	}
	if t.drained {
		return false
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	for len(t.received) < n {
		select {
		case c, ok := <-t.out:
			if !ok {
				t.drained = true
				return false
			}
			t.received = append(t.received, c)
		case <-timer.C:
			return false
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// Received returns the captures collected so far.
func (t *Tap) Received() []Capture {
	t.drain()
	return t.received
}

// Close stops observing, waits for in-flight bodies and returns every capture.
func (t *Tap) Close() []Capture {
	t.remove()

	t.mu.Lock()
	alreadyClosed := t.closed
	t.closed = true
	t.mu.Unlock()
	if !alreadyClosed {
		t.signal()
	}

	for !t.drained {
		c, ok := <-t.out
		if !ok {
			t.drained = true
			break
		}
		t.received = append(t.received, c)
	}
	return t.received
}

// Bodies returns the body of every capture.
func Bodies(caps []Capture) []any {
	out := make([]any, 0, len(caps))
	for _, c := range caps {
		out = append(out, c.Body)
	}
	return out
}
