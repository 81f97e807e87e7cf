// Package capturetest provides a scripted browser page for harvester tests.
package capturetest

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-campus-harvester/internal/browser"
)

// Response is a canned network response.
type Response struct {
	RawURL  string
	Verb    string
	Payload []byte
	Err     error
}

func (r Response) URL() string           { return r.RawURL }
func (r Response) Method() string        { return r.Verb }
func (r Response) Body() ([]byte, error) { return r.Payload, r.Err }

// JSON builds a response whose body is v marshalled to JSON.
func JSON(method, url string, v any) Response {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("capturetest: marshal %T: %v", v, err))
	}
	return Response{RawURL: url, Verb: method, Payload: data}
}

// Raw builds a response with a literal body.
func Raw(method, url, body string) Response {
	return Response{RawURL: url, Verb: method, Payload: []byte(body)}
}

// ErrTimeout mimics a navigation timeout.
var ErrTimeout = errors.New("Timeout 60000ms exceeded")

// Page replays scripted responses. Goto emits Routes[url] before returning
// GotoErr[url]; each Click on a control emits its next batch.
type Page struct {
	Routes   map[string][]browser.Response
	GotoErr  map[string]error
	Controls map[string]*Control

	mu          sync.Mutex
	handlers    map[int]func(browser.Response)
	nextID      int
	visited     []string
	screenshots []string
	closed      bool
}

func NewPage() *Page {
	return &Page{
		Routes:   map[string][]browser.Response{},
		GotoErr:  map[string]error{},
		Controls: map[string]*Control{},
		handlers: map[int]func(browser.Response){},
	}
}

// Route scripts the responses a navigation to url produces.
func (p *Page) Route(url string, responses ...browser.Response) *Page {
	p.Routes[url] = append(p.Routes[url], responses...)
	return p
}

// Next scripts a pagination control; each batch is emitted by one click.
func (p *Page) Next(selector string, clicks ...[]browser.Response) *Control {
	c := &Control{page: p, Clicks: clicks}
	p.Controls[selector] = c
	return c
}

func (p *Page) Goto(url string, _ time.Duration) error {
	p.mu.Lock()
	p.visited = append(p.visited, url)
	p.mu.Unlock()

	p.Emit(p.Routes[url]...)
	return p.GotoErr[url]
}

func (p *Page) OnResponse(fn func(browser.Response)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	if p.handlers == nil {
		p.handlers = map[int]func(browser.Response){}
	}
	p.handlers[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.handlers, id)
		p.mu.Unlock()
	}
}

// Emit delivers responses to every registered handler in order.
func (p *Page) Emit(responses ...browser.Response) {
	for _, r := range responses {
		p.mu.Lock()
		ids := make([]int, 0, len(p.handlers))
		for id := range p.handlers {
			ids = append(ids, id)
		}
		fns := make([]func(browser.Response), 0, len(ids))
		sort.Ints(ids)
		for _, id := range ids {
			fns = append(fns, p.handlers[id])
		}
		p.mu.Unlock()

		for _, fn := range fns {
			fn(r)
		}
	}
}

func (p *Page) Control(selector string) browser.Control {
	if c, ok := p.Controls[selector]; ok {
		c.page = p
		return c
	}
	return &Control{page: p}
}

func (p *Page) Screenshot(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.screenshots = append(p.screenshots, path)
	return nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Visited lists navigated URLs in order.
func (p *Page) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

func (p *Page) Screenshots() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.screenshots...)
}

func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Listeners is the number of handlers still registered.
func (p *Page) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

// Control is a "next" button that stays enabled while scripted clicks remain.
type Control struct {
	Clicks [][]browser.Response
	// EnabledErr is returned by IsEnabled once EnabledErrAt clicks were made.
	EnabledErr   error
	EnabledErrAt int
	// ClickErr is returned by the ClickErrAt-th click (1-based).
	ClickErr   error
	ClickErrAt int

	page   *Page
	clicks int
}

func (c *Control) IsEnabled() (bool, error) {
	if c.EnabledErr != nil && c.clicks >= c.EnabledErrAt {
		return false, c.EnabledErr
	}
	return c.clicks < len(c.Clicks), nil
}

func (c *Control) Click() error {
	c.clicks++
	if c.ClickErr != nil && c.clicks == c.ClickErrAt {
		return c.ClickErr
	}
	if c.clicks <= len(c.Clicks) && c.page != nil {
		c.page.Emit(c.Clicks[c.clicks-1]...)
	}
	return nil
}

// Clicked is the number of clicks made.
func (c *Control) Clicked() int { return c.clicks }

// Opener hands out one scripted page.
type Opener struct {
	Page *Page
	Err  error

	opened int
}

func (o *Opener) NewPage() (browser.Page, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	o.opened++
	return o.Page, nil
}

// Opened is the number of pages handed out.
func (o *Opener) Opened() int { return o.opened }
