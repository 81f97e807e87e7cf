package browser

import (
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// defaultControlTimeout bounds how long a locator waits for its element.
const defaultControlTimeout = 30 * time.Second

// Response is a network response seen by a page.
type Response interface {
	URL() string
	Method() string
	Body() ([]byte, error)
}

// Control is an element the harvesters poll and click, e.g. a "next page" button.
type Control interface {
	IsEnabled() (bool, error)
	Click() error
}

// Page is the part of a browser tab the capture needs.
type Page interface {
	// Goto navigates and waits until the network is idle.
	Goto(url string, timeout time.Duration) error
	// OnResponse registers fn for every response; the returned func unregisters it.
	OnResponse(fn func(Response)) (remove func())
	Control(selector string) Control
	Screenshot(path string) error
	Close() error
}

// Opener hands out fresh pages.
type Opener interface {
	NewPage() (Page, error)
}

type responseHandler struct {
	id int
	fn func(Response)
}

// pwPage adapts playwright.Page. playwright keeps every listener it is given,
// so a single dispatcher is registered and handlers come and go behind it.
type pwPage struct {
	page           playwright.Page
	controlTimeout time.Duration

	once     sync.Once
	mu       sync.Mutex
	nextID   int
	handlers []responseHandler
}

// WrapPage adapts a playwright page to Page.
func WrapPage(page playwright.Page, controlTimeout time.Duration) Page {
	if controlTimeout <= 0 {
		controlTimeout = defaultControlTimeout
	}
	return &pwPage{page: page, controlTimeout: controlTimeout}
}

func (p *pwPage) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (p *pwPage) OnResponse(fn func(Response)) func() {
	p.once.Do(func() {
		p.page.OnResponse(p.dispatch)
	})

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.handlers = append(p.handlers, responseHandler{id: id, fn: fn})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, h := range p.handlers {
			if h.id == id {
				p.handlers = append(p.handlers[:i], p.handlers[i+1:]...)
				return
			}
		}
	}
}

func (p *pwPage) dispatch(r playwright.Response) {
	p.mu.Lock()
	handlers := make([]responseHandler, len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.Unlock()

	resp := pwResponse{r}
	for _, h := range handlers {
		h.fn(resp)
	}
}

func (p *pwPage) Control(selector string) Control {
	return &pwControl{locator: p.page.Locator(selector), timeout: p.controlTimeout}
}

func (p *pwPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *pwPage) Close() error {
	return p.page.Close()
}

type pwResponse struct {
	r playwright.Response
}

func (r pwResponse) URL() string           { return r.r.URL() }
func (r pwResponse) Method() string        { return r.r.Request().Method() }
func (r pwResponse) Body() ([]byte, error) { return r.r.Body() }

type pwControl struct {
	locator playwright.Locator
	timeout time.Duration
}

func (c *pwControl) IsEnabled() (bool, error) {
	return c.locator.IsEnabled(playwright.LocatorIsEnabledOptions{
		Timeout: playwright.Float(float64(c.timeout.Milliseconds())),
	})
}

func (c *pwControl) Click() error {
	return c.locator.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(c.timeout.Milliseconds())),
	})
}
