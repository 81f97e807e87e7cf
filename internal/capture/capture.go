// Package capture collects the JSON bodies a site's own front end fetches
// while a browser page is driven through it.
package capture

import (
	"context"
	"fmt"
	"time"

	"go-campus-harvester/internal/browser"
)

// Defaults used when Options leaves a field unset.
const (
	DefaultNavigationTimeout = 60 * time.Second
	DefaultSettleDelay       = 2 * time.Second
	DefaultMaxPages          = 200
)

// Status tells a complete harvest from a partial or a failed one.
type Status int

const (
	// Completed means every page the site offered was collected.
	Completed Status = iota
	// StoppedEarly means pagination ended before the last page; Entries holds what was collected.
	StoppedEarly
	// Failed means a fatal error (navigation timeout, cancellation) ended the harvest.
	Failed
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case StoppedEarly:
		return "stopped early"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the tagged result of a pagination run.
type Outcome struct {
	Status Status
	Reason string
	Err    error
}

func (o Outcome) String() string {
	switch {
	case o.Err != nil:
		return fmt.Sprintf("%s: %v", o.Status, o.Err)
	case o.Reason != "":
		return fmt.Sprintf("%s: %s", o.Status, o.Reason)
	default:
		return o.Status.String()
	}
}

// Result is what one source's harvest produced.
type Result struct {
	Source  string
	Entries []any
	Pages   int
	Outcome Outcome
}

// Failed reports whether the harvest ended with a fatal error.
func (r Result) Failed() bool {
	return r.Outcome.Status == Failed
}

// Err returns the fatal error, if any.
func (r Result) Err() error {
	return r.Outcome.Err
}

func (r *Result) Complete() {
	r.Outcome = Outcome{Status: Completed}
}

func (r *Result) Stop(format string, args ...any) {
	r.Outcome = Outcome{Status: StoppedEarly, Reason: fmt.Sprintf(format, args...)}
}

func (r *Result) Fail(err error) {
	r.Outcome = Outcome{Status: Failed, Err: err}
}

// Harvester drives one site and returns its raw entries.
type Harvester interface {
	// Name is the source identifier, e.g. "bytedance"
	Name() string
	Harvest(ctx context.Context, opener browser.Opener) Result
}

// Options are the timing knobs shared by every harvester.
type Options struct {
	NavigationTimeout time.Duration
	// SettleDelay is the longest wait for the response a click or navigation
	// is expected to trigger.
	SettleDelay time.Duration
	// MaxPages bounds "next" clicking; 0 means no bound.
	MaxPages    int
	Screenshots *browser.ScreenShotDebugger
}

// WithDefaults fills unset timings.
func (o Options) WithDefaults() Options {
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = DefaultNavigationTimeout
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.MaxPages < 0 {
		o.MaxPages = 0
	}
	return o
}

// PageLimitReached reports whether page would exceed MaxPages.
func (o Options) PageLimitReached(page int) bool {
	return o.MaxPages > 0 && page > o.MaxPages
}

// Navigate opens url and wraps any failure, timeouts included, with the url.
func Navigate(ctx context.Context, page browser.Page, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := page.Goto(url, timeout); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// NextEnabled polls the control right before a click. A disabled control is
// the normal end of pagination and is not an error.
func NextEnabled(ctrl browser.Control) (bool, error) {
	enabled, err := ctrl.IsEnabled()
	if err != nil {
		return false, fmt.Errorf("check next control: %w", err)
	}
	return enabled, nil
}
