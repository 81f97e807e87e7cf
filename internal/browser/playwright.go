package browser

import (
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options configures the launched browser.
type Options struct {
	Headless       bool
	ControlTimeout time.Duration
	Cookies        []playwright.OptionalCookie
}

// PlaywrightManager owns the playwright driver, one chromium instance and
// the browsing context pages are opened in.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	opts    Options
}

// NewPlaywright starts the driver and launches chromium.
func NewPlaywright(opts Options) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--no-sandbox", "--disable-setuid-sandbox"},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	pm := &PlaywrightManager{pw: pw, browser: browser, opts: opts}
	if _, err := pm.NewContext(opts.Cookies); err != nil {
		pm.Close()
		return nil, err
	}
	return pm, nil
}

// NewContext replaces the current browsing context with a fresh one holding cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	bctx, err := pm.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			bctx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
		log.Printf("🍪 Added %d cookies to browser context", len(cookies))
	}

	if pm.context != nil {
		pm.context.Close()
	}
	pm.context = bctx
	return bctx, nil
}

// NewPage opens a tab in the current context.
func (pm *PlaywrightManager) NewPage() (Page, error) {
	page, err := pm.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return WrapPage(page, pm.opts.ControlTimeout), nil
}

// Close shuts down the context, the browser and the driver.
func (pm *PlaywrightManager) Close() error {
	if pm.context != nil {
		pm.context.Close()
	}
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser: %v", err)
		}
	}
	return pm.pw.Stop()
}
