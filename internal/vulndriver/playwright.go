package vulndriver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/vulcn-dast/vulcn/internal/model"
)

// PlaywrightDriver is the real browser-backed Driver, launching exactly one
// shared browser instance for the lifetime of a scan and handing out one
// isolated BrowserContext per session (spec.md §5: "single shared Driver
// across sequential sessions").
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	pacer   *SettlePacer
}

// NewPlaywrightDriver builds a driver that paces steps at stepsPerSecond
// (0 disables pacing).
func NewPlaywrightDriver(stepsPerSecond float64, burst int) *PlaywrightDriver {
	return &PlaywrightDriver{pacer: NewSettlePacer(stepsPerSecond, burst)}
}

func (d *PlaywrightDriver) Launch(ctx context.Context, cfg model.DriverConfig) error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("vulndriver: start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}

	var browser playwright.Browser
	switch cfg.Browser {
	case "firefox":
		browser, err = pw.Firefox.Launch(launchOpts)
	case "webkit":
		browser, err = pw.WebKit.Launch(launchOpts)
	case "chromium", "":
		browser, err = pw.Chromium.Launch(launchOpts)
	default:
		err = fmt.Errorf("%w: unknown browser %q", model.ErrConfiguration, cfg.Browser)
	}
	if err != nil {
		pw.Stop()
		return fmt.Errorf("vulndriver: launch %s: %w", cfg.Browser, err)
	}

	d.pw = pw
	d.browser = browser
	return nil
}

func (d *PlaywrightDriver) NewSessionContext(ctx context.Context, storageState string, extraHeaders map[string]string) (PageContext, error) {
	if d.browser == nil {
		return nil, fmt.Errorf("vulndriver: %w", model.ErrClosed)
	}

	opts := playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
		Viewport:          &playwright.Size{Width: 1920, Height: 1080},
		Locale:            playwright.String("en-US"),
		IgnoreHttpsErrors: playwright.Bool(true),
	}
	if storageState != "" {
		var state playwright.OptionalStorageState
		if err := json.Unmarshal([]byte(storageState), &state); err != nil {
			return nil, fmt.Errorf("vulndriver: %w: storage state: %v", model.ErrConfiguration, err)
		}
		opts.StorageState = &state
	}
	if len(extraHeaders) > 0 {
		opts.ExtraHttpHeaders = extraHeaders
	}

	bctx, err := d.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("vulndriver: new context: %w", model.ErrUnreachable)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("vulndriver: new page: %w", model.ErrUnreachable)
	}

	pc := &playwrightPage{ctx: bctx, page: page, pacer: d.pacer}
	pc.wire()
	return pc, nil
}

func (d *PlaywrightDriver) Close() error {
	if d.browser != nil {
		_ = d.browser.Close()
	}
	if d.pw != nil {
		_ = d.pw.Stop()
	}
	return nil
}

// playwrightPage is the concrete PageContext: one page, one set of
// registered event handlers, dispatched single-threaded from Playwright's
// own event goroutine through a mutex (spec.md §5).
type playwrightPage struct {
	ctx   playwright.BrowserContext
	page  playwright.Page
	pacer *SettlePacer

	mu       sync.Mutex
	onDialog func(DialogEvent)
	onConsol func(ConsoleEvent)
	onNet    func(NetworkResponseEvent)
}

func (p *playwrightPage) wire() {
	p.page.On("dialog", func(dlg playwright.Dialog) {
		p.mu.Lock()
		handler := p.onDialog
		p.mu.Unlock()
		if handler != nil {
			handler(DialogEvent{Type: dlg.Type(), Message: dlg.Message(), Timestamp: time.Now()})
		}
		_ = dlg.Accept()
	})

	p.page.On("console", func(msg playwright.ConsoleMessage) {
		p.mu.Lock()
		handler := p.onConsol
		p.mu.Unlock()
		if handler != nil {
			handler(ConsoleEvent{Level: msg.Type(), Text: msg.Text(), Timestamp: time.Now()})
		}
	})

	p.page.On("response", func(resp playwright.Response) {
		p.mu.Lock()
		handler := p.onNet
		p.mu.Unlock()
		if handler == nil {
			return
		}
		headers := make(map[string]string)
		for k, v := range resp.Headers() {
			headers[k] = v
		}
		body, _ := resp.Text()
		handler(NetworkResponseEvent{
			URL:       resp.URL(),
			Status:    resp.Status(),
			Headers:   headers,
			Body:      body,
			Timestamp: time.Now(),
		})
	})
}

func (p *playwrightPage) OnDialog(fn func(DialogEvent)) {
	p.mu.Lock()
	p.onDialog = fn
	p.mu.Unlock()
}

func (p *playwrightPage) OnConsole(fn func(ConsoleEvent)) {
	p.mu.Lock()
	p.onConsol = fn
	p.mu.Unlock()
}

func (p *playwrightPage) OnNetworkResponse(fn func(NetworkResponseEvent)) {
	p.mu.Lock()
	p.onNet = fn
	p.mu.Unlock()
}

func (p *playwrightPage) ExecuteStep(ctx context.Context, step model.Step) (StepOutcome, error) {
	if p.pacer != nil {
		if err := p.pacer.Wait(ctx); err != nil {
			return StepOutcome{}, fmt.Errorf("vulndriver: pacer: %w", err)
		}
	}

	start := time.Now()
	var outErr error

	switch step.Kind {
	case model.StepNavigate:
		timeout := float64(30000)
		if step.Wait > 0 {
			timeout = float64(step.Wait.Milliseconds())
		}
		_, err := p.page.Goto(step.URL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateNetworkidle,
			Timeout:   playwright.Float(timeout),
		})
		if err != nil {
			outErr = fmt.Errorf("navigate %s: %w", step.URL, model.ErrNavigationTimeout)
		}

	case model.StepInput:
		loc, resolved, lerr := p.resolveInputLocator(step.Selector)
		if lerr != nil {
			outErr = fmt.Errorf("locate %s: %w", step.Selector, model.ErrSelectorNotFound)
			break
		}
		if err := loc.Fill(step.Value); err != nil {
			outErr = fmt.Errorf("fill %s: %w", resolved, model.ErrSelectorNotFound)
		}

	case model.StepClick:
		loc := p.page.Locator(step.Selector)
		count, cerr := loc.Count()
		if cerr != nil || count == 0 {
			outErr = fmt.Errorf("locate %s: %w", step.Selector, model.ErrSelectorNotFound)
			break
		}
		if err := loc.Click(); err != nil {
			outErr = fmt.Errorf("click %s: %w", step.Selector, model.ErrSelectorNotFound)
		}

	default:
		outErr = fmt.Errorf("vulndriver: %w: unknown step kind %q", model.ErrConfiguration, step.Kind)
	}

	outcome := StepOutcome{
		URL:            p.page.URL(),
		DurationMillis: time.Since(start).Milliseconds(),
	}
	// Read the rendered DOM back into Body so the active detectors
	// (reflected-XSS substring match, SQLi error-string match) have
	// something to scan. Goto above discards its Response, so this is the
	// only place a body reaches StepOutcome.
	if body, berr := p.page.Content(); berr == nil {
		outcome.Body = body
	}
	if outErr != nil {
		return outcome, outErr
	}

	if step.Assert != "" {
		count, err := p.page.Locator(step.Assert).Count()
		if err != nil || count == 0 {
			return outcome, fmt.Errorf("assert %s: %w", step.Assert, model.ErrSelectorNotFound)
		}
	}

	return outcome, nil
}

// resolveInputLocator applies the selector-resolution cascade (spec.md
// §4.1): if selector already reads like a CSS selector (contains '[', '.',
// '#' or a space), it is used as-is; otherwise it is treated as a bare field
// name and tried as input[name=], then input[id=], then textarea[name=].
func (p *playwrightPage) resolveInputLocator(selector string) (playwright.Locator, string, error) {
	if strings.ContainsAny(selector, "[.# ") {
		loc := p.page.Locator(selector)
		count, err := loc.Count()
		if err != nil || count == 0 {
			return nil, selector, fmt.Errorf("no match for %s", selector)
		}
		return loc, selector, nil
	}

	for _, candidate := range inputSelectorCandidates(selector) {
		loc := p.page.Locator(candidate)
		count, err := loc.Count()
		if err == nil && count > 0 {
			return loc, candidate, nil
		}
	}
	return nil, selector, fmt.Errorf("no candidate matched field %s", selector)
}

func (p *playwrightPage) Settle(ctx context.Context, window time.Duration) {
	if window <= 0 {
		window = defaultSettleWindow
	}
	_ = p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(window.Milliseconds())),
	})

	timer := time.NewTimer(50 * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (p *playwrightPage) CurrentURL() string {
	return p.page.URL()
}

func (p *playwrightPage) Close() error {
	return p.ctx.Close()
}
