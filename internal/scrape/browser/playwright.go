package browser

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

type Config struct {
	Headless   bool
	NavTimeout time.Duration
	UserAgent  string
}

func DefaultConfig() Config {
	return Config{Headless: true, NavTimeout: 30 * time.Second}
}

// Playwright launches Chromium on first use and shares it between pages.
type Playwright struct {
	cfg Config

	once sync.Once
	pw   *playwright.Playwright
	br   playwright.Browser
	err  error
}

func NewPlaywright(cfg Config) *Playwright {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = DefaultConfig().NavTimeout
	}
	return &Playwright{cfg: cfg}
}

func (p *Playwright) start() error {
	p.once.Do(func() {
		pw, err := playwright.Run()
		if err != nil {
			p.err = fmt.Errorf("%w: start driver: %v", ErrUnavailable, err)
			return
		}
		br, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(p.cfg.Headless),
		})
		if err != nil {
			_ = pw.Stop()
			p.err = fmt.Errorf("%w: launch chromium: %v", ErrUnavailable, err)
			return
		}
		p.pw, p.br = pw, br
		log.Printf("[browser] chromium started headless=%v", p.cfg.Headless)
	})
	return p.err
}

func (p *Playwright) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.start(); err != nil {
		return nil, err
	}
	opts := playwright.BrowserNewPageOptions{}
	if p.cfg.UserAgent != "" {
		opts.UserAgent = playwright.String(p.cfg.UserAgent)
	}
	pg, err := p.br.NewPage(opts)
	if err != nil {
		return nil, fmt.Errorf("browser new page: %w", err)
	}
	return &pwPage{page: pg, navTimeout: p.cfg.NavTimeout}, nil
}

// Close stops the browser and driver if they were started.
func (p *Playwright) Close() error {
	if p.br == nil {
		return nil
	}
	var firstErr error
	if err := p.br.Close(); err != nil {
		firstErr = fmt.Errorf("browser close: %w", err)
	}
	if err := p.pw.Stop(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("browser stop driver: %w", err)
	}
	return firstErr
}

type pwPage struct {
	page       playwright.Page
	navTimeout time.Duration
}

func (p *pwPage) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := p.navTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("browser goto %s: %w", url, err)
	}
	return nil
}

func (p *pwPage) OnJSON(match string, fn func([]byte)) {
	p.page.OnResponse(func(resp playwright.Response) {
		if !matches(resp.URL(), match) {
			return
		}
		body, err := resp.Body()
		if err != nil {
			return
		}
		fn(body)
	})
}

func (p *pwPage) Click(selector string) (bool, error) {
	loc := p.page.Locator(selector).First()
	visible, err := loc.IsVisible()
	if err != nil || !visible {
		return false, nil
	}
	if err := loc.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(2000)}); err != nil {
		return false, fmt.Errorf("browser click %q: %w", selector, err)
	}
	return true, nil
}

func (p *pwPage) Scroll() error {
	if _, err := p.page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
		return fmt.Errorf("browser scroll: %w", err)
	}
	return nil
}

func (p *pwPage) Content() (string, error) {
	html, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("browser content: %w", err)
	}
	return html, nil
}

func (p *pwPage) Text() (string, error) {
	text, err := p.page.InnerText("body")
	if err != nil {
		return "", fmt.Errorf("browser inner text: %w", err)
	}
	return text, nil
}

func (p *pwPage) Close() error { return p.page.Close() }
