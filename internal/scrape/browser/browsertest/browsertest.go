// Package browsertest provides a scripted browser.Page for fetcher tests.
package browsertest

import (
	"context"
	"strings"
	"sync"

	"jobforge/internal/scrape/browser"
)

// Page is an in-memory page. The hook funcs run on the calling goroutine and
// may call Emit, SetHTML or SetText to simulate what a real page would do.
type Page struct {
	OnGoto   func(p *Page, url string) error
	OnClick  func(p *Page, selector string) bool
	OnScroll func(p *Page)

	mu       sync.Mutex
	handlers []handler
	html     string
	text     string
	visited  []string
	clicks   []string
	scrolls  int
	closed   bool
}

type handler struct {
	match string
	fn    func([]byte)
}

var _ browser.Page = (*Page)(nil)

func (p *Page) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.visited = append(p.visited, url)
	p.mu.Unlock()
	if p.OnGoto != nil {
		return p.OnGoto(p, url)
	}
	return nil
}

func (p *Page) OnJSON(match string, fn func([]byte)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, handler{match: match, fn: fn})
}

func (p *Page) Click(selector string) (bool, error) {
	p.mu.Lock()
	p.clicks = append(p.clicks, selector)
	p.mu.Unlock()
	if p.OnClick == nil {
		return false, nil
	}
	return p.OnClick(p, selector), nil
}

func (p *Page) Scroll() error {
	p.mu.Lock()
	p.scrolls++
	p.mu.Unlock()
	if p.OnScroll != nil {
		p.OnScroll(p)
	}
	return nil
}

func (p *Page) Content() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.html, nil
}

func (p *Page) Text() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text, nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// Emit delivers body to every handler whose match is contained in url.
func (p *Page) Emit(url string, body string) {
	p.mu.Lock()
	hs := append([]handler(nil), p.handlers...)
	p.mu.Unlock()
	for _, h := range hs {
		if h.match == "" || strings.Contains(url, h.match) {
			h.fn([]byte(body))
		}
	}
}

func (p *Page) SetHTML(s string) {
	p.mu.Lock()
	p.html = s
	p.mu.Unlock()
}

func (p *Page) SetText(s string) {
	p.mu.Lock()
	p.text = s
	p.mu.Unlock()
}

func (p *Page) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

func (p *Page) Clicks() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.clicks...)
}

func (p *Page) Scrolls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scrolls
}

func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Launcher hands out Page, or Err when set.
type Launcher struct {
	Page *Page
	Err  error
}

func (l *Launcher) NewPage(ctx context.Context) (browser.Page, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Page, nil
}

func (l *Launcher) Close() error { return nil }
