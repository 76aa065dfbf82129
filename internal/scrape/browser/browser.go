// Package browser drives a headless browser for career sites that only
// render their listings client side. Fetchers talk to the Page interface so
// tests can substitute a scripted page for a real Chromium.
package browser

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrUnavailable is returned when no browser could be started, usually
// because the playwright driver or Chromium is not installed.
var ErrUnavailable = errors.New("browser unavailable")

type Page interface {
	Goto(ctx context.Context, url string) error
	// OnJSON registers fn for every response whose URL contains match.
	// Handlers may run on a different goroutine than the caller.
	OnJSON(match string, fn func(body []byte))
	// Click clicks the first visible element for selector and reports
	// whether anything was clicked.
	Click(selector string) (bool, error)
	Scroll() error
	Content() (string, error)
	Text() (string, error)
	Close() error
}

type Launcher interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Loop bounds an interactive load-more loop. MaxIdle of zero disables the
// no-progress rule.
type Loop struct {
	MaxIterations int
	MaxIdle       int
	Pause         time.Duration
}

// Run calls step until it returns false, MaxIterations steps have run, or
// size has not grown for MaxIdle consecutive steps. It returns the number of
// steps taken.
func (l Loop) Run(ctx context.Context, step func(i int) (bool, error), size func() int) (int, error) {
	prev := size()
	idle := 0
	i := 0
	for ; i < l.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		more, err := step(i)
		if err != nil {
			return i, err
		}
		if !more {
			break
		}
		if err := Sleep(ctx, l.Pause); err != nil {
			return i + 1, err
		}

		n := size()
		if n == prev {
			idle++
			if l.MaxIdle > 0 && idle >= l.MaxIdle {
				return i + 1, nil
			}
			continue
		}
		idle = 0
		prev = n
	}
	return i, nil
}

// Collector accumulates items decoded from intercepted responses.
type Collector[T any] struct {
	mu    sync.Mutex
	items []T
	errs  int
}

// Collect registers a response handler on p that decodes each matching body
// with decode and keeps the results.
func Collect[T any](p Page, match string, decode func([]byte) ([]T, error)) *Collector[T] {
	c := &Collector[T]{}
	p.OnJSON(match, func(body []byte) {
		items, err := decode(body)
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.errs++
			return
		}
		c.items = append(c.items, items...)
	})
	return c
}

func (c *Collector[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns a copy of everything collected so far.
func (c *Collector[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Errors reports how many matching responses failed to decode.
func (c *Collector[T]) Errors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs
}

func matches(url, match string) bool {
	return match == "" || strings.Contains(url, match)
}
