package browser

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestLoopStopsAfterMaxIdle(t *testing.T) {
	size := 0
	growUntil := 3
	steps := 0
	l := Loop{MaxIterations: 50, MaxIdle: 3}
	n, err := l.Run(t.Context(), func(i int) (bool, error) {
		steps++
		if i < growUntil {
			size += 10
		}
		return true, nil
	}, func() int { return size })
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 || steps != 6 {
		t.Fatalf("ran %d steps (returned %d), want 6", steps, n)
	}
}

func TestLoopRespectsMaxIterations(t *testing.T) {
	size := 0
	l := Loop{MaxIterations: 4}
	n, err := l.Run(t.Context(), func(int) (bool, error) {
		size++
		return true, nil
	}, func() int { return size })
	if err != nil || n != 4 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestLoopStopsWhenStepDeclines(t *testing.T) {
	l := Loop{MaxIterations: 100}
	n, err := l.Run(t.Context(), func(i int) (bool, error) { return i < 2, nil }, func() int { return 0 })
	if err != nil || n != 2 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestLoopReturnsStepError(t *testing.T) {
	boom := errors.New("boom")
	l := Loop{MaxIterations: 10}
	_, err := l.Run(t.Context(), func(int) (bool, error) { return false, boom }, func() int { return 0 })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoopHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	l := Loop{MaxIterations: 10}
	if _, err := l.Run(ctx, func(int) (bool, error) { return true, nil }, func() int { return 0 }); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

type stubPage struct {
	Page
	fn func([]byte)
}

func (s *stubPage) OnJSON(_ string, fn func([]byte)) { s.fn = fn }

func TestCollectorSkipsUndecodable(t *testing.T) {
	p := &stubPage{}
	c := Collect(p, "jobs", func(b []byte) ([]int, error) {
		var v []int
		err := json.Unmarshal(b, &v)
		return v, err
	})
	p.fn([]byte(`[1,2]`))
	p.fn([]byte(`not json`))
	p.fn([]byte(`[3]`))
	if c.Len() != 3 || c.Errors() != 1 {
		t.Fatalf("len=%d errs=%d", c.Len(), c.Errors())
	}
}
