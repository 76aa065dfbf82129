package types

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/util"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, OutcomeOK},
		{"404", &util.StatusError{Code: 404}, OutcomePermanent},
		{"wrapped 503", fmt.Errorf("greenhouse api: %w", &util.StatusError{Code: 503}), OutcomeTransient},
		{"429", &util.StatusError{Code: 429}, OutcomeTransient},
		{"decode", fmt.Errorf("decode: %w", util.ErrDecode), OutcomePermanent},
		{"deadline", context.DeadlineExceeded, OutcomeTransient},
		{"net timeout", timeoutErr{}, OutcomeTransient},
		{"cloudflare", fmt.Errorf("challenge page: %w", ErrTransient), OutcomeTransient},
		{"other", errors.New("no board token"), OutcomePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestFailureKeepsPartialJobs(t *testing.T) {
	jobs := []domain.Job{domain.NewJob("Acme", "SRE", "https://x/1", "", "", domain.VendorWorkday)}
	r := Failure(domain.VendorWorkday, jobs, &util.StatusError{Code: 502, URL: "https://x"})
	if r.OK() || r.Outcome != OutcomeTransient || len(r.Jobs) != 1 || r.Reason == "" {
		t.Fatalf("result = %+v", r)
	}
}
