package types

import (
	"context"
	"errors"
	"net"
	"net/http"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/util"
)

// Fetcher lists every job one company currently publishes. Fetch never
// returns a Go error: failures are folded into the Result.
type Fetcher interface {
	Vendor() domain.Vendor
	Fetch(ctx context.Context, co domain.Company) Result
}

type Outcome int

const (
	// OutcomeOK means the listing was read; zero jobs is a valid answer.
	OutcomeOK Outcome = iota
	// OutcomeTransient covers failures worth trying again later.
	OutcomeTransient
	// OutcomePermanent covers failures that will repeat until the site or
	// the config changes.
	OutcomePermanent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTransient:
		return "transient"
	case OutcomePermanent:
		return "permanent"
	default:
		return "outcome(?)"
	}
}

type Result struct {
	Source  domain.Vendor
	Jobs    []domain.Job
	Outcome Outcome
	Reason  string
}

func (r Result) OK() bool { return r.Outcome == OutcomeOK }

func Success(src domain.Vendor, jobs []domain.Job) Result {
	return Result{Source: src, Jobs: jobs, Outcome: OutcomeOK}
}

// Failure classifies err and keeps whatever jobs were collected before it.
func Failure(src domain.Vendor, jobs []domain.Job, err error) Result {
	return Result{Source: src, Jobs: jobs, Outcome: Classify(err), Reason: err.Error()}
}

func Permanent(src domain.Vendor, reason string) Result {
	return Result{Source: src, Outcome: OutcomePermanent, Reason: reason}
}

// ErrTransient can be wrapped by fetchers for conditions such as a
// Cloudflare challenge page.
var ErrTransient = errors.New("transient failure")

// Classify sorts an error into transient or permanent. Timeouts, connection
// failures, 429 and 5xx are transient; every other status and undecodable
// payloads are permanent.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var se *util.StatusError
	if errors.As(err, &se) {
		if se.Code == http.StatusTooManyRequests || se.Code >= 500 {
			return OutcomeTransient
		}
		return OutcomePermanent
	}
	if errors.Is(err, util.ErrDecode) {
		return OutcomePermanent
	}
	if errors.Is(err, ErrTransient) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return OutcomeTransient
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return OutcomeTransient
	}
	return OutcomePermanent
}
