package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bft-labs/walletcli/internal/domain"
	"github.com/bft-labs/walletcli/internal/ports"
)

// Runner dispatches a sequence of requests one after another.
type Runner struct {
	dispatcher ports.Dispatcher
	logger     zerolog.Logger
}

// NewRunner creates a runner on top of the given dispatcher.
func NewRunner(dispatcher ports.Dispatcher, logger zerolog.Logger) *Runner {
	return &Runner{dispatcher: dispatcher, logger: logger}
}

// Run sends every request in seq in order. Each request blocks until it
// completes, and a failed request never prevents the next one from being sent.
func (r *Runner) Run(ctx context.Context, seq []domain.Request) Report {
	rep := Report{Outcomes: make([]domain.Outcome, 0, len(seq))}
	for _, req := range seq {
		rep.Outcomes = append(rep.Outcomes, r.dispatcher.Dispatch(ctx, req))
	}

	r.logger.Info().
		Int("requests", len(rep.Outcomes)).
		Int("ok", len(rep.Outcomes)-rep.Failed()).
		Int("failed", rep.Failed()).
		Msg("sequence finished")
	return rep
}

// Report collects the outcomes of a sequence run, in dispatch order.
type Report struct {
	Outcomes []domain.Outcome
}

// Failed returns the number of requests that did not complete with a 2xx status.
func (r Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// Err reports a failure of the last request to get any response: a missing
// or unreadable payload, or a transport error. A non-2xx reply is still a
// response, so like a plain HTTP client it does not fail the run; it only
// counts in Failed. Earlier failures are only logged.
func (r Report) Err() error {
	if len(r.Outcomes) == 0 {
		return nil
	}
	last := r.Outcomes[len(r.Outcomes)-1]
	if last.Err == nil || errors.Is(last.Err, domain.ErrStatus) {
		return nil
	}
	return fmt.Errorf("%s: %w", last.Request, last.Err)
}
