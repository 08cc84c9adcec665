package ports

import (
	"context"

	"github.com/bft-labs/walletcli/internal/domain"
)

// Dispatcher sends a single request and reports what happened.
// Failures are carried in the returned Outcome rather than aborting the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, req domain.Request) domain.Outcome
}
