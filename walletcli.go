// Package walletcli drives the cryptocurrency service demo: it creates two
// wallets and transfers funds between them by posting JSON payload files.
//
// Example usage:
//
//	cfg := walletcli.DefaultConfig()
//	cfg.PayloadDir = "./payloads"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	rep, err := walletcli.Run(context.Background(), cfg, os.Stdout)
package walletcli

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	httpadapter "github.com/bft-labs/walletcli/internal/adapters/http"
	"github.com/bft-labs/walletcli/internal/app"
	"github.com/bft-labs/walletcli/internal/cliconfig"
	"github.com/bft-labs/walletcli/internal/domain"
)

// Config holds the client configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// Request describes one call to the service.
type Request = domain.Request

// Outcome is the result of one request.
type Outcome = domain.Outcome

// Report collects the outcomes of a sequence run.
type Report = app.Report

// DefaultBaseURL is the service API prefix on a local node.
const DefaultBaseURL = domain.DefaultBaseURL

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// DefaultSequence returns the create-wallet, create-wallet, transfer requests.
func DefaultSequence() []Request {
	return domain.DefaultSequence()
}

// Run sends the default sequence, writing response bodies to out.
// The returned error is set only when the last request got no response;
// see Report for the rest.
func Run(ctx context.Context, cfg Config, out io.Writer) (Report, error) {
	return RunSequence(ctx, cfg, DefaultSequence(), out)
}

// RunSequence sends seq in order using cfg, writing response bodies to out.
// cfg is expected to have been validated.
func RunSequence(ctx context.Context, cfg Config, seq []Request, out io.Writer) (Report, error) {
	logger := Logger().Level(levelOf(cfg.LogLevel))
	d := httpadapter.NewDispatcher(&http.Client{Timeout: cfg.HTTPTimeout}, httpadapter.Options{
		BaseURL:    cfg.BaseURL,
		PayloadDir: cfg.PayloadDir,
		Include:    cfg.Include,
	}, out, logger)

	rep := app.NewRunner(d, logger).Run(ctx, seq)
	return rep, rep.Err()
}

// Logger returns the zerolog logger used by the client.
func Logger() zerolog.Logger {
	return cliconfig.Logger()
}

func levelOf(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}
