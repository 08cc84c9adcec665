package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bft-labs/walletcli/internal/domain"
	"github.com/bft-labs/walletcli/internal/ports"
)

const contentTypeJSON = "application/json"

// Options configures a Dispatcher.
type Options struct {
	// BaseURL is the service prefix; request suffixes are appended to it.
	BaseURL string

	// PayloadDir is where request payload files are resolved.
	PayloadDir string

	// Include prefixes the output with the status line and response headers.
	Include bool
}

// Dispatcher implements ports.Dispatcher over HTTP.
// Response bodies are copied to out exactly as received.
type Dispatcher struct {
	client ports.HTTPClient
	opts   Options
	out    io.Writer
	logger zerolog.Logger
	newID  func() string
}

// NewDispatcher creates a dispatcher writing response output to out.
func NewDispatcher(client ports.HTTPClient, opts Options, out io.Writer, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		client: client,
		opts:   opts,
		out:    out,
		logger: logger,
		newID:  func() string { return uuid.New().String() },
	}
}

// Dispatch sends req and returns its outcome. Every failure is reported in
// Outcome.Err and logged; Dispatch never panics on I/O errors.
func (d *Dispatcher) Dispatch(ctx context.Context, req domain.Request) (res domain.Outcome) {
	res = domain.Outcome{Request: req, RequestID: d.newID()}
	url := req.URL(d.opts.BaseURL)

	log := d.logger.With().
		Str("request_id", res.RequestID).
		Str("method", string(req.Method)).
		Str("url", url).
		Logger()

	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	var body io.Reader
	if req.File != "" {
		payload, err := d.readPayload(req.File)
		if err != nil {
			res.Err = err
			log.Error().Err(err).Str("file", req.File).Msg("payload")
			return res
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), url, body)
	if err != nil {
		res.Err = fmt.Errorf("create request: %w", err)
		log.Error().Err(res.Err).Msg("request")
		return res
	}
	if body != nil || req.Method == domain.MethodPost {
		httpReq.Header.Set("Content-Type", contentTypeJSON)
	}
	httpReq.Header.Set("X-Request-Id", res.RequestID)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", domain.ErrTransport, err)
		log.Error().Err(res.Err).Msg("send request")
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("%w: read response: %v", domain.ErrTransport, err)
		log.Error().Err(res.Err).Int("status", resp.StatusCode).Msg("read response")
		return res
	}

	if err := d.write(resp, res.Body); err != nil {
		log.Warn().Err(err).Msg("write output")
	}

	if resp.StatusCode/100 != 2 {
		res.Err = fmt.Errorf("%w: %s", domain.ErrStatus, resp.Status)
		log.Error().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("service rejected request")
		return res
	}

	ev := log.Info().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start))
	if hash := txHash(res.Body); hash != "" {
		ev = ev.Str("tx_hash", hash)
	}
	ev.Msg(req.String())
	return res
}

func (d *Dispatcher) readPayload(file string) ([]byte, error) {
	path := file
	if d.opts.PayloadDir != "" && !filepath.IsAbs(file) {
		path = filepath.Join(d.opts.PayloadDir, file)
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPayloadNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPayloadRead, err)
	}
	return b, nil
}

// write emits the response the way curl does: the raw body, optionally
// preceded by the status line and headers (curl -i).
func (d *Dispatcher) write(resp *http.Response, body []byte) error {
	if d.opts.Include {
		if _, err := fmt.Fprintf(d.out, "%s %s\r\n", resp.Proto, resp.Status); err != nil {
			return err
		}
		if err := resp.Header.Write(d.out); err != nil {
			return err
		}
		if _, err := io.WriteString(d.out, "\r\n"); err != nil {
			return err
		}
	}
	_, err := d.out.Write(body)
	return err
}

// txHash extracts the transaction hash from the service's
// {"tx_hash": "..."} acknowledgement. Returns "" for anything else.
func txHash(body []byte) string {
	var info struct {
		TxHash string `json:"tx_hash"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return ""
	}
	return info.TxHash
}
