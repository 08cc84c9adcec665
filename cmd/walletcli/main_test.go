package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/walletcli/internal/cliconfig"
	"github.com/bft-labs/walletcli/internal/domain"
)

type serviceStub struct {
	mu       sync.Mutex
	requests []string
	status   map[string]int
}

func (s *serviceStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path+" "+string(body))
	status := s.status[r.URL.Path]
	s.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	io.WriteString(w, `{"tx_hash":"`+strings.TrimPrefix(r.URL.Path, "/")+`"}`)
}

func (s *serviceStub) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	c := &cli{
		cfg:    cliconfig.DefaultConfig(),
		log:    zerolog.Nop(),
		stdout: &stdout,
	}
	root := newRootCommand(c)
	base := []string{
		"--config", filepath.Join(dir, "absent.toml"),
		"--env-file", filepath.Join(dir, "absent.env"),
	}
	root.SetArgs(append(base, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func writePayloads(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte(`{"file":"`+f+`"}`), 0644))
	}
}

func TestRootCommand_RunsSequence(t *testing.T) {
	stub := &serviceStub{}
	ts := httptest.NewServer(stub)
	defer ts.Close()

	dir := t.TempDir()
	writePayloads(t, dir, domain.CreateWallet1File, domain.CreateWallet2File, domain.TransferFundsFile)

	out, err := runCLI(t, dir, "--base-url", ts.URL+"/api/services/cryptocurrency/v1", "--dir", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`POST /api/services/cryptocurrency/v1/wallets {"file":"create-wallet-1.json"}`,
		`POST /api/services/cryptocurrency/v1/wallets {"file":"create-wallet-2.json"}`,
		`POST /api/services/cryptocurrency/v1/wallets/transfer {"file":"transfer-funds.json"}`,
	}, stub.seen())

	assert.Equal(t,
		`{"tx_hash":"api/services/cryptocurrency/v1/wallets"}`+
			`{"tx_hash":"api/services/cryptocurrency/v1/wallets"}`+
			`{"tx_hash":"api/services/cryptocurrency/v1/wallets/transfer"}`,
		out)
}

func TestRootCommand_ErrorStatusOnLastRequestSucceeds(t *testing.T) {
	stub := &serviceStub{status: map[string]int{"/v1/wallets/transfer": http.StatusBadRequest}}
	ts := httptest.NewServer(stub)
	defer ts.Close()

	dir := t.TempDir()
	writePayloads(t, dir, domain.CreateWallet1File, domain.CreateWallet2File, domain.TransferFundsFile)

	out, err := runCLI(t, dir, "--base-url", ts.URL+"/v1/", "--dir", dir)
	assert.NoError(t, err)
	assert.Len(t, stub.seen(), 3)
	// The rejected transfer's body is still emitted.
	assert.True(t, strings.HasSuffix(out, `{"tx_hash":"v1/wallets/transfer"}`), out)
}

func TestRootCommand_ExitStatusFollowsLastRequest(t *testing.T) {
	stub := &serviceStub{}
	ts := httptest.NewServer(stub)
	defer ts.Close()

	dir := t.TempDir()
	// Transfer payload is missing; the wallets are still created.
	writePayloads(t, dir, domain.CreateWallet1File, domain.CreateWallet2File)

	_, err := runCLI(t, dir, "--base-url", ts.URL+"/v1/", "--dir", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPayloadNotFound), "err = %v", err)
	assert.Len(t, stub.seen(), 2)
}

func TestRootCommand_UnreachableServiceFails(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	dir := t.TempDir()
	writePayloads(t, dir, domain.CreateWallet1File, domain.CreateWallet2File, domain.TransferFundsFile)

	_, err := runCLI(t, dir, "--base-url", url+"/v1/", "--dir", dir)
	assert.True(t, errors.Is(err, domain.ErrTransport), "err = %v", err)
}

func TestRootCommand_FirstFailureDoesNotFailRun(t *testing.T) {
	stub := &serviceStub{}
	ts := httptest.NewServer(stub)
	defer ts.Close()

	dir := t.TempDir()
	writePayloads(t, dir, domain.CreateWallet2File, domain.TransferFundsFile)

	_, err := runCLI(t, dir, "--base-url", ts.URL+"/v1/", "--dir", dir)
	assert.NoError(t, err)
	assert.Len(t, stub.seen(), 2)
}

func TestWalletCommand(t *testing.T) {
	stub := &serviceStub{}
	ts := httptest.NewServer(stub)
	defer ts.Close()

	key := strings.Repeat("0f", 32)
	out, err := runCLI(t, t.TempDir(), "--base-url", ts.URL+"/v1/", "wallet", key)
	require.NoError(t, err)

	assert.Equal(t, []string{"GET /v1/wallet/" + key + " "}, stub.seen())
	assert.Equal(t, `{"tx_hash":"v1/wallet/`+key+`"}`, out)
}

func TestWalletCommand_NotFoundIsNotAnError(t *testing.T) {
	key := strings.Repeat("0f", 32)
	stub := &serviceStub{status: map[string]int{"/v1/wallet/" + key: http.StatusNotFound}}
	ts := httptest.NewServer(stub)
	defer ts.Close()

	out, err := runCLI(t, t.TempDir(), "--base-url", ts.URL+"/v1/", "wallet", key)
	assert.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestWalletCommand_InvalidKey(t *testing.T) {
	stub := &serviceStub{}
	ts := httptest.NewServer(stub)
	defer ts.Close()

	_, err := runCLI(t, t.TempDir(), "--base-url", ts.URL+"/v1/", "wallet", "nothex")
	assert.True(t, errors.Is(err, domain.ErrInvalidPublicKey), "err = %v", err)
	assert.Empty(t, stub.seen())
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "--base-url", "ftp://node/")
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig), "err = %v", err)
}

func TestRootCommand_ConfigFile(t *testing.T) {
	stub := &serviceStub{}
	ts := httptest.NewServer(stub)
	defer ts.Close()

	dir := t.TempDir()
	writePayloads(t, dir, domain.CreateWallet1File, domain.CreateWallet2File, domain.TransferFundsFile)
	cfgPath := filepath.Join(dir, "config.toml")
	toml := "base_url = \"" + ts.URL + "/from-file/\"\npayload_dir = \"" + filepath.ToSlash(dir) + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(toml), 0644))

	_, err := runCLI(t, dir, "--config", cfgPath)
	require.NoError(t, err)
	require.Len(t, stub.seen(), 3)
	assert.True(t, strings.HasPrefix(stub.seen()[0], "POST /from-file/wallets "), stub.seen()[0])
}
