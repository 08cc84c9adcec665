package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	httpadapter "github.com/bft-labs/walletcli/internal/adapters/http"
	"github.com/bft-labs/walletcli/internal/app"
	"github.com/bft-labs/walletcli/internal/cliconfig"
	"github.com/bft-labs/walletcli/internal/domain"
)

const longHelp = `
Drive the cryptocurrency service demo on a local node.

Without a subcommand, walletcli posts three JSON payloads from the payload
directory, in order:

  create-wallet-1.json  -> POST wallets
  create-wallet-2.json  -> POST wallets
  transfer-funds.json   -> POST wallets/transfer

Every request is attempted even if an earlier one fails. Response bodies are
written to stdout unmodified; logs go to stderr. The exit status is non-zero
only when the last request got no response at all (missing payload or
unreachable service); an error status from the service is not a failure.`

var exampleUsage = strings.TrimSpace(`
  walletcli
  walletcli --dir ./payloads --include
  walletcli wallet 6ce29b2d3ecadc434107ce52c287001c968a1b6eca3e5a1eb62a2419e2924b85
  walletcli watch --dir ./payloads
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli bundles state shared by the root command and its subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	envPath string
	log     zerolog.Logger
	stdout  io.Writer
}

// loadConfig resolves configuration with precedence flags > env > file.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	if err := cliconfig.LoadDotEnv(c.envPath); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	level, _ := zerolog.ParseLevel(c.cfg.LogLevel)
	c.log = c.log.Level(level)
	c.log.Debug().Interface("config", c.cfg).Msg("configuration")
	return nil
}

func (c *cli) dispatcher() *httpadapter.Dispatcher {
	client := &http.Client{Timeout: c.cfg.HTTPTimeout}
	return httpadapter.NewDispatcher(client, httpadapter.Options{
		BaseURL:    c.cfg.BaseURL,
		PayloadDir: c.cfg.PayloadDir,
		Include:    c.cfg.Include,
	}, c.stdout, c.log)
}

func (c *cli) runSequence(cmd *cobra.Command, args []string) error {
	if err := c.loadConfig(cmd); err != nil {
		return err
	}
	runner := app.NewRunner(c.dispatcher(), c.log)
	rep := runner.Run(cmd.Context(), domain.DefaultSequence())
	return rep.Err()
}

func (c *cli) runWallet(cmd *cobra.Command, args []string) error {
	req, err := domain.WalletInfo(args[0])
	if err != nil {
		return err
	}
	if err := c.loadConfig(cmd); err != nil {
		return err
	}
	res := c.dispatcher().Dispatch(cmd.Context(), req)
	return app.Report{Outcomes: []domain.Outcome{res}}.Err()
}

func (c *cli) runWatch(cmd *cobra.Command, args []string) error {
	if err := c.loadConfig(cmd); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := app.NewWatcher(app.NewRunner(c.dispatcher(), c.log), domain.DefaultSequence(), app.WatchOptions{
		Dir:      c.cfg.PayloadDir,
		Debounce: c.cfg.WatchDebounce,
	}, c.log)
	if err := w.Run(ctx); err != nil {
		return err
	}
	c.log.Info().Msg("received signal, stopping...")
	return nil
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "walletcli",
		Short:         "Create two wallets and transfer funds on a local cryptocurrency service",
		Long:          strings.TrimSpace(longHelp),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runSequence,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.walletcli/config.toml)")
	pf.StringVar(&c.envPath, "env-file", ".env", "dotenv file with WALLETCLI_* variables")
	pf.StringVar(&c.cfg.BaseURL, "base-url", c.cfg.BaseURL, "service API prefix; endpoint suffixes are appended to it")
	pf.StringVar(&c.cfg.PayloadDir, "dir", c.cfg.PayloadDir, "directory holding the JSON payload files")
	pf.DurationVar(&c.cfg.HTTPTimeout, "timeout", c.cfg.HTTPTimeout, "per-request HTTP timeout (0 waits indefinitely)")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.BoolVarP(&c.cfg.Include, "include", "i", c.cfg.Include, "print response status line and headers before the body")

	wallet := &cobra.Command{
		Use:   "wallet <public-key>",
		Short: "Show the wallet owned by a hex-encoded public key",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runWallet,
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Run the demo, then re-run it whenever a payload file changes",
		Args:  cobra.NoArgs,
		RunE:  c.runWatch,
	}
	watch.Flags().DurationVar(&c.cfg.WatchDebounce, "debounce", c.cfg.WatchDebounce, "quiet period before re-running after a change")

	root.AddCommand(wallet, watch)
	return root
}

func main() {
	c := &cli{
		cfg:    cliconfig.DefaultConfig(),
		log:    cliconfig.Logger(),
		stdout: os.Stdout,
	}

	if err := newRootCommand(c).ExecuteContext(context.Background()); err != nil {
		// Request failures were already logged with their details.
		if !errors.Is(err, domain.ErrTransport) && !errors.Is(err, domain.ErrPayloadNotFound) && !errors.Is(err, domain.ErrPayloadRead) {
			c.log.Error().Err(err).Msg("walletcli")
		}
		os.Exit(1)
	}
}
