package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vigilant-link/internal/bootstrap"
	"vigilant-link/internal/config"
	"vigilant-link/pkg/logger"
)

var version = "dev"

type rootOptions struct {
	configFile string
	storage    string
	sqlitePath string
	logLevel   string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "vigilant",
		Short: "Detect UPI payment scam messages",
		Long: `vigilant classifies SMS and chat messages as safe, warning or high risk
using the same rule engine as the VigilantLink API, and inspects saved reports.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default: ./config.yaml or ./config/config.yaml)")
	flags.StringVar(&opts.storage, "storage", "", "report storage driver (memory, sqlite, postgres)")
	flags.StringVar(&opts.sqlitePath, "sqlite-path", "", "SQLite database path")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of text")

	cmd.AddCommand(classifyCmd(opts))
	cmd.AddCommand(historyCmd(opts))
	cmd.AddCommand(statsCmd(opts))
	cmd.AddCommand(patternsCmd(opts))
	cmd.AddCommand(watchCmd(opts))

	return cmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig applies flag overrides on top of file and environment config
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.storage != "" {
		cfg.Storage.Driver = o.storage
	}
	if o.sqlitePath != "" {
		cfg.SQLite.Path = o.sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp wires the report service. Logs go to stderr so stdout stays parseable.
func (o *rootOptions) openApp(cmd *cobra.Command, bopts bootstrap.Options) (*bootstrap.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{
		Level:  o.logLevel,
		Format: "console",
		Output: cmd.ErrOrStderr(),
	})
	return bootstrap.New(cmd.Context(), cfg, log, bopts)
}
