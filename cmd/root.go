package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/courier/config"
	"github.com/kilianp07/courier/infra/logger"
	"github.com/kilianp07/courier/internal/input"
)

// DefaultConfigPath is read when present and --config is not given.
const DefaultConfigPath = "courier.yaml"

type rootOptions struct {
	cfgPath  string
	envFile  string
	logLevel string
	format   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "courier",
		Short:         "Delivery cost and delivery time estimator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", DefaultConfigPath, "configuration file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file with COURIER_ variables")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides configuration)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "o", "", "output format: text, json or csv")

	root.AddCommand(
		newEstimateCmd(opts, "cost", "Estimate delivery cost and discount per package"),
		newEstimateCmd(opts, "time", "Estimate delivery cost, discount and delivery time per package"),
		newOffersCmd(opts),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the configuration and applies flag overrides and logging
// settings. The default file is optional; an explicit one is not.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.envFile != "" {
		if err := config.LoadEnvFile(o.envFile); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(o.cfgPath)
	} else {
		cfg, err = config.LoadOptional(o.cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Output.Validate(); err != nil {
		return nil, err
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetConsole(cfg.Logging.Console)
	return cfg, nil
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// ErrorMessage renders err for stderr. Input errors drop any wrapping context
// so the user sees only the offending line; other errors keep their chain.
func ErrorMessage(err error) string {
	var ve *input.ValidationError
	if errors.As(err, &ve) {
		return "Error: " + ve.Error()
	}
	return "Error: " + err.Error()
}
