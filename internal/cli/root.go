package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mediator/core/config"
	"github.com/dmitrymomot/mediator/core/logger"
	"github.com/dmitrymomot/mediator/core/mediator"
)

var (
	jsonLogs bool
	verbose  bool
)

// NewRootCommand creates the root command of the demo CLI.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mediator-demo",
		Short: "Exercise the in-process mediator from the command line",
		Long: `mediator-demo wires a small order domain into the mediator and lets you
send requests through the behavior chain or publish notifications with any of
the three publishers. Publishing is configured with MEDIATOR_* environment
variables; flags override them.

Examples:
  mediator-demo send echo "hello"
  mediator-demo send reset
  mediator-demo publish --count 20 --strategy parallel --failure continue_and_aggregate
  MEDIATOR_PUBLISH_STRATEGY=queued mediator-demo publish --count 100 --fail-every 7`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logs")

	rootCmd.AddCommand(NewSendCommand())
	rootCmd.AddCommand(NewPublishCommand())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	opts := []logger.Option{
		logger.WithOutput(os.Stderr),
		logger.WithAttr(logger.Component("mediator-demo")),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			id := mediator.RequestID(ctx)
			return logger.RequestID(id), id != ""
		}),
	}
	if verbose {
		opts = append(opts, logger.WithLevel(slog.LevelDebug))
	}
	if jsonLogs {
		opts = append(opts, logger.WithJSONFormatter())
	}
	return logger.New(opts...)
}

func loadConfig() (mediator.Config, error) {
	var cfg mediator.Config
	if err := config.Load(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
