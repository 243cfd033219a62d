package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mediator/core/mediator"
)

// NewSendCommand creates the send command.
func NewSendCommand() *cobra.Command {
	var (
		timeout time.Duration
		rps     float64
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a request through the behavior chain",
	}

	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "Per-request timeout")
	cmd.PersistentFlags().Float64Var(&rps, "rps", 0, "Requests per second limit (0 = unlimited)")

	cmd.AddCommand(&cobra.Command{
		Use:   "echo <text>",
		Short: "Send an Echo request and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := newMediator(appOptions{timeout: timeout, rps: rps}, nil)
			if err != nil {
				return err
			}
			defer m.Close()

			resp, err := mediator.Send[string](cmd.Context(), m, Echo{Text: strings.Join(args, " ")})
			if err != nil {
				return fmt.Errorf("echo failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Send a void ResetStats request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := newMediator(appOptions{timeout: timeout, rps: rps}, nil)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := mediator.SendVoid(cmd.Context(), m, ResetStats{}); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Stats reset")
			return nil
		},
	})

	return cmd
}

// newMediator builds the demo mediator from env config. override, when not
// nil, adjusts the loaded config before the publisher is created.
func newMediator(opts appOptions, override func(*mediator.Config)) (*mediator.Mediator, *orderStats, error) {
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if override != nil {
		override(&cfg)
	}

	reg, stats, err := newRegistry(log, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build registry: %w", err)
	}

	m, err := mediator.NewFromConfig(cfg, reg, mediator.WithLogger(log))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mediator: %w", err)
	}
	return m, stats, nil
}
