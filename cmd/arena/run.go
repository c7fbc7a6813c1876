package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zeusync/simplebt/internal/config"
	"github.com/zeusync/simplebt/internal/core/npc"
	"github.com/zeusync/simplebt/internal/core/observability/log"
	"github.com/zeusync/simplebt/internal/injector"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an arena simulation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		app, err := injector.InitializeApp(c)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		defer func() { _ = app.Logger.Sync() }()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		stopCh := make(chan os.Signal, 1)
		signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(stopCh)
		go func() {
			select {
			case sig := <-stopCh:
				app.Logger.Info("stopping", log.String("signal", sig.String()))
				cancel()
			case <-ctx.Done():
			}
		}()

		if c.MetricsAddr != "" {
			if err := app.Server.Start(ctx); err != nil {
				return err
			}
			defer func() {
				if err := app.Server.Stop(); err != nil {
					app.Logger.Warn("failed to stop server", log.Error(err))
				}
			}()
		}

		opts := npc.RunOptions{Ticks: c.Ticks, DeltaTime: c.DeltaTime()}
		if c.Realtime {
			opts.Interval = c.Interval()
		}
		app.Logger.Info("arena started",
			log.String("name", c.Name),
			log.Int("agents", len(app.Arena.Agents())),
			log.Int("ticks", c.Ticks),
			log.Float64("tick_rate", c.TickRate),
		)

		res, err := app.Arena.Run(ctx, opts)
		st := app.Bus.Stats()
		app.Logger.Info("event bus drained",
			log.Uint64("published", st.Published),
			log.Uint64("delivered", st.Delivered),
			log.Uint64("handler_errors", st.Errors),
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		printResult(cmd, res)
		return nil
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("ticks") {
		c.Ticks, _ = flags.GetInt("ticks")
	}
	if flags.Changed("metrics-addr") {
		c.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("realtime") {
		c.Realtime, _ = flags.GetBool("realtime")
	}
	if flags.Changed("seed") {
		c.Seed, _ = flags.GetUint64("seed")
	}
	return c, c.Validate()
}

func printResult(cmd *cobra.Command, res npc.Result) {
	out := cmd.OutOrStdout()
	if res.Decided {
		fmt.Fprintf(out, "winner: %s after %d ticks\n", res.Winner, res.Ticks)
	} else {
		fmt.Fprintf(out, "undecided after %d ticks\n", res.Ticks)
	}
	for _, t := range []npc.Team{npc.TeamBlue, npc.TeamRed} {
		fmt.Fprintf(out, "  %s: %d alive\n", t, res.Alive[t])
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("config", "c", "configs/arena.yaml", "Arena description file")
	runCmd.Flags().Int("ticks", 0, "Tick limit, 0 runs until one side wins (overrides config)")
	runCmd.Flags().String("metrics-addr", "", "Serve /metrics, /healthz, /agents and /agents/stream on this address (overrides config)")
	runCmd.Flags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	runCmd.Flags().Bool("realtime", false, "Pace ticks at the configured tick rate")
	runCmd.Flags().Uint64("seed", 0, "Random seed (overrides config)")
}
