package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/fightsim/internal/api"
	"github.com/yourusername/fightsim/internal/metrics"
	"github.com/yourusername/fightsim/internal/scheduler"
	"github.com/yourusername/fightsim/internal/session"
)

func newServeCmd() *cobra.Command {
	var paused bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation behind the HTTP and websocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(paused)
		},
	}
	cmd.Flags().BoolVar(&paused, "paused", false, "Start the API without running the tick loop")

	return cmd
}

func serve(paused bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	appLog := newLogger(cfg)
	metrics.InitRegistry()

	sess, err := newSession(cfg, appLog)
	if err != nil {
		return err
	}
	appLog.WithFields(logrus.Fields{
		"session_id": sess.ID(),
		"version":    Version,
		"seed":       sess.Seed(),
	}).Info("Starting fightsim")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(api.Config{
		ServiceName:      cfg.App.Name,
		Version:          Version,
		Port:             cfg.Server.Port,
		MetricsPath:      cfg.Server.MetricsPath,
		SnapshotCacheTTL: time.Duration(cfg.Server.SnapshotCacheTTLMs) * time.Millisecond,
		StreamInterval:   time.Duration(cfg.Server.StreamIntervalMs) * time.Millisecond,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
	}, sess, appLog)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	sched := scheduler.NewScheduler(appLog)
	if cfg.Simulation.ProgressSchedule != "" {
		if err := sched.Schedule(cfg.Simulation.ProgressSchedule, "progress", sess.LogProgress); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	if !paused {
		runner := session.NewRunner(sess, session.RunnerConfig{
			SimsPerTick:    cfg.Simulation.SimsPerTick,
			MaxSims:        cfg.Simulation.MaxSims,
			TicksPerSecond: cfg.Simulation.TicksPerSecond,
		})
		go func() {
			if _, err := runner.Run(ctx); err != nil {
				appLog.WithError(err).Error("Simulation run failed")
			}
		}()
	}

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	return server.Shutdown()
}
