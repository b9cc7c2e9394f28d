package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/skylark/internal/health"
	"github.com/yourusername/skylark/internal/metrics"
	"github.com/yourusername/skylark/internal/scheduler"
	"github.com/yourusername/skylark/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve health and metrics endpoints and run scheduled feature refreshes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		hcfg := health.Config{
			ServiceName: "skylark",
			Version:     Version,
			Commit:      GitCommit,
			Port:        cfg.Health.Port,
			Logger:      log,
			DB:          db,
		}
		if cfg.Metrics.Enabled {
			hcfg.MetricsPath = cfg.Metrics.Path
			hcfg.MetricsHandler = metrics.Handler()
		}

		if cfg.Features.RefreshSchedule != "" {
			builder := service.NewFeatureBuilder(repos.RaceData, repos.Analytics, repos.Features, cfg.Features, log)
			sched := scheduler.NewScheduler(builder, log, 0)
			if err := sched.ScheduleFeatureRefresh(cfg.Features.RefreshSchedule); err != nil {
				return err
			}
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()
			hcfg.Scheduler = sched
		}

		srv := health.NewServer(hcfg)
		if err := srv.Start(ctx); err != nil {
			return err
		}

		srv.SetReady(true)
		<-ctx.Done()
		srv.SetReady(false)
		log.Info("Shutting down")
		return srv.Shutdown()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
