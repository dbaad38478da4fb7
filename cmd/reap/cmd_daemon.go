package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var daemonFlags runArgs

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Sweep on an interval and serve Prometheus metrics",
	RunE:  runDaemon,
}

var flagInterval time.Duration

func init() {
	rootCmd.AddCommand(daemonCmd)
	addDaemonFlags(daemonCmd)
	daemonCmd.Flags().DurationVar(&flagInterval, "interval", 0, "Sweep interval (default from config)")
}

func addDaemonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&daemonFlags.Cloud, "cloud", "", "Cloud to sweep: aws, azure, gcp or all")
	f.StringVar(&daemonFlags.Resource, "resource", "all", "Resource kind: vm, ip, disk, keypair, nic, vpc, kms or all")
	f.StringVar(&daemonFlags.Operation, "operation", "delete", "Operation: delete or stop (vms only)")
	f.StringVar(&daemonFlags.FilterTags, "filter-tags", "", "Tags a candidate must carry")
	f.StringVar(&daemonFlags.ExceptionTags, "exception-tags", "", "Tags that protect a resource from reclamation")
	f.StringVar(&daemonFlags.NoTags, "notags", "", "Reject resources carrying ALL of these tags")
	f.StringVar(&daemonFlags.NameRegex, "name-regex", "", "Name patterns to include")
	f.StringVar(&daemonFlags.ExceptionRegex, "exception-regex", "", "Name patterns that protect a resource")
	f.StringVar(&daemonFlags.Age, "age", "", "Minimum age")
	f.StringVar(&daemonFlags.DetachAge, "detach-age", "", "Minimum time since disk detach (disks only)")
	f.StringVar(&daemonFlags.States, "resource-states", "", "Allowed lifecycle states")
	f.BoolVar(&daemonFlags.DryRun, "dry-run", false, "Report candidates without mutating anything")
	f.StringVar(&daemonFlags.Region, "region", "", "Pin AWS discovery to one region")
	f.StringVar(&daemonFlags.ProjectID, "project-id", "", "GCP project")
	f.StringVar(&daemonFlags.SubscriptionID, "subscription-id", "", "Azure subscription")
	f.StringVar(&daemonFlags.ResourceGroup, "resource-group", "", "Narrow Azure discovery to one resource group")
	f.StringVar(&daemonFlags.SlackChannel, "slack-channel", "", "Override the configured Slack channel")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	r, cleanup, err := newRunner(daemonFlags)
	if err != nil {
		return err
	}
	defer cleanup()

	interval := flagInterval
	if interval == 0 {
		interval = r.cfg.Daemon.Interval
	}
	if interval <= 0 {
		return fmt.Errorf("daemon interval must be positive")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var group run.Group

	group.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.metrics.Registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: r.cfg.Daemon.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	group.Add(
		func() error {
			r.logger.Info().Str("addr", server.Addr).Msg("metrics server listening")
			return server.ListenAndServe()
		},
		func(error) {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		},
	)

	// Interval sweeps. The first sweep runs immediately.
	sweepCtx, sweepCancel := context.WithCancel(ctx)
	group.Add(
		func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				if err := r.sweep(sweepCtx); err != nil {
					return err
				}
				select {
				case <-ticker.C:
				case <-sweepCtx.Done():
					return sweepCtx.Err()
				}
			}
		},
		func(error) { sweepCancel() },
	)

	err = group.Run()
	if _, ok := err.(run.SignalError); ok {
		r.logger.Info().Msg("shutting down")
		return nil
	}
	return err
}
