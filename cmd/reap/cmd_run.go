package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cloudreaper/reap/config"
	"github.com/cloudreaper/reap/executor"
	"github.com/cloudreaper/reap/internal/emitter"
	"github.com/cloudreaper/reap/internal/retry"
	"github.com/cloudreaper/reap/journal"
	"github.com/cloudreaper/reap/notify"
	"github.com/cloudreaper/reap/policy"
	"github.com/cloudreaper/reap/providers"
	"github.com/cloudreaper/reap/telemetry"
	"github.com/cloudreaper/reap/types"
)

var runFlags runArgs

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sweep once and exit",
	Example: `  reap run --cloud aws --resource vm --filter-tags '{"test_task": ["stress-test"]}' --age 3 --dry-run
  reap run --cloud all --resource all --notags '{"test_task": [], "test_owner": []}' --age '{"days": 7}'
  reap run --cloud gcp --project-id perf-lab --resource disk --detach-age 2`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&runFlags.Cloud, "cloud", "", "Cloud to sweep: aws, azure, gcp or all")
	f.StringVar(&runFlags.Resource, "resource", "all", "Resource kind: vm, ip, disk, keypair, nic, vpc, kms or all")
	f.StringVar(&runFlags.Operation, "operation", "delete", "Operation: delete or stop (vms only)")
	f.StringVar(&runFlags.FilterTags, "filter-tags", "", `Tags a candidate must carry, e.g. '{"test_task": ["test"]}'`)
	f.StringVar(&runFlags.ExceptionTags, "exception-tags", "", "Tags that protect a resource from reclamation")
	f.StringVar(&runFlags.NoTags, "notags", "", "Reject resources carrying ALL of these tags")
	f.StringVar(&runFlags.NameRegex, "name-regex", "", `Name patterns to include, e.g. '["perftest_"]'`)
	f.StringVar(&runFlags.ExceptionRegex, "exception-regex", "", "Name patterns that protect a resource")
	f.StringVar(&runFlags.Age, "age", "", `Minimum age: bare days or '{"days": 3, "hours": 12}'`)
	f.StringVar(&runFlags.DetachAge, "detach-age", "", "Minimum time since disk detach (disks only)")
	f.StringVar(&runFlags.States, "resource-states", "", `Allowed lifecycle states, e.g. '["stopped"]'`)
	f.BoolVar(&runFlags.DryRun, "dry-run", false, "Report candidates without mutating anything")
	f.StringVar(&runFlags.Region, "region", "", "Pin AWS discovery to one region")
	f.StringVar(&runFlags.ProjectID, "project-id", "", "GCP project")
	f.StringVar(&runFlags.SubscriptionID, "subscription-id", "", "Azure subscription")
	f.StringVar(&runFlags.ResourceGroup, "resource-group", "", "Narrow Azure discovery to one resource group")
	f.StringVar(&runFlags.SlackChannel, "slack-channel", "", "Override the configured Slack channel")
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r, cleanup, err := newRunner(runFlags)
	if err != nil {
		return err
	}
	defer cleanup()

	return r.sweep(ctx)
}

// runner holds everything one sweep needs.
type runner struct {
	spec     *runSpec
	cfg      *config.Config
	logger   zerolog.Logger
	eval     *policy.Evaluator
	journal  *journal.Journal
	notifier notify.Notifier
	emit     emitter.Emitter
	metrics  *telemetry.Metrics

	providerCfg providers.Config
}

// newRunner validates flags and wires the collaborators. All
// configuration errors surface here, before any cloud call.
func newRunner(args runArgs) (*runner, func(), error) {
	spec, err := buildRunSpec(args)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}

	logger := telemetry.NewLogger("reap", flagDebug, true)

	missing, err := policy.ParseMissingAgePolicy(cfg.MissingAge)
	if err != nil {
		return nil, nil, err
	}
	eval, err := policy.NewEvaluator(policy.EvaluatorConfig{
		Criteria:   spec.Criteria,
		MissingAge: missing,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}

	jnl, err := journal.Open(cfg.JournalDir)
	if err != nil {
		return nil, nil, err
	}

	metrics, err := telemetry.InitMetrics("reap", version)
	if err != nil {
		_ = jnl.Close()
		return nil, nil, err
	}

	var notifier notify.Notifier = notify.Nop{}
	channel := cfg.Slack.Channel
	if args.SlackChannel != "" {
		channel = args.SlackChannel
	}
	if cfg.Slack.Token != "" && channel != "" {
		notifier = notify.NewSlackNotifier(cfg.Slack.Token, channel, logger)
	}

	prom, err := emitter.NewPrometheusEmitter()
	if err != nil {
		_ = jnl.Close()
		return nil, nil, err
	}
	emitters := []emitter.Emitter{prom}
	if cfg.Influx.Enabled() {
		emitters = append(emitters, emitter.NewInfluxEmitter(cfg.Influx))
	}
	emit := emitter.NewMultiEmitter(emitters...)

	r := &runner{
		spec:     spec,
		cfg:      cfg,
		logger:   logger,
		eval:     eval,
		journal:  jnl,
		notifier: notifier,
		emit:     emit,
		metrics:  metrics,
		providerCfg: providers.Config{
			Region:               args.Region,
			ProjectID:            args.ProjectID,
			SubscriptionID:       args.SubscriptionID,
			ResourceGroup:        args.ResourceGroup,
			KMSPendingWindowDays: cfg.KMSPendingWindowDays,
			Logger:               logger,
		},
	}
	cleanup := func() {
		_ = emit.Close()
		_ = jnl.Close()
		_ = metrics.Shutdown(context.Background())
	}
	return r, cleanup, nil
}

// sweep runs every requested (cloud, kind) pair. Discovery failures are
// logged and skipped; a configuration error aborts.
func (r *runner) sweep(ctx context.Context) error {
	for _, cloud := range r.spec.Clouds {
		for _, kind := range r.spec.Kinds {
			if !providers.Supports(cloud, kind) {
				if r.spec.Explicit {
					return fmt.Errorf("%s does not support resource %s", cloud, kind)
				}
				continue
			}
			if err := r.sweepOne(ctx, cloud, kind); err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
	return nil
}

func (r *runner) sweepOne(ctx context.Context, cloud string, kind types.Kind) error {
	logger := r.logger.With().Str("cloud", cloud).Str("kind", string(kind)).Logger()

	adapter, err := providers.Get(ctx, cloud, kind, r.providerCfg)
	if err != nil {
		return err
	}

	resources, err := adapter.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("discovery failed, skipping")
		return nil
	}
	logger.Info().Int("count", len(resources)).Msg("discovered resources")

	var accepted []types.Resource
	var rejected []types.Rejection
	for _, resource := range resources {
		decision := r.eval.Evaluate(resource)
		if decision.Eligible {
			accepted = append(accepted, resource)
			if err := r.journal.Append(journal.EntryDecided, resource.ID, resource); err != nil {
				logger.Warn().Err(err).Msg("journal write failed")
			}
			continue
		}
		rejected = append(rejected, types.Rejection{Resource: resource, Reason: decision.Reason})
		if err := r.journal.Append(journal.EntrySkipped, resource.ID, decision); err != nil {
			logger.Warn().Err(err).Msg("journal write failed")
		}
	}

	exec := executor.New(adapter, executor.Options{
		DryRun:      r.spec.Criteria.DryRun,
		Concurrency: r.cfg.Concurrency,
		Retry: retry.Policy{
			MaxAttempts: r.cfg.Retry.MaxAttempts,
			Initial:     r.cfg.Retry.Initial,
			Step:        r.cfg.Retry.Step,
		},
		Logger: logger,
	})
	result, err := exec.Run(ctx, r.spec.Op, accepted)
	if err != nil {
		return err
	}
	result.Provider = cloud
	result.Kind = kind
	result.Rejected = rejected

	r.record(ctx, logger, result)
	return nil
}

// record journals, prints, notifies and emits one result. Everything
// here is best-effort.
func (r *runner) record(ctx context.Context, logger zerolog.Logger, result *types.RunResult) {
	for _, resource := range result.Accepted {
		if !result.DryRun {
			if err := r.journal.Append(journal.EntryExecuted, resource.ID, resource); err != nil {
				logger.Warn().Err(err).Msg("journal write failed")
			}
		}
	}
	for _, failure := range result.Errored {
		if err := r.journal.AppendError(journal.EntryFailed, failure.Resource.ID, failure.Resource, fmt.Errorf("%s", failure.Error)); err != nil {
			logger.Warn().Err(err).Msg("journal write failed")
		}
	}

	printReport(result)

	if err := r.notifier.Notify(ctx, *result); err != nil {
		logger.Error().Err(err).Msg("notification failed")
	}
	if err := r.emit.Emit(ctx, *result); err != nil {
		logger.Error().Err(err).Msg("metrics emit failed")
	}
}

func printReport(result *types.RunResult) {
	verb := string(result.Operation) + "d"
	if result.DryRun {
		verb = "would " + string(result.Operation)
	}
	fmt.Printf("\n%s %s (%s)\n", result.Provider, result.Kind, result.Operation)
	fmt.Printf("  %s: %d\n", verb, len(result.Accepted))
	for _, r := range result.Accepted {
		fmt.Printf("    %s %s\n", r.ID, r.Name)
	}
	fmt.Printf("  kept: %d\n", len(result.Rejected))
	for _, rej := range result.Rejected {
		fmt.Printf("    %s %s (%s)\n", rej.Resource.ID, rej.Resource.Name, rej.Reason)
	}
	if len(result.Errored) > 0 {
		fmt.Printf("  errored: %d\n", len(result.Errored))
		for _, f := range result.Errored {
			fmt.Printf("    %s: %s\n", f.Resource.ID, f.Error)
		}
	}
}
