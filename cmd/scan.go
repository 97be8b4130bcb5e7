package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanhnv2901/bigip-recon/internal/application/scan"
	"github.com/khanhnv2901/bigip-recon/internal/checker"
	"github.com/khanhnv2901/bigip-recon/internal/domain/site"
	"github.com/khanhnv2901/bigip-recon/internal/infrastructure/input"
	jsonrepo "github.com/khanhnv2901/bigip-recon/internal/infrastructure/persistence/json"
)

// resolverFactory picks the DNS backend for a run. Tests replace it.
var resolverFactory = buildResolver

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Resolve and probe a host list, flagging BigIP-fronted hosts",
	Long: `Resolve every host in --input, send one plain HTTP request to each without
following redirects, and flag the host as BigIP-fronted when the Server header
mentions "bigip" or a resolved IPv4 address falls inside a --subnets range.
The report is written to --output as a JSON array in input order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd)
	},
}

func init() {
	flags := scanCmd.Flags()
	flags.StringVarP(&cliConfig.Scan.InputPath, "input", "i", "", "host list, one hostname per line (required)")
	flags.StringVarP(&cliConfig.Scan.OutputPath, "output", "O", "", "JSON report path (required)")
	flags.StringVarP(&cliConfig.Scan.SubnetsPath, "subnets", "s", "", "IPv4 CIDR list, one per line")
	flags.IntVarP(&cliConfig.Scan.Concurrency, "concurrency", "c", cliConfig.Scan.Concurrency, "number of hosts processed in parallel")
	flags.IntVarP(&cliConfig.Scan.TimeoutSecs, "timeout", "t", cliConfig.Scan.TimeoutSecs, "per-host timeout in seconds")
	flags.StringSliceVar(&cliConfig.Scan.Nameservers, "nameservers", nil, "query these DNS servers (host[:port]) instead of the system resolver")
	flags.BoolVar(&cliConfig.Scan.ProgressEnabled, "progress", false, "show a live progress line")
}

func runScan(cmd *cobra.Command) error {
	appCtx := getAppContext(cmd)
	cfg := appCtx.Config.Scan
	logger := appCtx.Logger
	out := cmd.OutOrStdout()

	if err := cfg.Validate(); err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(out, "\n%s Received %s, finishing in-flight hosts...\n", colorWarn("!"), sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	records, err := input.LoadHostsFile(cfg.InputPath, logger)
	if err != nil {
		return &FatalIOError{Op: "load hosts", Err: err}
	}
	subnets, err := input.LoadSubnetsFile(cfg.SubnetsPath, logger)
	if err != nil {
		return &FatalIOError{Op: "load subnets", Err: err}
	}
	repo, err := jsonrepo.NewReportRepository(cfg.OutputPath)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	resolver, err := resolverFactory(cfg, timeout)
	if err != nil {
		return err
	}

	orchestrator := scan.NewOrchestrator(
		resolver,
		checker.NewHTTPProber(timeout),
		&checker.Classifier{Subnets: subnets},
		// resolution and probe each get the full timeout; the runner caps the pair
		&checker.Runner{Concurrency: cfg.Concurrency, Timeout: 2 * timeout},
		timeout,
		logger,
	)

	var onDone scan.DoneFunc
	var progress *progressPrinter
	if cfg.ProgressEnabled {
		progress = newProgressPrinter(out, len(records), "scan")
		progress.Start()
		onDone = func(rec *site.Record, d time.Duration) {
			ok := rec.ResolveErr() == nil && rec.ProbeErr() == nil
			progress.Increment(ok, rec.Verdict().Detected(), d.Seconds())
		}
	}

	results, summary, runErr := orchestrator.Run(ctx, records, onDone)
	if progress != nil {
		progress.Stop()
	}

	interrupted := false
	if runErr != nil {
		if !errors.Is(runErr, context.Canceled) {
			return runErr
		}
		interrupted = true
		logger.Warn("scan interrupted", zap.Error(runErr))
	}

	if err := repo.Save(parent, results); err != nil {
		return &FatalIOError{Op: "write report", Err: err}
	}

	printScanSummary(out, summary, results, repo.Path(), interrupted)
	return nil
}

func buildResolver(cfg ScanRuntimeConfig, timeout time.Duration) (checker.Resolver, error) {
	if len(cfg.Nameservers) == 0 {
		return &checker.SystemResolver{}, nil
	}
	return checker.NewNameserverResolver(cfg.Nameservers, timeout)
}

func printScanSummary(out io.Writer, summary scan.Summary, results []*site.Record, reportPath string, interrupted bool) {
	if interrupted {
		fmt.Fprintf(out, "%s Run cancelled after %d of %d hosts. Partial report written.\n",
			colorWarn("!"), summary.Completed, summary.Total)
	} else {
		fmt.Fprintf(out, "%s Scan complete.\n", colorSuccess("✓"))
	}

	fmt.Fprintf(out, "%s %d hosts, %d resolved, %d answered HTTP, %d BigIP (header %d, subnet %d)\n",
		colorInfo("Summary:"), summary.Completed, summary.Resolved, summary.Probed,
		summary.Detected(), summary.ByHeader, summary.BySubnet)

	for _, rec := range results {
		if rec.Verdict().Detected() {
			fmt.Fprintf(out, "  %-40s %s\n", rec.Host(), formatVerdictWithColor(rec.Verdict()))
		}
	}

	fmt.Fprintf(out, "%s %s\n", colorInfo("Report:"), reportPath)
}
