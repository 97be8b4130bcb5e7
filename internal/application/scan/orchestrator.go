package scan

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/bigip-recon/internal/checker"
	"github.com/khanhnv2901/bigip-recon/internal/domain/site"
	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

// DoneFunc is invoked once per host after classification. It may be called
// from several workers at the same time.
type DoneFunc func(rec *site.Record, duration time.Duration)

// Summary aggregates per-host outcomes of a run.
type Summary struct {
	Total     int
	Completed int
	Resolved  int
	Probed    int
	ByHeader  int
	BySubnet  int
}

// Detected is the number of hosts either heuristic flagged.
func (s Summary) Detected() int {
	return s.ByHeader + s.BySubnet
}

// Orchestrator drives every record through resolve, probe and classify
type Orchestrator struct {
	resolver     checker.Resolver
	prober       checker.Prober
	classifier   *checker.Classifier
	runner       *checker.Runner
	stageTimeout time.Duration // applied to resolution and to the probe separately
	logger       *zap.Logger
}

// NewOrchestrator creates a new scan orchestrator
func NewOrchestrator(
	resolver checker.Resolver,
	prober checker.Prober,
	classifier *checker.Classifier,
	runner *checker.Runner,
	stageTimeout time.Duration,
	logger *zap.Logger,
) *Orchestrator {
	if classifier == nil {
		classifier = &checker.Classifier{}
	}
	if runner == nil {
		runner = &checker.Runner{Concurrency: 1}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		resolver:     resolver,
		prober:       prober,
		classifier:   classifier,
		runner:       runner,
		stageTimeout: stageTimeout,
		logger:       logger,
	}
}

// Run processes records concurrently and returns the classified ones in input order.
//
// Per-host failures never abort the run. If ctx is cancelled, hosts not yet
// dispatched are left out of the result and the returned error wraps ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, records []*site.Record, onDone DoneFunc) ([]*site.Record, Summary, error) {
	o.logger.Info("scan started",
		zap.Int("hosts", len(records)),
		zap.Int("concurrency", o.runner.Concurrency),
		zap.Duration("stage_timeout", o.stageTimeout),
	)

	done := o.runner.Run(ctx, len(records), func(taskCtx context.Context, index int) {
		rec := records[index]
		start := time.Now()
		if err := o.processHost(taskCtx, rec); err != nil {
			o.logger.Error("pipeline error", zap.String("host", rec.Host()), zap.Error(err))
		}
		if onDone != nil {
			onDone(rec, time.Since(start))
		}
	})

	completed := make([]*site.Record, 0, len(records))
	for i, rec := range records {
		if done[i] && rec.Stage() == site.StageClassified {
			completed = append(completed, rec)
		}
	}
	summary := Summarize(len(records), completed)

	o.logger.Info("scan finished",
		zap.Int("completed", summary.Completed),
		zap.Int("resolved", summary.Resolved),
		zap.Int("probed", summary.Probed),
		zap.Int("bigip_by_header", summary.ByHeader),
		zap.Int("bigip_by_subnet", summary.BySubnet),
	)

	if err := ctx.Err(); err != nil {
		return completed, summary, fmt.Errorf("scan interrupted after %d of %d hosts: %w", summary.Completed, summary.Total, err)
	}
	return completed, summary, nil
}

// processHost runs one record through Created -> Resolved -> Probed -> Classified.
// Resolution and probe failures are logged and recorded, never returned.
func (o *Orchestrator) processHost(ctx context.Context, rec *site.Record) error {
	log := o.logger.With(zap.String("host", rec.Host()))

	resolveCtx, cancelResolve := o.stageContext(ctx)
	addrs, resolveErr := o.resolver.Resolve(resolveCtx, rec.Host())
	cancelResolve()
	if resolveErr != nil {
		log.Warn("resolution failed", zap.Error(resolveErr))
	} else {
		log.Debug("resolved", zap.Stringers("addrs", addrs))
	}
	if err := rec.Resolve(addrs, resolveErr); err != nil {
		return err
	}

	var (
		headers  site.Headers
		probeErr error
	)
	if resolveErr != nil {
		probeErr = fmt.Errorf("%w: skipped, host did not resolve", sharedErrors.ErrProbeFailed)
	} else {
		probeCtx, cancelProbe := o.stageContext(ctx)
		headers, probeErr = o.prober.Probe(probeCtx, rec.Host())
		cancelProbe()
		if probeErr != nil {
			log.Warn("probe failed", zap.Error(probeErr))
		} else {
			log.Debug("probed", zap.Strings("headers", headers.Names()))
		}
	}
	if err := rec.Probe(headers, probeErr); err != nil {
		return err
	}

	verdict := o.classifier.Classify(rec.Addresses(), rec.Headers())
	if err := rec.Classify(verdict); err != nil {
		return err
	}
	if verdict.Detected() {
		log.Info("bigip detected", zap.String("method", verdict.Method()))
	}
	return nil
}

// stageContext gives one stage its own deadline, so time spent resolving is
// never taken from the probe.
func (o *Orchestrator) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.stageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.stageTimeout)
}

// Summarize counts outcomes over classified records.
func Summarize(total int, records []*site.Record) Summary {
	s := Summary{Total: total, Completed: len(records)}
	for _, rec := range records {
		if rec.ResolveErr() == nil {
			s.Resolved++
		}
		if rec.ProbeErr() == nil {
			s.Probed++
		}
		switch rec.Verdict() {
		case site.VerdictBigIPByHeader:
			s.ByHeader++
		case site.VerdictBigIPBySubnet:
			s.BySubnet++
		}
	}
	return s
}
