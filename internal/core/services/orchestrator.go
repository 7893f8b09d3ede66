package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/certiblock/verifier-node/internal/config"
	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/internal/core/ports"
	"github.com/certiblock/verifier-node/internal/log"
	"github.com/certiblock/verifier-node/internal/session"
	"github.com/certiblock/verifier-node/pkg/pubsub"
	"github.com/certiblock/verifier-node/pkg/syncttlmap"
)

const cancelMapCleaning = time.Minute

// Orchestrator sequences the verification pipeline:
//
//	Idle -> Locating -> LedgerChecking -> Filtering -> [Comparing] -> Aggregating -> Done
//
// Any stage can move to Cancelled on an explicit cancellation signal. The
// pipeline is read-only, so cancellation never leaves persisted state
// inconsistent.
type Orchestrator struct {
	locator  ports.EvidenceLocator
	verifier ports.LedgerVerifier
	comparer ports.ComparisonEngine
	store    ports.ContentStore
	runs     session.Manager
	events   pubsub.Publisher
	cancels  *syncttlmap.TTLMap
	fanout   int64
	strict   bool
}

// NewOrchestrator creates a new instance of Orchestrator
func NewOrchestrator(locator ports.EvidenceLocator, verifier ports.LedgerVerifier, comparer ports.ComparisonEngine, store ports.ContentStore, runs session.Manager, events pubsub.Publisher, cfg config.Verifier) *Orchestrator {
	cancels := syncttlmap.New(cfg.RunTTL)
	cancels.CleaningBackground(cancelMapCleaning)
	return &Orchestrator{
		locator:  locator,
		verifier: verifier,
		comparer: comparer,
		store:    store,
		runs:     runs,
		events:   events,
		cancels:  cancels,
		fanout:   int64(cfg.LedgerFanout),
		strict:   cfg.StrictLedger,
	}
}

// Start launches an asynchronous verification run and returns its id. The
// run gets its own cancellable context so concurrent runs never interfere.
func (o *Orchestrator) Start(ctx context.Context, req domain.VerificationRequest) (uuid.UUID, error) {
	if err := validateRequest(req); err != nil {
		return uuid.Nil, err
	}

	runID := uuid.New()
	runCtx, cancel := context.WithCancel(log.CopyFromContext(ctx, context.Background()))
	o.cancels.Store(runID.String(), cancel)

	snapshot := domain.RunSnapshot{RunID: runID, Stage: domain.StageIdle}
	if err := o.runs.Set(ctx, snapshot); err != nil {
		cancel()
		o.cancels.Delete(runID.String())
		return uuid.Nil, fmt.Errorf("storing run snapshot: %w", err)
	}

	go func() {
		defer cancel()
		verdict, err := o.Verify(runCtx, runID, req, o.reporter(runCtx, runID))
		o.finish(runCtx, runID, verdict, err)
		o.cancels.Delete(runID.String())
	}()

	return runID, nil
}

// Verify runs the whole pipeline synchronously, reporting progress as an
// ordered stream of stage transitions.
func (o *Orchestrator) Verify(ctx context.Context, runID uuid.UUID, req domain.VerificationRequest, report domain.ProgressFunc) (*domain.VerificationVerdict, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Locating
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report(domain.ProgressUpdate{Stage: domain.StageLocating, Percent: 5, Message: "locating candidate records"})
	candidates, err := o.locate(ctx, req, report)
	if err != nil {
		return nil, err
	}

	// LedgerChecking
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report(domain.ProgressUpdate{Stage: domain.StageLedgerChecks, Percent: 30, Message: fmt.Sprintf("checking %d candidate(s) against the ledger", len(candidates))})
	results, err := o.checkCandidates(ctx, candidates)
	if err != nil {
		return nil, err
	}

	// Filtering
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report(domain.ProgressUpdate{Stage: domain.StageFiltering, Percent: 60, Message: "filtering verified candidates"})
	verdict := &domain.VerificationVerdict{RunID: runID}
	for _, result := range results {
		if result.Accepted {
			verdict.Accepted = append(verdict.Accepted, result)
			verdict.Warnings = append(verdict.Warnings, result.Warnings...)
		} else {
			verdict.Rejected = append(verdict.Rejected, result)
		}
	}
	if len(verdict.Accepted) == 0 {
		return nil, &AllCandidatesRejectedError{Reasons: unionReasons(verdict.Rejected)}
	}

	// Comparing, only when the caller supplied a second document
	if req.WantsComparison() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report(domain.ProgressUpdate{Stage: domain.StageComparing, Percent: 70, Message: "comparing against supplied document"})
		if err := o.compare(ctx, req, verdict, report); err != nil {
			return nil, err
		}
	}

	// Aggregating
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report(domain.ProgressUpdate{Stage: domain.StageAggregating, Percent: 90, Message: "building verdict"})
	verdict.CompletedAt = time.Now().UTC()

	report(domain.ProgressUpdate{Stage: domain.StageDone, Percent: 100, Message: "verification complete"})
	return verdict, nil
}

// Cancel aborts an in-flight run. Cancellation prevents entry into any new
// stage and aborts in-flight network and AI calls through their contexts.
func (o *Orchestrator) Cancel(_ context.Context, runID uuid.UUID) bool {
	val := o.cancels.Load(runID.String())
	cancel, ok := val.(context.CancelFunc)
	if !ok {
		return false
	}
	cancel()
	o.cancels.Delete(runID.String())
	return true
}

// Status returns the last stored snapshot of a run
func (o *Orchestrator) Status(ctx context.Context, runID uuid.UUID) (*domain.RunSnapshot, error) {
	snapshot, err := o.runs.Get(ctx, runID)
	if err != nil {
		return nil, ErrRunNotFound
	}
	return &snapshot, nil
}

func (o *Orchestrator) locate(ctx context.Context, req domain.VerificationRequest, report domain.ProgressFunc) ([]domain.CandidateResult, error) {
	var candidates []domain.CandidateResult
	if req.ByCode() {
		records, err := o.locator.ResolveByCode(ctx, req.AccessCode)
		if err != nil {
			return nil, err
		}
		for i := range records {
			candidates = append(candidates, domain.CandidateResult{Record: records[i], Source: domain.CandidateSourceCode})
		}
		return candidates, nil
	}

	ranked, err := o.locator.ResolveByFile(ctx, req.Document, req.DocumentMIME, report)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, ErrCredentialNotFound
	}
	for i := range ranked {
		candidates = append(candidates, domain.CandidateResult{
			Record:     ranked[i].Record,
			Source:     domain.CandidateSourceFile,
			Confidence: ranked[i].Confidence,
		})
	}
	return candidates, nil
}

// checkCandidates fans the ledger checks out over a bounded worker pool. One
// candidate failing never aborts its siblings; only context cancellation
// stops the group.
func (o *Orchestrator) checkCandidates(ctx context.Context, candidates []domain.CandidateResult) ([]domain.CandidateResult, error) {
	sem := semaphore.NewWeighted(o.fanout)
	g, gctx := errgroup.WithContext(ctx)

	results := make([]domain.CandidateResult, len(candidates))
	for i := range candidates {
		i := i
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			results[i] = o.checkOne(gctx, candidates[i])
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *Orchestrator) checkOne(ctx context.Context, candidate domain.CandidateResult) domain.CandidateResult {
	if candidate.Record.Status == domain.CredentialStatusRevoked {
		candidate.Accepted = false
		candidate.Reasons = []string{domain.ReasonCredentialRevoked}
		return candidate
	}

	check, err := o.verifier.Verify(ctx, &candidate.Record)
	if err != nil {
		if ctx.Err() != nil {
			return candidate
		}
		log.Error(ctx, "ledger verification failed", "err", err, "credential", candidate.Record.ID)
		candidate.Accepted = false
		candidate.Reasons = []string{fmt.Sprintf("ledger verification error: %v", err)}
		return candidate
	}

	candidate.Ledger = check
	candidate.Accepted = check.Accepted(o.strict)
	candidate.Reasons = check.Reasons(o.strict)
	if check.Skipped && !o.strict {
		candidate.Warnings = append(candidate.Warnings, domain.WarningUnverifiableByLedger)
	}
	return candidate
}

// compare fetches the verified original of the first accepted candidate and
// runs the comparison engine against the supplied document. Comparison
// problems degrade to a warning; the ledger verdict stands on its own.
func (o *Orchestrator) compare(ctx context.Context, req domain.VerificationRequest, verdict *domain.VerificationVerdict, report domain.ProgressFunc) error {
	original, err := o.store.Fetch(ctx, verdict.Accepted[0].Record.ContentID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error(ctx, "fetching original for comparison", "err", err)
		verdict.Warnings = append(verdict.Warnings, "comparison skipped: original document unavailable")
		return nil
	}

	comparison, err := o.comparer.Compare(ctx, original, req.Comparison, req.HintType, report)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error(ctx, "document comparison failed", "err", err)
		verdict.Warnings = append(verdict.Warnings, "comparison skipped: comparison engine error")
		return nil
	}
	verdict.Comparison = comparison
	return nil
}

// reporter persists every progress update and publishes it for UI push
func (o *Orchestrator) reporter(ctx context.Context, runID uuid.UUID) domain.ProgressFunc {
	return func(update domain.ProgressUpdate) {
		snapshot := domain.RunSnapshot{
			RunID:   runID,
			Stage:   update.Stage,
			Percent: update.Percent,
			Message: update.Message,
		}
		if err := o.runs.Set(ctx, snapshot); err != nil {
			log.Warn(ctx, "storing progress snapshot", "err", err, "run", runID)
		}
		event := &pubsub.VerificationProgressEvent{
			RunID:   runID.String(),
			Stage:   string(update.Stage),
			Percent: update.Percent,
			Message: update.Message,
		}
		if err := o.events.Publish(ctx, pubsub.EventVerificationProgress, event); err != nil {
			log.Warn(ctx, "publishing progress event", "err", err, "run", runID)
		}
	}
}

// finish stores the terminal snapshot of a run. Cancelled is a terminal
// state distinct from Failed and produces no verdict.
func (o *Orchestrator) finish(ctx context.Context, runID uuid.UUID, verdict *domain.VerificationVerdict, err error) {
	// run context may already be cancelled, snapshots still need to be stored
	storeCtx := log.CopyFromContext(ctx, context.Background())

	snapshot := domain.RunSnapshot{RunID: runID, Percent: 100}
	switch {
	case errors.Is(err, context.Canceled):
		snapshot.Stage = domain.StageCancelled
	case err != nil:
		snapshot.Stage = domain.StageFailed
		snapshot.Error = err.Error()
	default:
		snapshot.Stage = domain.StageDone
		snapshot.Verdict = verdict
	}

	if err := o.runs.Set(storeCtx, snapshot); err != nil {
		log.Error(storeCtx, "storing terminal snapshot", "err", err, "run", runID)
	}

	done := &pubsub.VerificationDoneEvent{RunID: runID.String(), Stage: string(snapshot.Stage)}
	if verdict != nil {
		done.Accepted = len(verdict.Accepted)
		done.Rejected = len(verdict.Rejected)
	}
	if err := o.events.Publish(storeCtx, pubsub.EventVerificationDone, done); err != nil {
		log.Warn(storeCtx, "publishing done event", "err", err, "run", runID)
	}
}

func validateRequest(req domain.VerificationRequest) error {
	if req.ByCode() == (len(req.Document) > 0) {
		return errors.New("exactly one of access code or document must be provided")
	}
	return nil
}

func unionReasons(rejected []domain.CandidateResult) []string {
	seen := make(map[string]struct{})
	var union []string
	for _, candidate := range rejected {
		for _, reason := range candidate.Reasons {
			if _, ok := seen[reason]; ok {
				continue
			}
			seen[reason] = struct{}{}
			union = append(union, reason)
		}
	}
	return union
}
