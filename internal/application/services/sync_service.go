// Package services contains the application services that orchestrate the
// questionnaire domain against persistence, sync, and email infrastructure.
package services

import (
	"context"
	"time"

	"github.com/ettle-app/ettle-go/internal/domain/forms"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/submissions"
	"github.com/ettle-app/ettle-go/internal/infrastructure/syncer"
	"github.com/ettle-app/ettle-go/pkg/config"
)

// SyncService pushes projection records into the submissions store. Draft
// writes are debounced per run and never fail the caller; the final write is
// synchronous and does.
type SyncService struct {
	repo      *submissions.Repository
	debouncer *syncer.Debouncer
	logger    *logging.ChanneledLogger
}

// NewSyncService creates the sync service.
func NewSyncService(repo *submissions.Repository, debouncer *syncer.Debouncer, logger *logging.ChanneledLogger) *SyncService {
	return &SyncService{repo: repo, debouncer: debouncer, logger: logger}
}

// stamp adds run identity and the update timestamp to a partial record.
func stamp(rec forms.Record, runID string) forms.Record {
	rec["run_id"] = runID
	rec["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return rec
}

// ScheduleDraft queues a debounced draft write. Rapid edits to the same run
// coalesce into one upsert carrying the latest record. Failures are logged
// and swallowed; the raw answers column makes the draft recoverable on the
// next edit.
func (s *SyncService) ScheduleDraft(runID string, rec forms.Record) {
	stamped := stamp(rec, runID)
	s.debouncer.Schedule(runID, func() {
		s.writeDraft(runID, stamped)
	})
}

// SyncContact writes a contact capture immediately, bypassing the debounce
// window. A valid email or phone is worth a row even if the run is later
// abandoned. The contact record carries the full raw answers snapshot, so
// the pending draft is cancelled rather than left to fire later and clobber
// this newer write.
func (s *SyncService) SyncContact(runID string, rec forms.Record) {
	stamped := stamp(rec, runID)
	s.debouncer.Cancel(runID)
	go s.writeDraft(runID, stamped)
}

// Flush runs the run's pending draft write synchronously, if one is queued.
func (s *SyncService) Flush(runID string) {
	s.debouncer.Flush(runID)
}

func (s *SyncService) writeDraft(runID string, rec forms.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), config.SyncFinalTimeout)
	defer cancel()

	if err := s.repo.Upsert(ctx, rec); err != nil {
		s.logger.Sync().Warn("Draft sync failed, will retry on next edit",
			"runId", runID, "error", err.Error())
		return
	}
	s.logger.Sync().Debug("Draft synced", "runId", runID)
}

// SyncFinal drains any pending draft for the run and writes the complete
// record synchronously. Unlike drafts, a failure here is returned so the
// submission step can surface it.
func (s *SyncService) SyncFinal(ctx context.Context, runID string, rec forms.Record) error {
	s.debouncer.Flush(runID)

	ctx, cancel := context.WithTimeout(ctx, config.SyncFinalTimeout)
	defer cancel()

	if err := s.repo.Upsert(ctx, rec); err != nil {
		s.logger.Sync().Error("Final sync failed", "runId", runID, "error", err.Error())
		return err
	}
	s.logger.Sync().Info("Submission synced", "runId", runID)
	return nil
}

// Shutdown drains every pending draft write.
func (s *SyncService) Shutdown() {
	s.debouncer.FlushAll()
}
