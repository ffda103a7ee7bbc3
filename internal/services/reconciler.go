package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"projecthub/internal/domain"
)

const reconcileBatchSize = 100

// Reconciler repairs orphan events left behind when the association write
// of a create fails after the event write succeeded. Event and association
// are written without a transaction, so consistency between them is
// eventual; this sweep is the repair side of that contract.
type Reconciler struct {
	eventRepo domain.EventRepository
	assocRepo domain.EventAssociationRepository
	logger    *slog.Logger
	interval  time.Duration
}

func NewReconciler(eventRepo domain.EventRepository, assocRepo domain.EventAssociationRepository, logger *slog.Logger, interval time.Duration) *Reconciler {
	return &Reconciler{
		eventRepo: eventRepo,
		assocRepo: assocRepo,
		logger:    logger,
		interval:  interval,
	}
}

// Run sweeps on the configured interval until ctx is cancelled. Intended
// to be started as a goroutine from main.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			repaired, err := r.Sweep(ctx)
			if err != nil {
				r.logger.Error("association sweep failed", "err", err)
				continue
			}
			if repaired > 0 {
				r.logger.Info("repaired orphan events", "count", repaired)
			}
		}
	}
}

// Sweep creates a default association (creator as sole organizer) for each
// stored event that has none, and returns how many it repaired.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	orphans, err := r.eventRepo.ListMissingAssociation(ctx, reconcileBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list orphan events: %w", err)
	}
	repaired := 0
	for _, e := range orphans {
		now := time.Now()
		assoc := domain.NewEventAssociation(e.ID, e.CreatedBy, []string{e.CreatedBy}, []string{}, []string{}, now, now)
		if err := r.assocRepo.Create(ctx, assoc); err != nil {
			r.logger.Error("failed to repair orphan event", "event_id", e.ID, "err", err)
			continue
		}
		repaired++
	}
	return repaired, nil
}
