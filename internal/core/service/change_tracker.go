package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rackledger/inventory/internal/api/metrics"
	"github.com/rackledger/inventory/internal/core/changelog"
	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

// ChangeTracker appends audit rows for entity creations and updates.
type ChangeTracker struct {
	history ports.HistoryRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewChangeTracker(history ports.HistoryRepository, log zerolog.Logger) *ChangeTracker {
	return &ChangeTracker{history: history, log: log, now: time.Now}
}

// Created records the creation of an entity with a one-line summary.
func (t *ChangeTracker) Created(ctx context.Context, kind domain.TargetType, id uint, actor, summary string) error {
	return t.record(ctx, kind, id, actor, domain.ActionCreated, summary)
}

// Updated records res as one row. An empty result writes nothing.
func (t *ChangeTracker) Updated(ctx context.Context, kind domain.TargetType, id uint, actor string, res changelog.Result) error {
	if !res.Changed() {
		return nil
	}
	return t.record(ctx, kind, id, actor, domain.ActionUpdated, res.String())
}

func (t *ChangeTracker) record(ctx context.Context, kind domain.TargetType, id uint, actor, action, changes string) error {
	entry := &domain.History{
		TargetID:   id,
		TargetType: kind,
		User:       actor,
		Action:     action,
		Changes:    changes,
		Timestamp:  t.now().UTC(),
	}
	if err := t.history.Append(ctx, entry); err != nil {
		metrics.HistoryErrorsTotal.WithLabelValues(string(kind)).Inc()
		t.log.Error().Err(err).
			Str("target_type", string(kind)).
			Uint("target_id", id).
			Str("action", action).
			Msg("failed to write history entry")
		return fmt.Errorf("record %s history: %w", kind, err)
	}

	metrics.HistoryEntriesTotal.WithLabelValues(string(kind), action).Inc()
	t.log.Debug().
		Str("target_type", string(kind)).
		Uint("target_id", id).
		Str("user", actor).
		Str("action", action).
		Str("changes", changes).
		Msg("history recorded")
	return nil
}
