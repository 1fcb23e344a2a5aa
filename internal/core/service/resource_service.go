package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rackledger/inventory/internal/api/metrics"
	"github.com/rackledger/inventory/internal/core/changelog"
	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

// ResourceConfig describes one entity kind to Resource.
type ResourceConfig[T any] struct {
	Kind    domain.TargetType
	Fields  *changelog.Schema[T]
	ID      func(*T) uint
	Summary func(*T) string
	// Prepare runs once before a new entity is stored.
	Prepare func(ctx context.Context, entity *T) error
	// Check validates references before every write.
	Check func(ctx context.Context, entity *T) error
}

// Resource implements ports.ResourceService for any entity kind and routes
// every write through the ChangeTracker.
type Resource[T any] struct {
	cfg     ResourceConfig[T]
	repo    ports.Repository[T]
	tracker *ChangeTracker
	log     zerolog.Logger
}

var _ ports.ResourceService[domain.Server] = (*Resource[domain.Server])(nil)

func NewResource[T any](repo ports.Repository[T], tracker *ChangeTracker, cfg ResourceConfig[T], log zerolog.Logger) *Resource[T] {
	return &Resource[T]{
		cfg:     cfg,
		repo:    repo,
		tracker: tracker,
		log:     log.With().Str("resource", string(cfg.Kind)).Logger(),
	}
}

// Fields returns the mutable-field schema used for updates.
func (s *Resource[T]) Fields() *changelog.Schema[T] { return s.cfg.Fields }

func (s *Resource[T]) List(ctx context.Context, query string) ([]T, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.cfg.Kind, err)
	}
	return items, nil
}

func (s *Resource[T]) Get(ctx context.Context, id uint) (*T, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s %w", s.cfg.Kind, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s %d: %w", s.cfg.Kind, id, err)
	}
	return entity, nil
}

// Create stores entity and records a "Created" history row.
func (s *Resource[T]) Create(ctx context.Context, entity *T, actor string) (*T, error) {
	if s.cfg.Prepare != nil {
		if err := s.cfg.Prepare(ctx, entity); err != nil {
			return nil, err
		}
	}
	if s.cfg.Check != nil {
		if err := s.cfg.Check(ctx, entity); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.cfg.Kind, err)
	}

	id := s.cfg.ID(entity)
	if err := s.tracker.Created(ctx, s.cfg.Kind, id, actor, s.cfg.Summary(entity)); err != nil {
		return nil, err
	}

	s.log.Info().Uint("id", id).Str("user", actor).Msg("created")
	return s.Get(ctx, id)
}

// Update applies patch to the stored entity. When nothing differs the
// entity is returned untouched and no history row is written.
func (s *Resource[T]) Update(ctx context.Context, id uint, patch changelog.Patch, actor string) (*T, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, entity, s.cfg.Fields, patch, actor)
}

func (s *Resource[T]) apply(ctx context.Context, entity *T, fields *changelog.Schema[T], patch changelog.Patch, actor string) (*T, error) {
	res, err := changelog.Apply(entity, fields, patch)
	if err != nil {
		return nil, err
	}

	id := s.cfg.ID(entity)
	if !res.Changed() {
		metrics.NoopUpdatesTotal.WithLabelValues(string(s.cfg.Kind)).Inc()
		s.log.Debug().Uint("id", id).Msg("update changed nothing")
		return entity, nil
	}

	if s.cfg.Check != nil {
		if err := s.cfg.Check(ctx, entity); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, entity, res.Columns); err != nil {
		return nil, fmt.Errorf("update %s %d: %w", s.cfg.Kind, id, err)
	}
	if err := s.tracker.Updated(ctx, s.cfg.Kind, id, actor, res); err != nil {
		return nil, err
	}

	s.log.Info().Uint("id", id).Str("user", actor).Strs("fields", res.Columns).Msg("updated")
	return s.Get(ctx, id)
}

// exister is the part of a repository used for reference checks.
type exister interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// requireRef fails with domain.ErrValidation when id is set but unknown.
func requireRef(ctx context.Context, repo exister, field string, id *uint) error {
	if id == nil {
		return nil
	}
	ok, err := repo.Exists(ctx, *id)
	if err != nil {
		return fmt.Errorf("check %s: %w", field, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s %d does not exist", domain.ErrValidation, field, *id)
	}
	return nil
}
