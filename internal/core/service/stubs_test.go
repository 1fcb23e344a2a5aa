package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

var nopLog = zerolog.Nop()

// memRepo is an in-memory ports.Repository keyed by an id accessor.
type memRepo[T any] struct {
	rows    []T
	id      func(*T) *uint
	updates [][]string
	failOn  error
}

func newMemRepo[T any](id func(*T) *uint) *memRepo[T] {
	return &memRepo[T]{id: id}
}

func (r *memRepo[T]) List(_ context.Context, _ string) ([]T, error) {
	return append([]T(nil), r.rows...), nil
}

func (r *memRepo[T]) FindByID(_ context.Context, id uint) (*T, error) {
	for i := range r.rows {
		if *r.id(&r.rows[i]) == id {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo[T]) Exists(ctx context.Context, id uint) (bool, error) {
	_, err := r.FindByID(ctx, id)
	return err == nil, nil
}

func (r *memRepo[T]) Create(_ context.Context, entity *T) error {
	if r.failOn != nil {
		return r.failOn
	}
	*r.id(entity) = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *entity)
	return nil
}

func (r *memRepo[T]) Update(_ context.Context, entity *T, columns []string) error {
	if r.failOn != nil {
		return r.failOn
	}
	for i := range r.rows {
		if *r.id(&r.rows[i]) == *r.id(entity) {
			r.rows[i] = *entity
			r.updates = append(r.updates, columns)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memUsers struct {
	*memRepo[domain.User]
}

func newMemUsers() *memUsers {
	return &memUsers{newMemRepo(func(u *domain.User) *uint { return &u.ID })}
}

func (r *memUsers) Create(ctx context.Context, u *domain.User) error {
	if _, err := r.FindByUsername(ctx, u.Username); err == nil {
		return domain.ErrConflict
	}
	return r.memRepo.Create(ctx, u)
}

func (r *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.rows {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUsers) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	for _, u := range r.rows {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// put stores u with a bcrypt hash of password.
func (r *memUsers) put(u domain.User, password string) *domain.User {
	hash, err := hashPassword(password)
	if err != nil {
		panic(err)
	}
	u.PasswordHash = hash
	u.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, u)
	return &r.rows[len(r.rows)-1]
}

type memHistory struct {
	rows []domain.History
	fail error
}

func (h *memHistory) Append(_ context.Context, e *domain.History) error {
	if h.fail != nil {
		return h.fail
	}
	e.ID = uint64(len(h.rows) + 1)
	h.rows = append(h.rows, *e)
	return nil
}

func (h *memHistory) List(_ context.Context, t domain.TargetType, id uint) ([]domain.History, error) {
	var out []domain.History
	for _, e := range h.rows {
		if e.TargetType == t && e.TargetID == id {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type memDenylist struct {
	revoked map[string]time.Time
}

func (d *memDenylist) Revoke(_ context.Context, id string, until time.Time) error {
	if d.revoked == nil {
		d.revoked = make(map[string]time.Time)
	}
	d.revoked[id] = until
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := d.revoked[id]
	return ok, nil
}

var errStore = errors.New("store unavailable")

// fixedClock returns a clock frozen at t that tests can move.
func fixedClock(t time.Time) (func() time.Time, func(time.Duration)) {
	now := t
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func claimsFor(subject string) ports.TokenClaims {
	return ports.TokenClaims{Subject: subject, ID: "jti-" + subject, ExpiresAt: time.Now().Add(time.Hour)}
}
