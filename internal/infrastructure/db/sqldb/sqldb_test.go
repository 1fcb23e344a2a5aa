package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rackledger/inventory/internal/core/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func ptr(v uint) *uint { return &v }

func seedInventory(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	projects := NewProjectRepository(db)
	groups := NewGroupRepository(db)
	servers := NewServerRepository(db)

	require.NoError(t, projects.Create(ctx, &domain.Project{Title: "Apollo"}))
	require.NoError(t, groups.Create(ctx, &domain.Group{Title: "Edge_Nodes", Status: "active", ProjectID: ptr(1)}))
	require.NoError(t, servers.Create(ctx, &domain.Server{IP: "10.0.0.1", OS: "Debian", Hoster: "Hetzner", Status: "active", Country: "DE", GroupID: ptr(1)}))
	require.NoError(t, servers.Create(ctx, &domain.Server{IP: "10.0.0.2", OS: "Ubuntu", Hoster: "OVH", Status: "retired", Country: "FR", ProjectID: ptr(1)}))
	require.NoError(t, servers.Create(ctx, &domain.Server{IP: "192.168.1.9", OS: "Alpine", Hoster: "OVH", Status: "active", Country: "FR", Comments: "100% uptime"}))
}

func TestRepository_ListLoadsRelationsInIDOrder(t *testing.T) {
	db := openTestDB(t)
	seedInventory(t, db)

	items, err := NewServerRepository(db).List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, []uint{1, 2, 3}, []uint{items[0].ID, items[1].ID, items[2].ID})
	require.NotNil(t, items[0].Group)
	assert.Equal(t, "Edge_Nodes", items[0].Group.Title)
	assert.Nil(t, items[0].Project)
	require.NotNil(t, items[1].Project)
	assert.Equal(t, "Apollo", items[1].Project.Title)
}

func TestRepository_ListSearch(t *testing.T) {
	db := openTestDB(t)
	seedInventory(t, db)
	repo := NewServerRepository(db)

	cases := []struct {
		query string
		want  []uint
	}{
		{"ovh", []uint{2, 3}},
		{"10.0.0", []uint{1, 2}},
		{"edge", []uint{1}},
		{"APOLLO", []uint{2}},
		{"%", []uint{3}},
		{"_", []uint{1}},
		{"nothing-matches", []uint{}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			items, err := repo.List(context.Background(), tc.query)
			require.NoError(t, err)
			got := []uint{}
			for _, s := range items {
				got = append(got, s.ID)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRepository_FindByIDAndExists(t *testing.T) {
	db := openTestDB(t)
	seedInventory(t, db)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	g, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, g.Project)
	assert.Equal(t, "Apollo", g.Project.Title)

	_, err = repo.FindByID(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := repo.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_UpdateWritesOnlySelectedColumns(t *testing.T) {
	db := openTestDB(t)
	seedInventory(t, db)
	repo := NewServerRepository(db)
	ctx := context.Background()

	s, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	s.OS = "Windows"
	s.Hoster = "ignored"
	s.GroupID = nil
	require.NoError(t, repo.Update(ctx, s, []string{"os", "group_id"}))

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Windows", got.OS)
	assert.Equal(t, "Hetzner", got.Hoster)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)

	missing := &domain.Server{ID: 42, OS: "x"}
	assert.ErrorIs(t, repo.Update(ctx, missing, []string{"os"}), domain.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h", Role: domain.RoleSuperAdmin, Status: domain.StatusActive}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	dup := &domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "h", Role: domain.RoleAdmin1L, Status: domain.StatusActive}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrConflict)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", found.PasswordHash)

	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := repo.CountByRole(ctx, domain.RoleSuperAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	items, err := repo.List(ctx, "super")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestHistoryRepository_ListFiltersNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewHistoryRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, e := range []domain.History{
		{TargetType: domain.TargetServer, TargetID: 7, Action: domain.ActionUpdated, Changes: "a", Timestamp: base},
		{TargetType: domain.TargetServer, TargetID: 8, Action: domain.ActionUpdated, Changes: "x", Timestamp: base.Add(time.Minute)},
		{TargetType: domain.TargetServer, TargetID: 7, Action: domain.ActionUpdated, Changes: "b", Timestamp: base.Add(2 * time.Minute)},
		{TargetType: domain.TargetDomain, TargetID: 7, Action: domain.ActionUpdated, Changes: "y", Timestamp: base.Add(3 * time.Minute)},
		{TargetType: domain.TargetServer, TargetID: 7, Action: domain.ActionUpdated, Changes: "c", Timestamp: base.Add(2 * time.Minute)},
	} {
		e.User = "alice"
		require.NoError(t, repo.Append(ctx, &e), "append %d", i)
		assert.NotZero(t, e.ID)
	}

	rows, err := repo.List(ctx, domain.TargetServer, 7)
	require.NoError(t, err)
	var changes []string
	for _, r := range rows {
		changes = append(changes, r.Changes)
	}
	assert.Equal(t, []string{"c", "b", "a"}, changes)

	rows, err = repo.List(ctx, domain.TargetFinance, 7)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
