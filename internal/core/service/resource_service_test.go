package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rackledger/inventory/internal/core/changelog"
	"github.com/rackledger/inventory/internal/core/domain"
)

type inventoryFixture struct {
	history  *memHistory
	tracker  *ChangeTracker
	servers  *memRepo[domain.Server]
	groups   *memRepo[domain.Group]
	projects *memRepo[domain.Project]
	finance  *memRepo[domain.Finance]
	domains  *memRepo[domain.Domain]
}

func newInventoryFixture() *inventoryFixture {
	h := &memHistory{}
	tr := NewChangeTracker(h, nopLog)
	now, advance := fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	tr.now = func() time.Time { advance(time.Second); return now() }
	return &inventoryFixture{
		history:  h,
		tracker:  tr,
		servers:  newMemRepo(func(s *domain.Server) *uint { return &s.ID }),
		groups:   newMemRepo(func(g *domain.Group) *uint { return &g.ID }),
		projects: newMemRepo(func(p *domain.Project) *uint { return &p.ID }),
		finance:  newMemRepo(func(f *domain.Finance) *uint { return &f.ID }),
		domains:  newMemRepo(func(d *domain.Domain) *uint { return &d.ID }),
	}
}

func (f *inventoryFixture) serverService() *Resource[domain.Server] {
	return NewServerService(f.servers, f.groups, f.projects, f.tracker, nopLog)
}

func mustPatch[T any](t *testing.T, s *changelog.Schema[T], body string) changelog.Patch {
	t.Helper()
	patch, err := changelog.Decode([]byte(body), s)
	if err != nil {
		t.Fatalf("Decode(%s): %v", body, err)
	}
	return patch
}

func newServer() *domain.Server {
	return &domain.Server{OS: "Linux", IP: "10.0.0.1", Hoster: "Hetzner", Status: "active", Country: "DE"}
}

func TestServerService_CreateThenUpdate_RecordsHistory(t *testing.T) {
	f := newInventoryFixture()
	svc := f.serverService()
	ctx := context.Background()

	created, err := svc.Create(ctx, newServer(), "alice")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(f.history.rows) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(f.history.rows))
	}
	first := f.history.rows[0]
	if first.Action != domain.ActionCreated || first.Changes != "IP: 10.0.0.1" || first.User != "alice" {
		t.Fatalf("unexpected created row: %+v", first)
	}
	if first.TargetType != domain.TargetServer || first.TargetID != created.ID {
		t.Fatalf("unexpected target: %s %d", first.TargetType, first.TargetID)
	}

	if _, err := svc.Update(ctx, created.ID, mustPatch(t, ServerFields, `{"os": "Linux"}`), "alice"); err != nil {
		t.Fatalf("no-op Update returned error: %v", err)
	}
	if len(f.history.rows) != 1 {
		t.Fatalf("expected no-op update to write nothing, got %d rows", len(f.history.rows))
	}
	if len(f.servers.updates) != 0 {
		t.Fatalf("expected no store write for a no-op update")
	}

	updated, err := svc.Update(ctx, created.ID, mustPatch(t, ServerFields, `{"os": "Windows"}`), "bob")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.OS != "Windows" {
		t.Fatalf("expected os Windows, got %s", updated.OS)
	}
	if len(f.history.rows) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(f.history.rows))
	}
	second := f.history.rows[1]
	if second.Changes != "os: Linux -> Windows" || second.Action != domain.ActionUpdated || second.User != "bob" {
		t.Fatalf("unexpected updated row: %+v", second)
	}
	if got := strings.Join(f.servers.updates[0], ","); got != "os" {
		t.Fatalf("expected only the os column written, got %s", got)
	}
}

func TestServerService_Create_Defaults(t *testing.T) {
	f := newInventoryFixture()
	created, err := f.serverService().Create(context.Background(), newServer(), "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.SSHUser != "root" || created.SSHPort != 22 {
		t.Fatalf("expected ssh defaults, got %s:%d", created.SSHUser, created.SSHPort)
	}
}

func TestServerService_Update_MultipleFieldsInSuppliedOrder(t *testing.T) {
	f := newInventoryFixture()
	svc := f.serverService()
	ctx := context.Background()
	created, err := svc.Create(ctx, newServer(), "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	patch := mustPatch(t, ServerFields, `{"status": "retired", "ssh_port": "2222", "os": "Linux", "ssh_pass": "topsecret"}`)
	if _, err := svc.Update(ctx, created.ID, patch, "alice"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := f.history.rows[len(f.history.rows)-1].Changes
	want := "status: active -> retired | ssh_port: 22 -> 2222 | ssh_pass: *** -> ***"
	if got != want {
		t.Fatalf("unexpected changes:\n got %q\nwant %q", got, want)
	}
	if strings.Contains(got, "topsecret") {
		t.Fatalf("credential leaked into history")
	}
}

func TestServerService_UnknownReferenceRejected(t *testing.T) {
	f := newInventoryFixture()
	svc := f.serverService()
	ctx := context.Background()

	s := newServer()
	missing := uint(42)
	s.GroupID = &missing
	if _, err := svc.Create(ctx, s, "alice"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(f.servers.rows) != 0 || len(f.history.rows) != 0 {
		t.Fatalf("expected nothing stored")
	}

	created, err := svc.Create(ctx, newServer(), "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = svc.Update(ctx, created.ID, mustPatch(t, ServerFields, `{"project_id": 9}`), "alice")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown project, got %v", err)
	}
	if len(f.history.rows) != 1 {
		t.Fatalf("expected rejected update to leave history untouched")
	}
}

func TestServerService_ReferenceChanges(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	if err := f.groups.Create(ctx, &domain.Group{Title: "edge", Status: "active"}); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	svc := f.serverService()
	created, err := svc.Create(ctx, newServer(), "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(ctx, created.ID, mustPatch(t, ServerFields, `{"group_id": 1}`), "alice"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := f.history.rows[1].Changes; got != "group_id: null -> 1" {
		t.Fatalf("unexpected changes: %q", got)
	}
}

func TestResource_Get_NotFound(t *testing.T) {
	f := newInventoryFixture()
	_, err := f.serverService().Get(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.serverService().Update(context.Background(), 99, changelog.Patch{{Field: "os", Value: "x"}}, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from update, got %v", err)
	}
}

func TestResource_HistoryFailureIsReported(t *testing.T) {
	f := newInventoryFixture()
	f.history.fail = errStore
	_, err := f.serverService().Create(context.Background(), newServer(), "alice")
	if !errors.Is(err, errStore) {
		t.Fatalf("expected history error, got %v", err)
	}
}

func TestResource_StoreFailureWritesNoHistory(t *testing.T) {
	f := newInventoryFixture()
	f.servers.failOn = errStore
	if _, err := f.serverService().Create(context.Background(), newServer(), "alice"); !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(f.history.rows) != 0 {
		t.Fatalf("expected no history row")
	}
}

func TestInventorySummaries(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()

	project, err := NewProjectService(f.projects, f.tracker, nopLog).Create(ctx, &domain.Project{Title: "Apollo"}, "alice")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	group, err := NewGroupService(f.groups, f.projects, f.tracker, nopLog).Create(ctx, &domain.Group{Title: "web", Status: "active", ProjectID: &project.ID}, "alice")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if _, err := NewDomainService(f.domains, f.groups, f.tracker, nopLog).Create(ctx, &domain.Domain{Name: "example.com", Status: "active", GroupID: &group.ID}, "alice"); err != nil {
		t.Fatalf("create domain: %v", err)
	}
	server, err := f.serverService().Create(ctx, newServer(), "alice")
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	fin := NewFinanceService(f.finance, f.servers, f.tracker, nopLog)
	if _, err := fin.Create(ctx, &domain.Finance{ServerID: server.ID, Price: 49.5, AccountStatus: "paid", PaymentDate: time.Now()}, "alice"); err != nil {
		t.Fatalf("create finance: %v", err)
	}
	if _, err := fin.Create(ctx, &domain.Finance{ServerID: 77, Price: 1, AccountStatus: "paid"}, "alice"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown server, got %v", err)
	}

	var got []string
	for _, h := range f.history.rows {
		got = append(got, string(h.TargetType)+"="+h.Changes)
	}
	want := []string{
		"project=Title: Apollo",
		"group=Title: web",
		"domain=Name: example.com",
		"server=IP: 10.0.0.1",
		"finance=Server: 1, Price: 49.5",
	}
	if strings.Join(got, ";") != strings.Join(want, ";") {
		t.Fatalf("unexpected summaries:\n got %v\nwant %v", got, want)
	}
}

func TestHistoryService_FiltersAndOrders(t *testing.T) {
	f := newInventoryFixture()
	svc := f.serverService()
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		if _, err := svc.Create(ctx, newServer(), "alice"); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	for _, os := range []string{"Debian", "Ubuntu", "Alpine"} {
		if _, err := svc.Update(ctx, 7, changelog.Patch{{Field: "os", Value: os}}, "alice"); err != nil {
			t.Fatalf("Update 7: %v", err)
		}
	}
	if _, err := svc.Update(ctx, 8, changelog.Patch{{Field: "os", Value: "BSD"}}, "alice"); err != nil {
		t.Fatalf("Update 8: %v", err)
	}

	rows, err := NewHistoryService(f.history).List(ctx, domain.TargetServer, 7)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var changes []string
	for _, r := range rows {
		if r.Action == domain.ActionUpdated {
			changes = append(changes, r.Changes)
		}
	}
	want := "os: Ubuntu -> Alpine;os: Debian -> Ubuntu;os: Linux -> Debian"
	if strings.Join(changes, ";") != want {
		t.Fatalf("unexpected history for server 7: %v", changes)
	}
	if rows[len(rows)-1].Action != domain.ActionCreated {
		t.Fatalf("expected the created row last, got %s", rows[len(rows)-1].Action)
	}
}

func TestHistoryService_EmptyIsNotNil(t *testing.T) {
	rows, err := NewHistoryService(&memHistory{}).List(context.Background(), domain.TargetDomain, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty slice, got %#v", rows)
	}
}
