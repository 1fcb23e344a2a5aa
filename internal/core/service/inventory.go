package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

func NewServerService(repo ports.Repository[domain.Server], groups ports.Repository[domain.Group], projects ports.Repository[domain.Project], tracker *ChangeTracker, log zerolog.Logger) *Resource[domain.Server] {
	return NewResource(repo, tracker, ResourceConfig[domain.Server]{
		Kind:    domain.TargetServer,
		Fields:  ServerFields,
		ID:      func(s *domain.Server) uint { return s.ID },
		Summary: func(s *domain.Server) string { return "IP: " + s.IP },
		Prepare: func(_ context.Context, s *domain.Server) error {
			if s.SSHUser == "" {
				s.SSHUser = "root"
			}
			if s.SSHPort == 0 {
				s.SSHPort = 22
			}
			return nil
		},
		Check: func(ctx context.Context, s *domain.Server) error {
			if err := requireRef(ctx, groups, "group_id", s.GroupID); err != nil {
				return err
			}
			return requireRef(ctx, projects, "project_id", s.ProjectID)
		},
	}, log)
}

func NewDomainService(repo ports.Repository[domain.Domain], groups ports.Repository[domain.Group], tracker *ChangeTracker, log zerolog.Logger) *Resource[domain.Domain] {
	return NewResource(repo, tracker, ResourceConfig[domain.Domain]{
		Kind:    domain.TargetDomain,
		Fields:  DomainFields,
		ID:      func(d *domain.Domain) uint { return d.ID },
		Summary: func(d *domain.Domain) string { return "Name: " + d.Name },
		Check: func(ctx context.Context, d *domain.Domain) error {
			return requireRef(ctx, groups, "group_id", d.GroupID)
		},
	}, log)
}

func NewProjectService(repo ports.Repository[domain.Project], tracker *ChangeTracker, log zerolog.Logger) *Resource[domain.Project] {
	return NewResource(repo, tracker, ResourceConfig[domain.Project]{
		Kind:    domain.TargetProject,
		Fields:  ProjectFields,
		ID:      func(p *domain.Project) uint { return p.ID },
		Summary: func(p *domain.Project) string { return "Title: " + p.Title },
	}, log)
}

func NewGroupService(repo ports.Repository[domain.Group], projects ports.Repository[domain.Project], tracker *ChangeTracker, log zerolog.Logger) *Resource[domain.Group] {
	return NewResource(repo, tracker, ResourceConfig[domain.Group]{
		Kind:    domain.TargetGroup,
		Fields:  GroupFields,
		ID:      func(g *domain.Group) uint { return g.ID },
		Summary: func(g *domain.Group) string { return "Title: " + g.Title },
		Check: func(ctx context.Context, g *domain.Group) error {
			return requireRef(ctx, projects, "project_id", g.ProjectID)
		},
	}, log)
}

func NewFinanceService(repo ports.Repository[domain.Finance], servers ports.Repository[domain.Server], tracker *ChangeTracker, log zerolog.Logger) *Resource[domain.Finance] {
	return NewResource(repo, tracker, ResourceConfig[domain.Finance]{
		Kind:   domain.TargetFinance,
		Fields: FinanceFields,
		ID:     func(f *domain.Finance) uint { return f.ID },
		Summary: func(f *domain.Finance) string {
			return fmt.Sprintf("Server: %d, Price: %s", f.ServerID, strconv.FormatFloat(f.Price, 'f', -1, 64))
		},
		Check: func(ctx context.Context, f *domain.Finance) error {
			if f.ServerID == 0 {
				return fmt.Errorf("%w: server_id is required", domain.ErrValidation)
			}
			return requireRef(ctx, servers, "server_id", &f.ServerID)
		},
	}, log)
}
