package service

import (
	"time"

	cl "github.com/rackledger/inventory/internal/core/changelog"
	"github.com/rackledger/inventory/internal/core/domain"
)

// ServerFields is the set of server attributes an update may change.
var ServerFields = cl.NewSchema(
	cl.String("os", func(s *domain.Server) *string { return &s.OS }, cl.Rules("required")),
	cl.String("ip", func(s *domain.Server) *string { return &s.IP }, cl.Rules("required,ip")),
	cl.String("additional_ip", func(s *domain.Server) *string { return &s.AdditionalIP }),
	cl.String("comments", func(s *domain.Server) *string { return &s.Comments }),
	cl.String("hoster", func(s *domain.Server) *string { return &s.Hoster }, cl.Rules("required")),
	cl.String("status", func(s *domain.Server) *string { return &s.Status }, cl.Rules("required")),
	cl.Ref("group_id", func(s *domain.Server) **uint { return &s.GroupID }),
	cl.Ref("project_id", func(s *domain.Server) **uint { return &s.ProjectID }),
	cl.String("country", func(s *domain.Server) *string { return &s.Country }, cl.Rules("required")),
	cl.String("ssh_user", func(s *domain.Server) *string { return &s.SSHUser }),
	cl.String("ssh_pass", func(s *domain.Server) *string { return &s.SSHPass }, cl.Masked()),
	cl.Int("ssh_port", func(s *domain.Server) *int { return &s.SSHPort }, cl.Rules("gte=1,lte=65535")),
	cl.String("cont_pass", func(s *domain.Server) *string { return &s.ContPass }, cl.Masked()),
)

var DomainFields = cl.NewSchema(
	cl.String("name", func(d *domain.Domain) *string { return &d.Name }, cl.Rules("required,fqdn")),
	cl.Ref("group_id", func(d *domain.Domain) **uint { return &d.GroupID }),
	cl.String("status", func(d *domain.Domain) *string { return &d.Status }, cl.Rules("required")),
	cl.String("ns", func(d *domain.Domain) *string { return &d.NS }),
	cl.String("a_record", func(d *domain.Domain) *string { return &d.ARecord }),
	cl.String("aaaa_record", func(d *domain.Domain) *string { return &d.AAAARecord }),
)

var ProjectFields = cl.NewSchema(
	cl.String("title", func(p *domain.Project) *string { return &p.Title }, cl.Rules("required")),
)

var GroupFields = cl.NewSchema(
	cl.String("title", func(g *domain.Group) *string { return &g.Title }, cl.Rules("required")),
	cl.Ref("project_id", func(g *domain.Group) **uint { return &g.ProjectID }),
	cl.String("status", func(g *domain.Group) *string { return &g.Status }, cl.Rules("required")),
	cl.String("description", func(g *domain.Group) *string { return &g.Description }),
)

var FinanceFields = cl.NewSchema(
	cl.ID("server_id", func(f *domain.Finance) *uint { return &f.ServerID }),
	cl.Float("price", func(f *domain.Finance) *float64 { return &f.Price }, cl.Rules("gte=0")),
	cl.String("account_status", func(f *domain.Finance) *string { return &f.AccountStatus }, cl.Rules("required")),
	cl.Time("payment_date", func(f *domain.Finance) *time.Time { return &f.PaymentDate }, cl.Rules("required")),
)

// UserFields is used by user management; the password is hashed on write.
var UserFields = cl.NewSchema(
	cl.String("username", func(u *domain.User) *string { return &u.Username }, cl.Rules("required,min=3,max=64")),
	cl.String("email", func(u *domain.User) *string { return &u.Email }, cl.Rules("required,email")),
	cl.String("role", func(u *domain.User) *domain.Role { return &u.Role }, cl.Rules("required,role")),
	cl.String("status", func(u *domain.User) *string { return &u.Status }, cl.Rules("required")),
	cl.String("number", func(u *domain.User) *string { return &u.Number }),
	passwordField(),
)

// SettingsFields is the subset a caller may change on their own account.
var SettingsFields = cl.NewSchema(
	cl.String("email", func(u *domain.User) *string { return &u.Email }, cl.Rules("required,email")),
	cl.String("number", func(u *domain.User) *string { return &u.Number }),
	passwordField(),
)

func passwordField() cl.Field[domain.User] {
	return cl.Secret("password", func(u *domain.User) *string { return &u.PasswordHash },
		hashPassword, checkPassword,
		cl.Column("hashed_password"), cl.Rules("min=6,max=72"))
}
