package domain

import "slices"

// Role is an operator role. Only the values below are recognised.
type Role string

const (
	RoleSuperAdmin     Role = "Super Admin"
	RoleAdmin2L        Role = "Admin 2L"
	RoleAdmin1L        Role = "Admin 1L"
	RoleServiceManager Role = "Service Manager"
)

// Roles lists every recognised role, most privileged first.
var Roles = []Role{RoleSuperAdmin, RoleAdmin2L, RoleAdmin1L, RoleServiceManager}

// Valid reports whether r is a recognised role.
func (r Role) Valid() bool { return slices.Contains(Roles, r) }

// Permission names one guarded operation.
type Permission string

const (
	PermAuthenticated Permission = "authenticated"

	PermServerCreate Permission = "server:create"
	PermServerUpdate Permission = "server:update"
	PermDomainCreate Permission = "domain:create"
	PermDomainUpdate Permission = "domain:update"
	PermGroupWrite   Permission = "group:write"
	PermProjectWrite Permission = "project:write"
	PermFinanceRead  Permission = "finance:read"
	PermFinanceWrite Permission = "finance:write"
	PermUserManage   Permission = "user:manage"
)

var permissions = map[Permission][]Role{
	PermAuthenticated: Roles,
	PermServerCreate:  {RoleSuperAdmin, RoleAdmin2L},
	PermServerUpdate:  {RoleSuperAdmin, RoleAdmin2L, RoleAdmin1L},
	PermDomainCreate:  {RoleSuperAdmin, RoleAdmin2L},
	PermDomainUpdate:  {RoleSuperAdmin, RoleAdmin2L, RoleAdmin1L},
	PermGroupWrite:    {RoleSuperAdmin, RoleAdmin2L},
	PermProjectWrite:  {RoleSuperAdmin, RoleAdmin2L},
	PermFinanceRead:   {RoleSuperAdmin, RoleServiceManager},
	PermFinanceWrite:  {RoleSuperAdmin, RoleServiceManager},
	PermUserManage:    {RoleSuperAdmin},
}

// Allows reports whether role r is granted p.
func (p Permission) Allows(r Role) bool {
	return slices.Contains(permissions[p], r)
}
