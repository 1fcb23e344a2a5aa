package handler

import (
	"github.com/rackledger/inventory/internal/core/domain"
)

func NewServerHandler(s ResourceService[domain.Server]) *ResourceHandler[domain.Server] {
	return newResourceHandler[domain.Server, serverRequest](s)
}

func NewDomainHandler(s ResourceService[domain.Domain]) *ResourceHandler[domain.Domain] {
	return newResourceHandler[domain.Domain, domainRequest](s)
}

func NewProjectHandler(s ResourceService[domain.Project]) *ResourceHandler[domain.Project] {
	return newResourceHandler[domain.Project, projectRequest](s)
}

func NewGroupHandler(s ResourceService[domain.Group]) *ResourceHandler[domain.Group] {
	return newResourceHandler[domain.Group, groupRequest](s)
}

func NewFinanceHandler(s ResourceService[domain.Finance]) *ResourceHandler[domain.Finance] {
	return newResourceHandler[domain.Finance, financeRequest](s)
}

func NewUserHandler(s ResourceService[domain.User]) *ResourceHandler[domain.User] {
	return newResourceHandler[domain.User, userRequest](s)
}
