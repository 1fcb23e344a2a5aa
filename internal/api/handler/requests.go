package handler

import (
	"fmt"

	"github.com/rackledger/inventory/internal/core/changelog"
	"github.com/rackledger/inventory/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Create request types ---

type serverRequest struct {
	OS           string `json:"os"            validate:"required"`
	IP           string `json:"ip"            validate:"required,ip"`
	AdditionalIP string `json:"additional_ip"`
	Comments     string `json:"comments"`
	Hoster       string `json:"hoster"        validate:"required"`
	Status       string `json:"status"        validate:"required"`
	GroupID      *uint  `json:"group_id"      validate:"omitempty,gt=0"`
	ProjectID    *uint  `json:"project_id"    validate:"omitempty,gt=0"`
	Country      string `json:"country"       validate:"required"`
	SSHUser      string `json:"ssh_user"`
	SSHPass      string `json:"ssh_pass"`
	SSHPort      int    `json:"ssh_port"      validate:"omitempty,gte=1,lte=65535"`
	ContPass     string `json:"cont_pass"`
}

func (r *serverRequest) entity() (*domain.Server, error) {
	return &domain.Server{
		OS:           r.OS,
		IP:           r.IP,
		AdditionalIP: r.AdditionalIP,
		Comments:     r.Comments,
		Hoster:       r.Hoster,
		Status:       r.Status,
		GroupID:      r.GroupID,
		ProjectID:    r.ProjectID,
		Country:      r.Country,
		SSHUser:      r.SSHUser,
		SSHPass:      r.SSHPass,
		SSHPort:      r.SSHPort,
		ContPass:     r.ContPass,
	}, nil
}

type domainRequest struct {
	Name       string `json:"name"        validate:"required,fqdn"`
	GroupID    *uint  `json:"group_id"    validate:"omitempty,gt=0"`
	Status     string `json:"status"      validate:"required"`
	NS         string `json:"ns"`
	ARecord    string `json:"a_record"`
	AAAARecord string `json:"aaaa_record"`
}

func (r *domainRequest) entity() (*domain.Domain, error) {
	return &domain.Domain{
		Name:       r.Name,
		GroupID:    r.GroupID,
		Status:     r.Status,
		NS:         r.NS,
		ARecord:    r.ARecord,
		AAAARecord: r.AAAARecord,
	}, nil
}

type projectRequest struct {
	Title string `json:"title" validate:"required"`
}

func (r *projectRequest) entity() (*domain.Project, error) {
	return &domain.Project{Title: r.Title}, nil
}

type groupRequest struct {
	Title       string `json:"title"       validate:"required"`
	ProjectID   *uint  `json:"project_id"  validate:"omitempty,gt=0"`
	Status      string `json:"status"      validate:"required"`
	Description string `json:"description"`
}

func (r *groupRequest) entity() (*domain.Group, error) {
	return &domain.Group{
		Title:       r.Title,
		ProjectID:   r.ProjectID,
		Status:      r.Status,
		Description: r.Description,
	}, nil
}

type financeRequest struct {
	ServerID      uint    `json:"server_id"      validate:"required"`
	Price         float64 `json:"price"          validate:"gte=0"`
	AccountStatus string  `json:"account_status" validate:"required"`
	// PaymentDate is an RFC 3339 timestamp or a YYYY-MM-DD date.
	PaymentDate string `json:"payment_date" validate:"required"`
}

func (r *financeRequest) entity() (*domain.Finance, error) {
	paid, err := changelog.ParseTime(r.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: payment_date %v", domain.ErrValidation, err)
	}
	return &domain.Finance{
		ServerID:      r.ServerID,
		Price:         r.Price,
		AccountStatus: r.AccountStatus,
		PaymentDate:   paid,
	}, nil
}

type userRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"     validate:"required,role"`
	Status   string `json:"status"`
	Number   string `json:"number"`
}

func (r *userRequest) entity() (*domain.User, error) {
	status := r.Status
	if status == "" {
		status = domain.StatusActive
	}
	return &domain.User{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Role:     domain.Role(r.Role),
		Status:   status,
		Number:   r.Number,
	}, nil
}

// --- Auth types ---

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
