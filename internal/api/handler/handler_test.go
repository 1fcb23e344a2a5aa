package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rackledger/inventory/internal/api/middleware"
	"github.com/rackledger/inventory/internal/core/changelog"
	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
	"github.com/rackledger/inventory/internal/core/service"
)

type stubAuthService struct {
	loginFn   func(ctx context.Context, username, password string) (*ports.AccessToken, error)
	loggedOut ports.TokenClaims
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.AccessToken, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(_ context.Context, claims ports.TokenClaims) error {
	s.loggedOut = claims
	return nil
}

func newContext(method, target, contentType, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.AccessToken, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.AccessToken{Token: "tok", Type: "bearer", ExpiresAt: now.Add(time.Hour)}, nil
		},
	}
	h := NewAuthHandler(stub)
	h.now = func() time.Time { return now }

	c, rec := newContext(http.MethodPost, "/api/token", echo.MIMEApplicationForm, "username=alice&password=secret")
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "tok" || resp.TokenType != "bearer" || resp.ExpiresIn != 3600 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_PropagatesDomainErrors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrAccountDisabled} {
		stub := &stubAuthService{
			loginFn: func(context.Context, string, string) (*ports.AccessToken, error) { return nil, want },
		}
		c, _ := newContext(http.MethodPost, "/api/login", echo.MIMEApplicationJSON, `{"username":"bob","password":"x"}`)
		if err := NewAuthHandler(stub).Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{}
	c, rec := newContext(http.MethodPost, "/api/login", echo.MIMEApplicationJSON, `{"username":`)
	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	stub := &stubAuthService{}
	c, rec := newContext(http.MethodPost, "/api/logout", "", "")
	c.Set(middleware.ClaimsKey, ports.TokenClaims{Subject: "alice", ID: "jti-9"})

	if err := NewAuthHandler(stub).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || stub.loggedOut.ID != "jti-9" {
		t.Fatalf("unexpected logout: %d %+v", rec.Code, stub.loggedOut)
	}
}

// stubProjects records what the handler passes to the service.
type stubProjects struct {
	created *domain.Project
	actor   string
	patch   changelog.Patch
}

func (s *stubProjects) List(context.Context, string) ([]domain.Project, error) { return nil, nil }

func (s *stubProjects) Get(_ context.Context, id uint) (*domain.Project, error) {
	return &domain.Project{ID: id}, nil
}

func (s *stubProjects) Create(_ context.Context, p *domain.Project, actor string) (*domain.Project, error) {
	s.created, s.actor = p, actor
	p.ID = 1
	return p, nil
}

func (s *stubProjects) Update(_ context.Context, id uint, patch changelog.Patch, actor string) (*domain.Project, error) {
	s.patch, s.actor = patch, actor
	return &domain.Project{ID: id}, nil
}

func (s *stubProjects) Fields() *changelog.Schema[domain.Project] { return service.ProjectFields }

func withCaller(c echo.Context) echo.Context {
	c.Set(middleware.UserKey, &domain.User{Username: "alice", Role: domain.RoleSuperAdmin})
	return c
}

func TestResourceHandler_Create(t *testing.T) {
	stub := &stubProjects{}
	h := NewProjectHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/projects", echo.MIMEApplicationJSON, `{"title":"Apollo"}`)
	if err := h.Create(withCaller(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.created.Title != "Apollo" || stub.actor != "alice" {
		t.Fatalf("unexpected create: %+v by %s", stub.created, stub.actor)
	}
}

func TestResourceHandler_Create_RejectsBadPayloads(t *testing.T) {
	for name, body := range map[string]string{
		"unknown field": `{"title":"Apollo","owner":"bob"}`,
		"missing title": `{}`,
		"wrong type":    `{"title":5}`,
		"empty body":    ``,
		"two objects":   `{"title":"a"}{"title":"b"}`,
	} {
		t.Run(name, func(t *testing.T) {
			stub := &stubProjects{}
			c, _ := newContext(http.MethodPost, "/api/projects", echo.MIMEApplicationJSON, body)
			if err := NewProjectHandler(stub).Create(withCaller(c)); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if stub.created != nil {
				t.Fatalf("service should not be called")
			}
		})
	}
}

func TestResourceHandler_Create_RequiresCaller(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/projects", echo.MIMEApplicationJSON, `{"title":"Apollo"}`)
	err := NewProjectHandler(&stubProjects{}).Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestResourceHandler_Update_PassesOrderedPatch(t *testing.T) {
	stub := &stubProjects{}
	c, rec := newContext(http.MethodPut, "/api/projects/3", echo.MIMEApplicationJSON, `{"title":"Gemini"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := NewProjectHandler(stub).Update(withCaller(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.patch) != 1 || stub.patch[0].Field != "title" || stub.patch[0].Value != "Gemini" {
		t.Fatalf("unexpected patch: %+v", stub.patch)
	}
}

func TestFinanceRequest_PaymentDate(t *testing.T) {
	req := &financeRequest{ServerID: 1, Price: 10, AccountStatus: "paid", PaymentDate: "2024-05-01"}
	f, err := req.entity()
	if err != nil {
		t.Fatalf("entity: %v", err)
	}
	if !f.PaymentDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected payment date: %v", f.PaymentDate)
	}

	req.PaymentDate = "first of may"
	if _, err := req.entity(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

type stubHistory struct {
	gotType domain.TargetType
	gotID   uint
}

func (s *stubHistory) List(_ context.Context, t domain.TargetType, id uint) ([]domain.History, error) {
	s.gotType, s.gotID = t, id
	return []domain.History{}, nil
}

func TestHistoryHandler_AcceptsPluralType(t *testing.T) {
	stub := &stubHistory{}
	c, rec := newContext(http.MethodGet, "/api/history/Servers/7", "", "")
	c.SetParamNames("type", "id")
	c.SetParamValues("Servers", "7")

	if err := NewHistoryHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || stub.gotType != domain.TargetServer || stub.gotID != 7 {
		t.Fatalf("unexpected call: %d %s %d", rec.Code, stub.gotType, stub.gotID)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}
