package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

type stubCustomerService struct {
	listFn   func(ctx context.Context, input ports.ListCustomersInput) (*ports.ListCustomersResult, error)
	getFn    func(ctx context.Context, id string) (*domain.Customer, error)
	deleteFn func(ctx context.Context, id, callerID string) error
}

func (s *stubCustomerService) CreateCustomer(context.Context, ports.CustomerInput) (*domain.Customer, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCustomerService) ReplaceCustomer(context.Context, string, ports.CustomerInput, string) (*domain.Customer, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.getFn(ctx, id)
}

func (s *stubCustomerService) ListCustomers(ctx context.Context, input ports.ListCustomersInput) (*ports.ListCustomersResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubCustomerService) DeleteCustomer(ctx context.Context, id, callerID string) error {
	return s.deleteFn(ctx, id, callerID)
}

func TestCustomerHandler_List_MapsQueryParams(t *testing.T) {
	e := echo.New()

	var got ports.ListCustomersInput
	stub := &stubCustomerService{
		listFn: func(_ context.Context, input ports.ListCustomersInput) (*ports.ListCustomersResult, error) {
			got = input
			return &ports.ListCustomersResult{Items: []domain.Customer{}, Page: input.Page, Limit: input.Limit}, nil
		},
	}
	h := NewCustomerHandler(stub)

	target := "/v1/customers?name=tanaka&contract_tier=premium&sort=billing_amount&dir=desc&page=2&limit=25"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if got.Predicates.Name != "tanaka" || got.Predicates.ContractTier != domain.TierPremium {
		t.Fatalf("predicates not mapped: %+v", got.Predicates)
	}
	if got.SortKey != ports.SortByBillingAmount || got.SortDir != ports.SortDesc {
		t.Fatalf("sort not mapped: %s %s", got.SortKey, got.SortDir)
	}
	if got.Page != 2 || got.Limit != 25 {
		t.Fatalf("pagination not mapped: %d/%d", got.Page, got.Limit)
	}
}

func TestCustomerHandler_Get_NotFound(t *testing.T) {
	e := echo.New()
	stub := &stubCustomerService{
		getFn: func(context.Context, string) (*domain.Customer, error) {
			return nil, domain.ErrCustomerNotFound
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/customers/missing", nil)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Get(c); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerHandler_Get_OmitsAbsentCoordinates(t *testing.T) {
	e := echo.New()
	stub := &stubCustomerService{
		getFn: func(_ context.Context, id string) (*domain.Customer, error) {
			return &domain.Customer{ID: id, Name: "Tanaka", ContractTier: domain.TierBasic}, nil
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/customers/cust-1", nil)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("cust-1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, present := resp["coordinates"]; present {
		t.Fatalf("coordinates must be omitted when absent: %+v", resp)
	}
}

func TestCustomerHandler_Delete_PassesCallerID(t *testing.T) {
	e := echo.New()
	var gotID, gotCaller string
	stub := &stubCustomerService{
		deleteFn: func(_ context.Context, id, callerID string) error {
			gotID, gotCaller = id, callerID
			return nil
		},
	}
	h := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/v1/customers/cust-1", nil)
	rec := httptest.NewRecorder()
	c := newAuthedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("cust-1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotID != "cust-1" || gotCaller != "user-1" {
		t.Fatalf("delete not delegated with caller: %q %q", gotID, gotCaller)
	}
}
