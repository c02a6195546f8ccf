package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// CustomerHandler handles HTTP requests for customer record operations.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// List handles GET /v1/customers.
//
// @Summary      List customers with field filters and ordering
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        name           query     string  false  "Substring match on name (case-insensitive)"
// @Param        address        query     string  false  "Substring match on address"
// @Param        phone          query     string  false  "Substring match on phone"
// @Param        postal_code    query     string  false  "Substring match on postal code"
// @Param        contract_tier  query     string  false  "Exact tier match (basic|premium|custom)"
// @Param        sort           query     string  false  "Sort key (e.g. name, billing_amount, updated_at)"
// @Param        dir            query     string  false  "Sort direction (asc|desc)"
// @Param        page           query     int     false  "1-based page number"
// @Param        limit          query     int     false  "Page size (max 100)"
// @Success      200            {object}  listCustomersResponse
// @Failure      401            {object}  errorResponse
// @Failure      500            {object}  errorResponse
// @Router       /v1/customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	res, err := h.service.ListCustomers(c.Request().Context(), ports.ListCustomersInput{
		Predicates: ports.Predicates{
			Name:         c.QueryParam("name"),
			Address:      c.QueryParam("address"),
			Phone:        c.QueryParam("phone"),
			PostalCode:   c.QueryParam("postal_code"),
			ContractTier: domain.ContractTier(c.QueryParam("contract_tier")),
		},
		SortKey: ports.SortKey(c.QueryParam("sort")),
		SortDir: ports.SortDirection(c.QueryParam("dir")),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(res))
}

// Get handles GET /v1/customers/:id.
//
// @Summary      Get a customer by id
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer id"
// @Success      200  {object}  customerResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	customer, err := h.service.GetCustomer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Delete handles DELETE /v1/customers/:id. Deletion is permanent; the client
// is expected to have confirmed with the user.
//
// @Summary      Delete a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Customer id"
// @Success      204  "record deleted"
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	_, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteCustomer(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
