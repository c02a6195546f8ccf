package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// DraftHandler handles HTTP requests for the form-draft workflow. Every
// record create and edit flows through a draft.
type DraftHandler struct {
	service ports.DraftService
}

func NewDraftHandler(service ports.DraftService) *DraftHandler {
	return &DraftHandler{service: service}
}

// Start handles POST /v1/drafts.
//
// @Summary      Open a draft, blank or from an existing customer
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      startDraftRequest  true  "Draft options"
// @Success      201   {object}  draftResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/drafts [post]
func (h *DraftHandler) Start(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	var req startDraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.service.StartDraft(c.Request().Context(), req.CustomerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toDraftResponse(view))
}

// Update handles PATCH /v1/drafts/:id. A postal code reaching seven digits
// resolves the address; a long enough address edit refreshes coordinates in
// the background.
//
// @Summary      Apply a sparse field update to a draft
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Draft id"
// @Param        body  body      updateDraftRequest  true  "Fields to update"
// @Success      200   {object}  draftResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/drafts/{id} [patch]
func (h *DraftHandler) Update(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	var req updateDraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.UpdateDraft(c.Request().Context(), c.Param("id"), toDraftPatch(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toDraftResponse(view))
}

// Submit handles POST /v1/drafts/:id/submit.
//
// @Summary      Commit a draft to the record store
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Draft id"
// @Success      200  {object}  customerResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c echo.Context) error {
	_, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	customer, err := h.service.SubmitDraft(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Cancel handles DELETE /v1/drafts/:id.
//
// @Summary      Abandon a draft
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Draft id"
// @Success      204  "draft discarded"
// @Failure      404  {object}  errorResponse
// @Router       /v1/drafts/{id} [delete]
func (h *DraftHandler) Cancel(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	if err := h.service.CancelDraft(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
