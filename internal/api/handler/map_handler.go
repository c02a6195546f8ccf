package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// MapHandler handles HTTP requests for map-marker synchronization and route
// planning. Map state is kept per authenticated user.
type MapHandler struct {
	service ports.MapViewService
}

func NewMapHandler(service ports.MapViewService) *MapHandler {
	return &MapHandler{service: service}
}

// Sync handles GET /v1/map.
//
// @Summary      Recompute map markers for a filter query
// @Tags         map
// @Produce      json
// @Security     BearerAuth
// @Param        q            query     string  false  "Substring match on name or address"
// @Param        tier         query     string  false  "Exact tier match (basic|premium|custom)"
// @Param        area_min     query     number  false  "Minimum removal area (m²)"
// @Param        area_max     query     number  false  "Maximum removal area (m²)"
// @Param        billing_min  query     number  false  "Minimum billing amount"
// @Param        billing_max  query     number  false  "Maximum billing amount"
// @Success      200          {object}  mapSyncResponse
// @Failure      401          {object}  errorResponse
// @Failure      500          {object}  errorResponse
// @Router       /v1/map [get]
func (h *MapHandler) Sync(c echo.Context) error {
	_, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	query := ports.MapQuery{
		Text: c.QueryParam("q"),
		Tier: domain.ContractTier(c.QueryParam("tier")),
	}
	query.AreaMin = parseFloatParam(c.QueryParam("area_min"))
	query.AreaMax = parseFloatParam(c.QueryParam("area_max"))
	query.BillingMin = parseFloatParam(c.QueryParam("billing_min"))
	query.BillingMax = parseFloatParam(c.QueryParam("billing_max"))

	res, err := h.service.Sync(c.Request().Context(), userID, query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSyncResponse(res))
}

// OpenPopup handles POST /v1/map/popup/:customer_id.
//
// @Summary      Open a marker popup, closing any other
// @Tags         map
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id  path      string  true  "Customer id of the clicked marker"
// @Success      200          {object}  popupResponse
// @Failure      404          {object}  errorResponse
// @Router       /v1/map/popup/{customer_id} [post]
func (h *MapHandler) OpenPopup(c echo.Context) error {
	_, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	res, err := h.service.OpenPopup(c.Request().Context(), userID, c.Param("customer_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, popupResponse{
		Opened:   toMarkerResponse(res.Opened),
		ClosedID: res.ClosedID,
	})
}

// PlanRoute handles POST /v1/map/route.
//
// @Summary      Plan a multi-stop route through selected markers
// @Tags         map
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      planRouteRequest  true  "Ordered customer ids (≥2)"
// @Success      200   {object}  routeResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/map/route [post]
func (h *MapHandler) PlanRoute(c echo.Context) error {
	_, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req planRouteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	route, err := h.service.PlanRoute(c.Request().Context(), userID, req.CustomerIDs)
	if err != nil {
		return err
	}
	if route == nil {
		return echo.NewHTTPError(http.StatusBadGateway, "routing service returned no route")
	}

	return c.JSON(http.StatusOK, toRouteResponse(route))
}

func parseFloatParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
