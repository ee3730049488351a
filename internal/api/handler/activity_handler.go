package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accesshub/accesshub-api/internal/api/middleware"
	"github.com/accesshub/accesshub-api/internal/core/domain"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

type ActivityHandler struct {
	service ports.ActivityService
}

func NewActivityHandler(service ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Mine returns the caller's own activity, newest first.
//
// @Summary      My activity
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int     false  "Maximum entries (default 50)"
// @Param        type   query     string  false  "Filter by activity type"
// @Success      200    {object}  successResponse{data=[]domain.Activity}
// @Failure      401    {object}  errorResponse
// @Router       /activities/me [get]
func (h *ActivityHandler) Mine(c echo.Context) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}

	activities, err := h.service.ListForActor(c.Request().Context(), middleware.IdentityFrom(c).ID(), c.QueryParam("type"), limit)
	if err != nil {
		return err
	}
	return okList(c, activities)
}

// List returns activity across all users.
//
// @Summary      All activity
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        userId  query     string  false  "Filter by actor"
// @Param        type    query     string  false  "Filter by activity type"
// @Param        action  query     string  false  "Filter by action"
// @Param        limit   query     int     false  "Maximum entries (default 100)"
// @Success      200     {object}  successResponse{data=[]ports.ActivityEntry}
// @Failure      403     {object}  errorResponse
// @Router       /activities [get]
func (h *ActivityHandler) List(c echo.Context) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}

	entries, err := h.service.List(c.Request().Context(), ports.ActivityFilter{
		UserID: c.QueryParam("userId"),
		Type:   c.QueryParam("type"),
		Action: c.QueryParam("action"),
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return okList(c, entries)
}

// Stats counts activity by type.
//
// @Summary      Activity statistics
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        userId     query     string  false  "Filter by actor"
// @Param        startDate  query     string  false  "Inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param        endDate    query     string  false  "Inclusive upper bound (RFC3339 or YYYY-MM-DD)"
// @Success      200        {object}  successResponse{data=domain.ActivityStats}
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Router       /activities/stats [get]
func (h *ActivityHandler) Stats(c echo.Context) error {
	from, err := parseDate(c.QueryParam("startDate"), false)
	if err != nil {
		return err
	}
	to, err := parseDate(c.QueryParam("endDate"), true)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), ports.ActivityStatsFilter{
		UserID: c.QueryParam("userId"),
		From:   from,
		To:     to,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, stats)
}

func parseLimit(c echo.Context) (int64, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, domain.Errorf(domain.ErrValidation, "limit must be a positive integer")
	}
	return n, nil
}

// parseDate accepts RFC3339 or a bare date. A bare end date covers the whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, domain.Errorf(domain.ErrValidation, "invalid date %q", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
