package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesshub/accesshub-api/internal/api/metrics"
	"github.com/accesshub/accesshub-api/internal/api/middleware"
	"github.com/accesshub/accesshub-api/internal/core/ports"
)

type ResourceHandler struct {
	service ports.ResourceService
}

func NewResourceHandler(service ports.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

// List returns the active resources the caller can access. Anonymous callers
// only see public resources.
//
// @Summary      List resources
// @Tags         resources
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Param        type      query     string  false  "Filter by file type"
// @Param        tag       query     string  false  "Filter by tag"
// @Param        search    query     string  false  "Case-insensitive match on name or description"
// @Success      200       {object}  successResponse{data=[]domain.Resource}
// @Failure      400       {object}  errorResponse
// @Router       /resources [get]
func (h *ResourceHandler) List(c echo.Context) error {
	resources, err := h.service.List(c.Request().Context(), middleware.IdentityFrom(c), ports.ResourceFilter{
		Category: c.QueryParam("category"),
		Type:     c.QueryParam("type"),
		Tag:      c.QueryParam("tag"),
		Search:   c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return okList(c, resources)
}

// Get returns one resource and counts the view.
//
// @Summary      Get resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resource ID"
// @Success      200  {object}  successResponse{data=domain.Resource}
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /resources/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	resource, err := h.service.View(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), c.RealIP())
	if err != nil {
		return err
	}
	metrics.ResourceAccessTotal.WithLabelValues("view").Inc()
	return ok(c, http.StatusOK, resource)
}

// Download returns the link to fetch the resource file and counts the download.
//
// @Summary      Download resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resource ID"
// @Success      200  {object}  successResponse{data=downloadResponse}
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /resources/{id}/download [get]
func (h *ResourceHandler) Download(c echo.Context) error {
	link, err := h.service.Download(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), c.RealIP())
	if err != nil {
		return err
	}
	metrics.ResourceAccessTotal.WithLabelValues("download").Inc()
	return ok(c, http.StatusOK, downloadResponse{URL: link})
}

// Create registers a new resource.
//
// @Summary      Create resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createResourceRequest  true  "Resource"
// @Success      201   {object}  successResponse{data=domain.Resource}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /resources [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	var req createResourceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resource, err := h.service.Create(c.Request().Context(), middleware.IdentityFrom(c), ports.CreateResourceInput{
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		Category:     req.Category,
		Size:         req.Size,
		URL:          req.URL,
		FileName:     req.FileName,
		ObjectKey:    req.ObjectKey,
		AccessLevel:  req.AccessLevel,
		AllowedUsers: req.AllowedUsers,
		Version:      req.Version,
		Tags:         req.Tags,
		IPAddress:    c.RealIP(),
	})
	if err != nil {
		return err
	}
	metrics.ResourceAccessTotal.WithLabelValues("create").Inc()
	return okMessage(c, http.StatusCreated, "Resource created successfully", resource)
}

// Delete marks a resource as deleted.
//
// @Summary      Delete resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resource ID"
// @Success      200  {object}  successResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /resources/{id} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), c.RealIP()); err != nil {
		return err
	}
	metrics.ResourceAccessTotal.WithLabelValues("delete").Inc()
	return okMessage(c, http.StatusOK, "Resource deleted successfully", nil)
}
