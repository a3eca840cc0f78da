package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/repository"
)

// ListResources handles GET /vens/{venID}/resources.
func (s *Server) ListResources(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	target, err := queryTargetFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := queryPagination(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	filter := repository.ResourceFilter{
		ResourceName: c.Query("resourceName"),
		Target:       target,
	}

	resources, err := s.services.Resources.List(c.Request.Context(), caller, c.Param("venID"), filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

// GetResource handles GET /vens/{venID}/resources/{id}.
func (s *Server) GetResource(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	resource, err := s.services.Resources.Get(c.Request.Context(), caller, c.Param("venID"), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resource)
}

// CreateResource handles POST /vens/{venID}/resources.
func (s *Server) CreateResource(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.ResourceContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	resource, err := s.services.Resources.Create(c.Request.Context(), caller, c.Param("venID"), content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resource)
}

// UpdateResource handles PUT /vens/{venID}/resources/{id}.
func (s *Server) UpdateResource(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.ResourceContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	resource, err := s.services.Resources.Update(c.Request.Context(), caller, c.Param("venID"), c.Param("id"), content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resource)
}

// DeleteResource handles DELETE /vens/{venID}/resources/{id}.
func (s *Server) DeleteResource(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := s.services.Resources.Delete(c.Request.Context(), caller, c.Param("venID"), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
