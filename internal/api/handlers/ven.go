package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/repository"
)

// ListVens handles GET /vens.
func (s *Server) ListVens(c *gin.Context) {
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
	filter := repository.VenFilter{
		VenName: c.Query("venName"),
		Target:  target,
	}

	vens, err := s.services.Vens.List(c.Request.Context(), caller, filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, vens)
}

// GetVen handles GET /vens/{venID}.
func (s *Server) GetVen(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ven, err := s.services.Vens.Get(c.Request.Context(), caller, c.Param("venID"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ven)
}

// CreateVen handles POST /vens.
func (s *Server) CreateVen(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.VenContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	ven, err := s.services.Vens.Create(c.Request.Context(), caller, content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ven)
}

// UpdateVen handles PUT /vens/{venID}.
func (s *Server) UpdateVen(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.VenContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	ven, err := s.services.Vens.Update(c.Request.Context(), caller, c.Param("venID"), content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ven)
}

// DeleteVen handles DELETE /vens/{venID}.
func (s *Server) DeleteVen(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := s.services.Vens.Delete(c.Request.Context(), caller, c.Param("venID")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
