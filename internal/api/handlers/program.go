package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

// ListPrograms handles GET /programs.
func (s *Server) ListPrograms(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	filter, err := queryTargetFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := queryPagination(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	programs, err := s.services.Programs.List(c.Request.Context(), caller, filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// GetProgram handles GET /programs/{id}.
func (s *Server) GetProgram(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	program, err := s.services.Programs.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// CreateProgram handles POST /programs.
func (s *Server) CreateProgram(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.ProgramContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	program, err := s.services.Programs.Create(c.Request.Context(), caller, content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// UpdateProgram handles PUT /programs/{id}.
func (s *Server) UpdateProgram(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.ProgramContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	program, err := s.services.Programs.Update(c.Request.Context(), caller, c.Param("id"), content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// DeleteProgram handles DELETE /programs/{id}.
func (s *Server) DeleteProgram(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := s.services.Programs.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
