package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/repository"
)

// ListEvents handles GET /events.
func (s *Server) ListEvents(c *gin.Context) {
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
	filter := repository.EventFilter{
		ProgramID: c.Query("programID"),
		Target:    target,
	}

	events, err := s.services.Events.List(c.Request.Context(), caller, filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /events/{id}.
func (s *Server) GetEvent(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	event, err := s.services.Events.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent handles POST /events.
func (s *Server) CreateEvent(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.EventContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	event, err := s.services.Events.Create(c.Request.Context(), caller, content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEvent handles PUT /events/{id}.
func (s *Server) UpdateEvent(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.EventContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	event, err := s.services.Events.Update(c.Request.Context(), caller, c.Param("id"), content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{id}.
func (s *Server) DeleteEvent(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := s.services.Events.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
