package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/repository"
)

// ListReports handles GET /reports.
func (s *Server) ListReports(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := queryPagination(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	filter := repository.ReportFilter{
		ProgramID:  c.Query("programID"),
		EventID:    c.Query("eventID"),
		ClientName: c.Query("clientName"),
	}

	reports, err := s.services.Reports.List(c.Request.Context(), caller, filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetReport handles GET /reports/{id}.
func (s *Server) GetReport(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	report, err := s.services.Reports.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CreateReport handles POST /reports.
func (s *Server) CreateReport(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.ReportContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	report, err := s.services.Reports.Create(c.Request.Context(), caller, content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// UpdateReport handles PUT /reports/{id}.
func (s *Server) UpdateReport(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.ReportContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	report, err := s.services.Reports.Update(c.Request.Context(), caller, c.Param("id"), content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DeleteReport handles DELETE /reports/{id}.
func (s *Server) DeleteReport(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := s.services.Reports.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
