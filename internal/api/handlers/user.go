package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

// ListUsers handles GET /users.
func (s *Server) ListUsers(c *gin.Context) {
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
	users, err := s.services.Users.List(c.Request.Context(), caller, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/{id}.
func (s *Server) GetUser(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	user, err := s.services.Users.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /users.
func (s *Server) CreateUser(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.UserContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	user, err := s.services.Users.Create(c.Request.Context(), caller, content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /users/{id}.
func (s *Server) UpdateUser(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var content domain.UserContent
	if err := c.ShouldBindJSON(&content); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	user, err := s.services.Users.Update(c.Request.Context(), caller, c.Param("id"), content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/{id}.
func (s *Server) DeleteUser(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := s.services.Users.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddUserCredential handles POST /users/{id}/credentials.
func (s *Server) AddUserCredential(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req domain.CredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.InvalidRequest("malformed request body"))
		return
	}
	user, err := s.services.Users.AddCredential(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// DeleteUserCredential handles DELETE /users/{id}/credentials/{clientID}.
func (s *Server) DeleteUserCredential(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := s.services.Users.DeleteCredential(c.Request.Context(), caller, c.Param("id"), c.Param("clientID")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
