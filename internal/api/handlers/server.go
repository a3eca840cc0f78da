// Package handlers implements the HTTP surface of the VTN. Handlers parse
// the request, hand it to a service, and serialize the result; every
// authorization decision happens below them.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/api/middleware"
	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/service"
)

// Pinger is the health probe the readiness check runs against storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the handler dependencies.
type Server struct {
	services *service.Services
	issuer   *auth.Issuer
	db       Pinger
}

// ServerDeps holds all dependencies for creating a Server. Manual DI, no
// framework.
type ServerDeps struct {
	Services *service.Services

	// Issuer is nil when an external OAuth provider mints the tokens; the
	// token route is not registered in that case.
	Issuer *auth.Issuer

	// DB is nil in storage-less test setups; the health check then reports
	// ok without probing.
	DB Pinger
}

// NewServer creates a Server with all dependencies.
func NewServer(deps ServerDeps) *Server {
	return &Server{
		services: deps.Services,
		issuer:   deps.Issuer,
		db:       deps.DB,
	}
}

// HasIssuer reports whether the embedded token issuer is configured.
func (s *Server) HasIssuer() bool {
	return s.issuer != nil
}

// callerFrom extracts the resolved caller. The auth middleware always sets
// it on protected routes; absence means a route registration bug, which
// fails closed.
func callerFrom(c *gin.Context) (auth.Caller, error) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		return auth.Caller{}, errors.Unauthenticated("missing")
	}
	return caller, nil
}
