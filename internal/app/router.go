package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/api/handlers"
	"github.com/openleadr/openleadr-go/internal/api/middleware"
	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/config"
)

// NewRouter builds the gin engine. Only the token endpoint and the health
// probe are reachable without a bearer token.
func NewRouter(cfg *config.Config, server *handlers.Server, verifier *auth.Verifier, resolver *auth.Resolver) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		corsMiddleware(),
		middleware.ErrorHandler(),
	)

	router.GET("/health", server.Health)
	if server.HasIssuer() {
		router.POST("/auth/token", server.Token)
	}

	api := router.Group("/")
	api.Use(
		middleware.Timeout(cfg.HTTP.RequestTimeout),
		middleware.Authenticate(verifier, resolver),
	)
	registerRoutes(api, server)
	return router
}

func registerRoutes(api *gin.RouterGroup, server *handlers.Server) {
	api.GET("/programs", server.ListPrograms)
	api.POST("/programs", server.CreateProgram)
	api.GET("/programs/:id", server.GetProgram)
	api.PUT("/programs/:id", server.UpdateProgram)
	api.DELETE("/programs/:id", server.DeleteProgram)

	api.GET("/events", server.ListEvents)
	api.POST("/events", server.CreateEvent)
	api.GET("/events/:id", server.GetEvent)
	api.PUT("/events/:id", server.UpdateEvent)
	api.DELETE("/events/:id", server.DeleteEvent)

	api.GET("/reports", server.ListReports)
	api.POST("/reports", server.CreateReport)
	api.GET("/reports/:id", server.GetReport)
	api.PUT("/reports/:id", server.UpdateReport)
	api.DELETE("/reports/:id", server.DeleteReport)

	api.GET("/vens", server.ListVens)
	api.POST("/vens", server.CreateVen)
	api.GET("/vens/:venID", server.GetVen)
	api.PUT("/vens/:venID", server.UpdateVen)
	api.DELETE("/vens/:venID", server.DeleteVen)

	api.GET("/vens/:venID/resources", server.ListResources)
	api.POST("/vens/:venID/resources", server.CreateResource)
	api.GET("/vens/:venID/resources/:id", server.GetResource)
	api.PUT("/vens/:venID/resources/:id", server.UpdateResource)
	api.DELETE("/vens/:venID/resources/:id", server.DeleteResource)

	api.GET("/users", server.ListUsers)
	api.POST("/users", server.CreateUser)
	api.GET("/users/:id", server.GetUser)
	api.PUT("/users/:id", server.UpdateUser)
	api.DELETE("/users/:id", server.DeleteUser)
	api.POST("/users/:id/credentials", server.AddUserCredential)
	api.DELETE("/users/:id/credentials/:clientID", server.DeleteUserCredential)
}

func corsMiddleware() gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{
		"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader,
	}
	return cors.New(corsCfg)
}
