package http

import (
	"github.com/gin-gonic/gin"

	"advisormatch_backend/platform/config"
	"advisormatch_backend/platform/httpkit"
)

// Module is a bounded context that mounts its own routes. The router never
// learns individual endpoints; each module keeps its surface to itself.
type Module interface {
	// Name identifies the module in logs.
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext bundles the shared groups and middleware a module needs
// when registering routes.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is the /api/v1 group.
	V1 *gin.RouterGroup
	// Public is the unauthenticated group for consumer intake.
	Public *gin.RouterGroup
	// Protected requires a valid access token.
	Protected *gin.RouterGroup
	// Admin additionally requires the admin role.
	Admin *gin.RouterGroup
	// Config is the JWT slice of configuration for auth middleware.
	Config config.JWTConfig
	// AuthMiddleware authenticates requests on Protected and Admin.
	AuthMiddleware gin.HandlerFunc
	// IntakeRateLimiter throttles the public intake and login endpoints.
	IntakeRateLimiter *httpkit.IntakeRateLimiter
}
