// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import (
	"storefront_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router groups.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the public /api/v1 route group used by the storefront.
	V1 *gin.RouterGroup
	// Admin is the /api/v1/admin group. Requests carry a valid access token
	// with the admin role.
	Admin *gin.RouterGroup
	// Config is the JWT configuration for modules adding their own auth.
	Config config.JWTConfig
	// AuthMiddleware is the access-token middleware applied to Admin.
	AuthMiddleware gin.HandlerFunc
}
