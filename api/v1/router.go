package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/taskboard-api/middleware"
	"github.com/taskboard-api/services"
	"gorm.io/gorm"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, db *gorm.DB, svc *services.Services) {
	// Public endpoints
	NewHealthController(db).RegisterRoutes(router)
	NewAuthController(svc.Auth).RegisterRoutes(router)

	// Resource endpoints - protected by AuthMiddleware
	authRouter := router.Group("")
	authRouter.Use(middleware.AuthMiddleware(svc.Auth))
	NewUserController(svc.Users).RegisterRoutes(authRouter)
	NewProjectController(svc.Projects).RegisterRoutes(authRouter)
	NewTaskController(svc.Tasks).RegisterRoutes(authRouter)
}
