package routes

import (
	"astegni_backend/internal/controllers"
	"astegni_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// AccountRoutes covers everything an authenticated account does with
// its own identity: inspecting it, switching roles, and the role
// lifecycle.
func AccountRoutes(r *gin.Engine) {
	account := r.Group("/api")
	account.Use(middleware.RequireAuth())
	{
		account.GET("/me", controllers.Me)
		account.POST("/switch-role", controllers.SwitchRole)
		account.POST("/roles", controllers.AddRole)
		account.DELETE("/roles/:role", controllers.DeactivateRole)
		account.POST("/roles/:role/reactivate", controllers.ReactivateRole)
		account.POST("/connections", controllers.CreateConnection)
		account.GET("/connections", controllers.ListConnections)
		account.POST("/sessions", controllers.CreateSession)
		account.GET("/sessions", controllers.ListSessions)
	}
}
