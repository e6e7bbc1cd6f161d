package routes

import (
	"astegni_backend/internal/controllers"
	"astegni_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.GET("/accounts", controllers.ListAccounts)
	}
}
