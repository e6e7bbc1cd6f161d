package routes

import (
	"astegni_backend/internal/controllers"
	"astegni_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdvertiserRoutes(r *gin.Engine) {
	advertiser := r.Group("/api/advertiser")
	advertiser.Use(middleware.RequireAuthWithRole("advertiser"))
	{
		advertiser.POST("/campaigns", controllers.CreateCampaign)
		advertiser.GET("/campaigns", controllers.ListCampaigns)
	}
}
