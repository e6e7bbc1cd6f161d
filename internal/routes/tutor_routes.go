package routes

import (
	"astegni_backend/internal/controllers"
	"astegni_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TutorRoutes(r *gin.Engine) {
	// Public discovery
	r.GET("/api/tutors", controllers.ListTutors)
	r.GET("/api/tutors/:id", controllers.GetTutor)

	tutor := r.Group("/api/tutor")
	tutor.Use(middleware.RequireAuthWithRole("tutor"))
	{
		tutor.PUT("/profile", controllers.UpdateTutorProfile)
	}
}
