package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"astegni_backend/internal/config"
	"astegni_backend/internal/logger"
	"astegni_backend/internal/middleware"
	"astegni_backend/internal/roles"
	"astegni_backend/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Setup Gin router (recovery + request logging registered inside)
	r := routes.SetupRouter()

	// Background sweep of profiles past their deletion deadline
	reaper := roles.NewReaper(config.DB, time.Hour)
	go reaper.Run(context.Background())

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
