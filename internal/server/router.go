package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/epitomehq/callsheet-backend/internal/handlers"
)

type RouterConfig struct {
	GenerationHandler *handlers.GenerationHandler
	ProjectHandler    *handlers.ProjectHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Generation pipeline
		api.POST("/generate", cfg.GenerationHandler.Generate)
		api.GET("/progress/:jobID", cfg.GenerationHandler.Progress)
		api.GET("/result/:jobID", cfg.GenerationHandler.Result)
		api.GET("/download/:filename", cfg.GenerationHandler.Download)

		// Projects
		api.GET("/projects/:id", cfg.ProjectHandler.GetProject)
		api.POST("/projects/:id/chat", cfg.ProjectHandler.Chat)
	}

	return router
}
