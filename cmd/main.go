package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/epitomehq/callsheet-backend/internal/cache"
	"github.com/epitomehq/callsheet-backend/internal/db"
	"github.com/epitomehq/callsheet-backend/internal/enrichment"
	"github.com/epitomehq/callsheet-backend/internal/extraction"
	"github.com/epitomehq/callsheet-backend/internal/handlers"
	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/repos"
	"github.com/epitomehq/callsheet-backend/internal/server"
	"github.com/epitomehq/callsheet-backend/internal/services"
	"github.com/epitomehq/callsheet-backend/internal/sse"
	"github.com/epitomehq/callsheet-backend/internal/utils"
	"github.com/epitomehq/callsheet-backend/internal/workbook"
)

func main() {
	// Env file first so everything below sees it
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	orgRepo := repos.NewOrganizationRepo(thePG, log)
	clientRepo := repos.NewClientRepo(thePG, log)
	projectRepo := repos.NewProjectRepo(thePG, log)
	locationRepo := repos.NewLocationRepo(thePG, log)
	callSheetRepo := repos.NewCallSheetRepo(thePG, log)
	crewMemberRepo := repos.NewCrewMemberRepo(thePG, log)
	projectCrewRepo := repos.NewProjectCrewRepo(thePG, log)
	rsvpRepo := repos.NewCallSheetRsvpRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)

	// Enrichment cache: Redis when configured, in-process otherwise
	cacheStore := cache.NewFromEnv(log)

	// Services
	log.Info("Setting up Services from main...")
	geminiClient, err := services.NewGeminiClient(log)
	if err != nil {
		log.Error("Could not init GeminiClient", "error", err)
		os.Exit(1)
	}
	enrichClient := enrichment.NewClient(log, cacheStore)
	enricher := enrichment.NewOrchestrator(log, enrichClient)
	extractor := extraction.NewExtractor(log, geminiClient)
	workbookGen := workbook.NewGenerator(log)

	projectService := services.NewProjectService(log, services.ProjectServiceDeps{
		DB:            thePG,
		Geocoder:      enrichClient,
		OrgRepo:       orgRepo,
		ClientRepo:    clientRepo,
		ProjectRepo:   projectRepo,
		LocationRepo:  locationRepo,
		CallSheetRepo: callSheetRepo,
		CrewRepo:      crewMemberRepo,
		ProjCrewRepo:  projectCrewRepo,
		RsvpRepo:      rsvpRepo,
	})
	generationService, err := services.NewGenerationService(log, sseHub, extractor, enricher, workbookGen, projectService)
	if err != nil {
		log.Error("Could not init GenerationService", "error", err)
		os.Exit(1)
	}
	chatService := services.NewChatService(log, geminiClient, projectService)

	// Handlers
	log.Info("Setting up handlers from main...")
	generationHandler := handlers.NewGenerationHandler(log, generationService, sseHub)
	projectHandler := handlers.NewProjectHandler(log, projectService, chatService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		GenerationHandler: generationHandler,
		ProjectHandler:    projectHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
