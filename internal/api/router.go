package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/learnx/internal/api/handler"
	"github.com/timmy/learnx/internal/api/middleware"
	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/realtime"
	"github.com/timmy/learnx/internal/service"
	"gorm.io/gorm"
)

// RouterConfig holds everything the router wires into handlers.
type RouterConfig struct {
	Mode       string
	ProjectKey string
	CORS       middleware.CORSConfig

	DB        *gorm.DB
	Functions *service.FunctionService
	Gallery   *service.GalleryService
	Hub       *realtime.Hub
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(cfg *RouterConfig) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// CORS runs before auth so preflights are answered without a key
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler(cfg.DB)
	functionHandler := handler.NewFunctionHandler(cfg.Functions)
	galleryHandler := handler.NewGalleryHandler(cfg.Gallery)
	realtimeHandler := handler.NewRealtimeHandler(cfg.Hub)

	// Health check
	r.GET("/health", healthHandler.Health)

	auth := middleware.ProjectKey(cfg.ProjectKey)

	// Functions
	functions := r.Group("/functions/v1", auth)
	{
		functions.POST("/"+domain.FunctionGenerateImage, functionHandler.GenerateImage)
		functions.POST("/"+domain.FunctionGenerateContent, functionHandler.GenerateContent)
		functions.POST("/"+domain.FunctionAnalyzeSlides, functionHandler.AnalyzeTextForSlides)
		functions.POST("/"+domain.FunctionExplainImage, functionHandler.ExplainImage)
		functions.POST("/"+domain.FunctionSpeechToText, functionHandler.SpeechToText)
	}

	// Table rows
	rest := r.Group("/rest/v1", auth)
	{
		rest.GET("/"+domain.GeneratedImagesTable, galleryHandler.List)
		rest.POST("/"+domain.GeneratedImagesTable, galleryHandler.Insert)
		rest.DELETE("/"+domain.GeneratedImagesTable+"/:id", galleryHandler.Delete)
	}

	// Change feed
	r.GET("/realtime/v1/:table", auth, realtimeHandler.Subscribe)

	return r
}
