package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aranyat/reviews-api/pkg/config"
)

// Storefront themes call this API from any origin.
var (
	allowedMethods = []string{"POST", "OPTIONS"}
	allowedHeaders = []string{"Content-Type"}
)

// NewEngine builds the gin engine with middleware and routes.
func NewEngine(cfg *config.Config, h *Handler) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger())
	router.Use(Preflight())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              allowedMethods,
		AllowHeaders:              allowedHeaders,
		OptionsResponseStatusCode: 200,
	}))

	InitializeRoutes(router, h)
	return router
}

func InitializeRoutes(router *gin.Engine, h *Handler) {
	router.GET("/health", h.HealthCheck)

	reviews := router.Group("/reviews")
	{
		reviews.POST("", h.SubmitReview)
		reviews.GET("/:productId", h.ListReviews)
	}
}
