package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"product-catalog-api/internal/middleware"
	"product-catalog-api/pkg/lambda"
	"product-catalog-api/pkg/server"
)

// SetupRoutes configures the local HTTP surface. Every route runs through the
// same request pipeline as the Lambda entrypoints.
func SetupRoutes(router *gin.Engine, container *server.Container) {
	pipeline := lambda.StandardPipeline(container.Pool, container.Logger, container.Metrics)

	productHandler := NewProductHandler(container.ProductService)
	priceHandler := NewPriceHandler(container.ProductService)
	configHandler := NewConfigHandler(container.ConfigRepo)

	product := lambda.Chain(productHandler.HandleRequest, pipeline...)
	price := lambda.Chain(priceHandler.HandleGetPrice, pipeline...)

	// Config lookups never touch the relational store, so their chain skips
	// the session stage.
	userConfig := lambda.Chain(
		configHandler.HandleGetConfig,
		lambda.WithRecovery(container.Logger),
		lambda.WithObservability(container.Logger, container.Metrics),
		lambda.WithHeaderNormalization(),
	)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Liveness probe bypasses the pipeline entirely
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   container.Config.ServiceName,
			"timestamp": time.Now().UTC(),
		})
	})

	router.POST("/product", Adapt(product))
	router.GET("/product", Adapt(product))
	router.PUT("/product", Adapt(product))
	router.DELETE("/product", Adapt(product))

	router.GET("/price", Adapt(price))
	router.GET("/config", Adapt(userConfig))
}

// SetupMiddleware attaches the server-wide middleware stack
func SetupMiddleware(router *gin.Engine, container *server.Container) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(container.Logger))
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimiter(50, 100, container.Logger))
	router.Use(middleware.ActorIdentity(container.Config.Auth.JWTSecret, container.Logger))
}
