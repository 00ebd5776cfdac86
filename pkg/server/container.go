package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"product-catalog-api/internal/config"
	"product-catalog-api/internal/database"
	"product-catalog-api/internal/observability"
	"product-catalog-api/internal/repositories"
	"product-catalog-api/internal/repositories/dynamo"
	"product-catalog-api/internal/repositories/sqlite"
	"product-catalog-api/internal/services"
)

// Container holds all application dependencies. It is constructed once per
// process and passed by reference into the request pipeline; nothing in it
// mutates after construction except the sessions checked out of the pool.
type Container struct {
	Config         *config.Config
	Logger         *logrus.Logger
	Metrics        *observability.Metrics
	Pool           *database.Pool
	ProductService services.ProductService
	AuditRepo      repositories.AuditRepository
	ConfigRepo     repositories.ConfigRepository
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger := observability.NewLogger(cfg.ServiceName)
	metrics := observability.NewMetrics("ProductCatalog", logger)

	pool, err := database.Connect(&database.ConnectionConfig{
		DatabasePath:    cfg.Database.Path,
		MigrationsPath:  cfg.Database.MigrationsPath,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	dynamoClient, err := dynamo.NewClient(ctx, cfg.Dynamo.Region, cfg.Dynamo.Endpoint)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	auditRepo := dynamo.NewAuditRepository(dynamoClient, cfg.Dynamo.AuditTable, logger)
	configRepo := dynamo.NewConfigRepository(dynamoClient, cfg.Dynamo.ConfigTable, logger)
	repoFactory := sqlite.NewFactory(logger, cfg.IncludeDeletedReads)

	productService := services.NewProductService(pool, repoFactory, auditRepo, logger, metrics)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics,
		Pool:           pool,
		ProductService: productService,
		AuditRepo:      auditRepo,
		ConfigRepo:     configRepo,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.Pool != nil {
		if err := c.Pool.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
