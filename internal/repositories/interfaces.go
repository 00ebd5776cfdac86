package repositories

import (
	"context"

	"product-catalog-api/internal/database"
	"product-catalog-api/internal/models"
)

// ProductRepository defines the persistence gateway for products. All
// statements execute on the session the repository was bound to at
// construction time; the repository never opens or closes sessions of its own.
type ProductRepository interface {
	// Create inserts a new product
	Create(ctx context.Context, product *models.Product) error

	// GetByID retrieves a product by ID. Soft-deleted products are excluded
	// unless the repository was constructed with the include-deleted read mode.
	GetByID(ctx context.Context, id string) (*models.Product, error)

	// Update persists the full row of an existing product
	Update(ctx context.Context, product *models.Product) error

	// SoftDelete marks a product as DELETED without removing its row
	SoftDelete(ctx context.Context, id string) error
}

// ProductRepositoryFactory binds product repositories to a session. The
// decision of which session a repository runs on belongs to the caller, never
// to the repository itself.
type ProductRepositoryFactory interface {
	ProductRepository(q database.Querier) ProductRepository
}

// AuditRepository appends immutable audit entries to the document store.
// Writes are fire-and-forget: a failed write is logged, never propagated.
type AuditRepository interface {
	Log(ctx context.Context, entry *models.AuditEntry)
}

// ConfigRepository retrieves per-user configuration documents
type ConfigRepository interface {
	GetUserConfig(ctx context.Context, userID string) (map[string]interface{}, error)
}
