package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"product-catalog-api/internal/database"
	"product-catalog-api/internal/models"
	"product-catalog-api/internal/repositories"
)

// ProductRepository implements the product persistence gateway for SQLite
type ProductRepository struct {
	*BaseRepository
	includeDeleted bool
}

// NewProductRepository creates a product repository bound to the given
// session. Soft-deleted rows are filtered out of reads by default;
// includeDeleted enables the privileged read mode that still fetches them.
func NewProductRepository(q database.Querier, logger *logrus.Logger, includeDeleted bool) repositories.ProductRepository {
	return &ProductRepository{
		BaseRepository: NewBaseRepository(q, "products", logger),
		includeDeleted: includeDeleted,
	}
}

// Factory builds product repositories bound to a caller-supplied session
type Factory struct {
	logger         *logrus.Logger
	includeDeleted bool
}

// NewFactory creates a repository factory
func NewFactory(logger *logrus.Logger, includeDeleted bool) *Factory {
	return &Factory{logger: logger, includeDeleted: includeDeleted}
}

// ProductRepository binds a product repository to the given session
func (f *Factory) ProductRepository(q database.Querier) repositories.ProductRepository {
	return NewProductRepository(q, f.logger, f.includeDeleted)
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", product.ID, err)
	}

	query := `
		INSERT INTO products (id, name, price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		product.ID,
		product.Name,
		product.Price,
		string(product.Status),
		product.CreatedAt.UTC(),
		product.UpdatedAt.UTC(),
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return repositories.DuplicateError("product", "id", product.ID)
		}
		return err
	}

	return nil
}

// GetByID retrieves a product by ID, excluding soft-deleted rows unless the
// include-deleted read mode was enabled at construction.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, price, status, created_at, updated_at
		FROM products
		WHERE id = ?`
	args := []interface{}{id}

	if !r.includeDeleted {
		query += " AND status != ?"
		args = append(args, string(models.StatusDeleted))
	}

	row := r.executeQueryRow(ctx, "get_by_id", query, args...)
	return r.scanProduct(row, id)
}

// Update persists the full row of an existing product
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", product.ID, err)
	}

	query := `
		UPDATE products
		SET name = ?, price = ?, status = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		product.Name,
		product.Price,
		string(product.Status),
		product.UpdatedAt.UTC(),
		product.ID,
	)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update", product.ID)
}

// SoftDelete marks a product as DELETED without removing its row
func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	query := `
		UPDATE products
		SET status = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "soft_delete", query,
		string(models.StatusDeleted),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "soft_delete", id)
}

// scanProduct maps the storage row shape onto the domain shape, column by
// column.
func (r *ProductRepository) scanProduct(row *sql.Row, id string) (*models.Product, error) {
	product := &models.Product{}
	var status string

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&status,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("product", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "product", id, err)
	}

	product.Status = models.ProductStatus(status)
	return product, nil
}
