package services

import (
	"context"
	"fmt"

	"product-catalog-api/internal/models"
)

// ProductService defines the orchestrated product use cases exposed to the
// request pipeline.
type ProductService interface {
	// CreateProduct validates input, builds the product and persists it,
	// then writes a CREATE audit entry
	CreateProduct(ctx context.Context, actor string, req *CreateProductRequest) (*models.Product, error)

	// GetProduct retrieves a product by ID; soft-deleted products are absent
	GetProduct(ctx context.Context, id string) (*models.Product, error)

	// UpdateProduct applies changes to an existing product and audits the delta
	UpdateProduct(ctx context.Context, actor, id string, req *UpdateProductRequest) (*models.Product, error)

	// DeleteProduct soft-deletes a product and audits the transition
	DeleteProduct(ctx context.Context, actor, id string) error

	// GetPrice returns the current price of a product and records the access
	// in the audit trail. This is the one intentionally-audited read.
	GetPrice(ctx context.Context, actor, id string) (*PriceResult, error)
}

// CreateProductRequest is the input for product creation
type CreateProductRequest struct {
	Name  string  `json:"name" validate:"required,min=3,max=100"`
	Price float64 `json:"price" validate:"required,gt=0,lte=10000,price2dp"`
}

// UpdateProductRequest is the input for product updates. Nil fields are left
// unchanged.
type UpdateProductRequest struct {
	Name   *string  `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Price  *float64 `json:"price,omitempty" validate:"omitempty,gt=0,lte=10000,price2dp"`
	Status *string  `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE ARCHIVED DELETED"`
}

// PriceResult is the response shape of a price lookup
type PriceResult struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ValidationIssue describes a single field-level validation failure
type ValidationIssue struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// InputValidationError carries the structured issues of a failed request
// validation. The pipeline maps it to a 400 response, never a 500.
type InputValidationError struct {
	Issues []ValidationIssue
}

// Error implements the error interface
func (e *InputValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("validation failed: %s", e.Issues[0].Message)
	}
	return fmt.Sprintf("validation failed with %d issues", len(e.Issues))
}
