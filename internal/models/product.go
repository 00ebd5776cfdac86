package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle state of a product
type ProductStatus string

const (
	StatusActive   ProductStatus = "ACTIVE"
	StatusArchived ProductStatus = "ARCHIVED"
	StatusDeleted  ProductStatus = "DELETED"
)

// Product constraints
const (
	MinNameLength   = 3
	MaxNameLength   = 100
	MaxProductPrice = 10000.00
)

// ErrProductDeleted is returned when a mutation targets a soft-deleted product
var ErrProductDeleted = errors.New("cannot update a deleted product")

// Product represents a product in the catalog
type Product struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Price     float64       `json:"price" db:"price"`
	Status    ProductStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

// ProductChanges carries the optional fields of an update. Nil pointers mean
// "leave unchanged".
type ProductChanges struct {
	Name   *string
	Price  *float64
	Status *ProductStatus
}

// NewProduct creates a product with a generated ID, ACTIVE status and equal
// creation/update timestamps.
func NewProduct(name string, price float64) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     price,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyUpdate returns a copy of the product with the given changes merged in
// and UpdatedAt refreshed. The receiver is never mutated. Updating a DELETED
// product fails with ErrProductDeleted.
func (p *Product) ApplyUpdate(changes *ProductChanges) (*Product, error) {
	if p.Status == StatusDeleted {
		return nil, ErrProductDeleted
	}

	next := *p
	if changes != nil {
		if changes.Name != nil {
			next.Name = *changes.Name
		}
		if changes.Price != nil {
			next.Price = *changes.Price
		}
		if changes.Status != nil {
			next.Status = *changes.Status
		}
	}
	next.UpdatedAt = time.Now().UTC()

	return &next, nil
}

// MarkDeleted returns a copy of the product with status DELETED and UpdatedAt
// refreshed. Deleting an already-deleted product is an idempotent no-op: the
// receiver is returned unchanged.
func (p *Product) MarkDeleted() *Product {
	if p.Status == StatusDeleted {
		return p
	}

	next := *p
	next.Status = StatusDeleted
	next.UpdatedAt = time.Now().UTC()
	return &next
}

// IsDeleted returns true if the product has been soft-deleted
func (p *Product) IsDeleted() bool {
	return p.Status == StatusDeleted
}

// Validate validates the product data
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product ID is required")
	}

	if _, err := uuid.Parse(p.ID); err != nil {
		return fmt.Errorf("product ID must be a valid UUID: %w", err)
	}

	name := strings.TrimSpace(p.Name)
	if len(name) < MinNameLength {
		return fmt.Errorf("product name must be at least %d characters", MinNameLength)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("product name cannot exceed %d characters", MaxNameLength)
	}

	if err := ValidatePrice(p.Price); err != nil {
		return err
	}

	if !IsValidStatus(p.Status) {
		return fmt.Errorf("invalid product status: %s", p.Status)
	}

	return nil
}

// ValidatePrice checks that a price is positive, within bounds and quantized
// to two decimal places.
func ValidatePrice(price float64) error {
	d := decimal.NewFromFloat(price)

	if d.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("price must be greater than zero")
	}

	if d.GreaterThan(decimal.NewFromFloat(MaxProductPrice)) {
		return fmt.Errorf("price cannot exceed %.2f", MaxProductPrice)
	}

	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("price can only have 2 decimal places")
	}

	return nil
}

// IsValidStatus returns true if the status is one of the known values
func IsValidStatus(status ProductStatus) bool {
	switch status {
	case StatusActive, StatusArchived, StatusDeleted:
		return true
	}
	return false
}
