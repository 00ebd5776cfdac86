package models

import (
	"errors"
	"testing"
)

func TestNewProduct(t *testing.T) {
	product := NewProduct("Sourdough Starter Kit", 49.99)

	if product.ID == "" {
		t.Error("Expected generated ID")
	}

	if product.Status != StatusActive {
		t.Errorf("Expected status %s, got %s", StatusActive, product.Status)
	}

	if !product.CreatedAt.Equal(product.UpdatedAt) {
		t.Error("Expected CreatedAt to equal UpdatedAt on creation")
	}

	other := NewProduct("Sourdough Starter Kit", 49.99)
	if other.ID == product.ID {
		t.Error("Expected unique IDs across products")
	}
}

func TestApplyUpdate(t *testing.T) {
	product := NewProduct("Widget", 9.99)

	newName := "Widget Pro"
	newPrice := 19.99
	updated, err := product.ApplyUpdate(&ProductChanges{Name: &newName, Price: &newPrice})
	if err != nil {
		t.Fatalf("ApplyUpdate failed: %v", err)
	}

	if updated.Name != "Widget Pro" || updated.Price != 19.99 {
		t.Errorf("Changes not applied: got %s / %.2f", updated.Name, updated.Price)
	}

	if updated.Status != StatusActive {
		t.Errorf("Status changed unexpectedly: %s", updated.Status)
	}

	if updated.UpdatedAt.Before(product.UpdatedAt) {
		t.Error("Expected UpdatedAt to be refreshed")
	}

	// The receiver must never be mutated
	if product.Name != "Widget" || product.Price != 9.99 {
		t.Error("ApplyUpdate mutated the original product")
	}
}

func TestApplyUpdate_NilChanges(t *testing.T) {
	product := NewProduct("Widget", 9.99)

	updated, err := product.ApplyUpdate(nil)
	if err != nil {
		t.Fatalf("ApplyUpdate failed: %v", err)
	}

	if updated.Name != product.Name || updated.Price != product.Price {
		t.Error("Expected fields unchanged with nil changes")
	}
}

func TestApplyUpdate_DeletedProduct(t *testing.T) {
	product := NewProduct("Widget", 9.99)
	deleted := product.MarkDeleted()

	newPrice := 5.00
	_, err := deleted.ApplyUpdate(&ProductChanges{Price: &newPrice})
	if !errors.Is(err, ErrProductDeleted) {
		t.Errorf("Expected ErrProductDeleted, got %v", err)
	}
}

func TestMarkDeleted(t *testing.T) {
	product := NewProduct("Widget", 9.99)

	deleted := product.MarkDeleted()
	if deleted.Status != StatusDeleted {
		t.Errorf("Expected status %s, got %s", StatusDeleted, deleted.Status)
	}

	if product.Status != StatusActive {
		t.Error("MarkDeleted mutated the original product")
	}

	// Deleting an already-deleted product is an idempotent no-op
	again := deleted.MarkDeleted()
	if again != deleted {
		t.Error("Expected MarkDeleted on a deleted product to return the receiver unchanged")
	}
}

func TestValidatePrice(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		wantErr bool
	}{
		{"valid", 9.99, false},
		{"whole number", 100, false},
		{"max price", 10000.00, false},
		{"zero", 0, true},
		{"negative", -5, true},
		{"over max", 10000.01, true},
		{"three decimals", 9.999, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrice(tt.price)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrice(%v) error = %v, wantErr %v", tt.price, err, tt.wantErr)
			}
		})
	}
}

func TestProductValidate(t *testing.T) {
	product := NewProduct("Widget", 9.99)
	if err := product.Validate(); err != nil {
		t.Errorf("Expected valid product, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *Product)
	}{
		{"empty ID", func(p *Product) { p.ID = "" }},
		{"bad UUID", func(p *Product) { p.ID = "not-a-uuid" }},
		{"short name", func(p *Product) { p.Name = "ab" }},
		{"bad status", func(p *Product) { p.Status = "UNKNOWN" }},
		{"negative price", func(p *Product) { p.Price = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProduct("Widget", 9.99)
			tt.mutate(p)
			if err := p.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
