package services

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"product-catalog-api/internal/database"
	"product-catalog-api/internal/models"
	"product-catalog-api/internal/repositories"
)

// mockProductRepo records calls and serves products from an in-memory map
type mockProductRepo struct {
	products map[string]*models.Product

	createCalls int
	getCalls    int
	updateCalls int

	createErr error
	getErr    error
	updateErr error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[string]*models.Product)}
}

func (m *mockProductRepo) Create(ctx context.Context, product *models.Product) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	product, ok := m.products[id]
	if !ok || product.Status == models.StatusDeleted {
		return nil, repositories.NotFoundError("product", id)
	}
	return product, nil
}

func (m *mockProductRepo) Update(ctx context.Context, product *models.Product) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) SoftDelete(ctx context.Context, id string) error {
	product, ok := m.products[id]
	if !ok {
		return repositories.NotFoundError("product", id)
	}
	product.Status = models.StatusDeleted
	return nil
}

// mockRepoFactory hands back the same repository whatever session it is given
type mockRepoFactory struct {
	repo *mockProductRepo
}

func (f *mockRepoFactory) ProductRepository(q database.Querier) repositories.ProductRepository {
	return f.repo
}

// mockAuditRepo records every entry it is asked to log
type mockAuditRepo struct {
	entries []*models.AuditEntry
}

func (m *mockAuditRepo) Log(ctx context.Context, entry *models.AuditEntry) {
	m.entries = append(m.entries, entry)
}

func setupTestService(t *testing.T) (ProductService, *mockProductRepo, *mockAuditRepo, *database.Pool, func()) {
	tempDir, err := os.MkdirTemp("", "service_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	pool := database.NewPool(db, logger)
	repo := newMockProductRepo()
	audit := &mockAuditRepo{}
	svc := NewProductService(pool, &mockRepoFactory{repo: repo}, audit, logger, nil)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tempDir)
	}

	return svc, repo, audit, pool, cleanup
}

func TestCreateProduct(t *testing.T) {
	svc, repo, audit, _, cleanup := setupTestService(t)
	defer cleanup()

	product, err := svc.CreateProduct(context.Background(), "user-1", &CreateProductRequest{
		Name:  "Sourdough Loaf",
		Price: 8.50,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if product.ID == "" {
		t.Error("Expected a generated product ID")
	}
	if product.Status != models.StatusActive {
		t.Errorf("Expected status ACTIVE, got %s", product.Status)
	}
	if repo.createCalls != 1 {
		t.Errorf("Expected 1 create call, got %d", repo.createCalls)
	}

	if len(audit.entries) != 1 {
		t.Fatalf("Expected 1 audit entry, got %d", len(audit.entries))
	}
	entry := audit.entries[0]
	if entry.Action != models.ActionCreate {
		t.Errorf("Expected CREATE audit action, got %s", entry.Action)
	}
	if entry.EntityID != product.ID {
		t.Errorf("Expected audit entity %s, got %s", product.ID, entry.EntityID)
	}
	if entry.PerformedBy != "user-1" {
		t.Errorf("Expected audit actor user-1, got %s", entry.PerformedBy)
	}
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *CreateProductRequest
	}{
		{"nil request", nil},
		{"short name", &CreateProductRequest{Name: "ab", Price: 10}},
		{"missing name", &CreateProductRequest{Price: 10}},
		{"negative price", &CreateProductRequest{Name: "Baguette", Price: -5}},
		{"zero price", &CreateProductRequest{Name: "Baguette", Price: 0}},
		{"price above limit", &CreateProductRequest{Name: "Baguette", Price: 10000.01}},
		{"price precision", &CreateProductRequest{Name: "Baguette", Price: 9.999}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, audit, _, cleanup := setupTestService(t)
			defer cleanup()

			_, err := svc.CreateProduct(context.Background(), "user-1", tt.req)
			if err == nil {
				t.Fatal("Expected validation error")
			}

			var valErr *InputValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("Expected InputValidationError, got %T", err)
			}

			// Invalid input must never reach the gateway or the audit trail
			if repo.createCalls != 0 {
				t.Errorf("Expected no create calls, got %d", repo.createCalls)
			}
			if len(audit.entries) != 0 {
				t.Errorf("Expected no audit entries, got %d", len(audit.entries))
			}
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	svc, repo, audit, _, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateProduct(context.Background(), "user-1", &CreateProductRequest{
		Name:  "Croissant",
		Price: 3.25,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	newPrice := 3.75
	updated, err := svc.UpdateProduct(context.Background(), "user-2", created.ID, &UpdateProductRequest{
		Price: &newPrice,
	})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	if updated.Price != 3.75 {
		t.Errorf("Expected price 3.75, got %v", updated.Price)
	}
	if updated.Name != "Croissant" {
		t.Errorf("Expected name unchanged, got %s", updated.Name)
	}
	if repo.updateCalls != 1 {
		t.Errorf("Expected 1 update call, got %d", repo.updateCalls)
	}

	if len(audit.entries) != 2 {
		t.Fatalf("Expected 2 audit entries, got %d", len(audit.entries))
	}
	entry := audit.entries[1]
	if entry.Action != models.ActionUpdate {
		t.Errorf("Expected UPDATE audit action, got %s", entry.Action)
	}
	if entry.Details["oldPrice"] != 3.25 || entry.Details["newPrice"] != 3.75 {
		t.Errorf("Expected price delta in audit details, got %v", entry.Details)
	}
	if _, ok := entry.Details["oldName"]; ok {
		t.Error("Expected no name delta when the name did not change")
	}
}

func TestUpdateProductInvalidPrice(t *testing.T) {
	svc, repo, audit, _, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateProduct(context.Background(), "user-1", &CreateProductRequest{
		Name:  "Croissant",
		Price: 3.25,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	auditedBefore := len(audit.entries)

	badPrice := -5.0
	_, err = svc.UpdateProduct(context.Background(), "user-1", created.ID, &UpdateProductRequest{
		Price: &badPrice,
	})
	if err == nil {
		t.Fatal("Expected validation error for negative price")
	}

	var valErr *InputValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected InputValidationError, got %T", err)
	}
	if repo.updateCalls != 0 {
		t.Errorf("Expected no update calls for invalid input, got %d", repo.updateCalls)
	}
	if len(audit.entries) != auditedBefore {
		t.Error("Expected no audit entry for a rejected update")
	}

	// Stored product must be untouched
	stored, err := svc.GetProduct(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if stored.Price != 3.25 {
		t.Errorf("Expected stored price 3.25, got %v", stored.Price)
	}
}

func TestUpdateDeletedProduct(t *testing.T) {
	svc, repo, _, _, cleanup := setupTestService(t)
	defer cleanup()

	deleted := models.NewProduct("Stale Bread", 1.00)
	deleted.Status = models.StatusDeleted
	repo.products[deleted.ID] = deleted

	_, err := svc.GetProduct(context.Background(), deleted.ID)
	if !repositories.IsNotFound(err) {
		t.Errorf("Expected not-found for a soft-deleted product, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc, repo, audit, _, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateProduct(context.Background(), "user-1", &CreateProductRequest{
		Name:  "Danish",
		Price: 4.00,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if err := svc.DeleteProduct(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}

	if repo.products[created.ID].Status != models.StatusDeleted {
		t.Errorf("Expected status DELETED, got %s", repo.products[created.ID].Status)
	}

	if len(audit.entries) != 2 {
		t.Fatalf("Expected 2 audit entries, got %d", len(audit.entries))
	}
	entry := audit.entries[1]
	if entry.Action != models.ActionDelete {
		t.Errorf("Expected DELETE audit action, got %s", entry.Action)
	}
	if entry.Details["previousStatus"] != "ACTIVE" {
		t.Errorf("Expected previousStatus ACTIVE, got %v", entry.Details["previousStatus"])
	}

	// Deleted products disappear from default reads
	_, err = svc.GetProduct(context.Background(), created.ID)
	if !repositories.IsNotFound(err) {
		t.Errorf("Expected not-found after delete, got %v", err)
	}
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, _, audit, _, cleanup := setupTestService(t)
	defer cleanup()

	err := svc.DeleteProduct(context.Background(), "user-1", "missing-id")
	if !repositories.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
	if len(audit.entries) != 0 {
		t.Error("Expected no audit entry for a failed delete")
	}
}

func TestGetPrice(t *testing.T) {
	svc, _, audit, _, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateProduct(context.Background(), "user-1", &CreateProductRequest{
		Name:  "Focaccia",
		Price: 6.50,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	result, err := svc.GetPrice(context.Background(), "user-2", created.ID)
	if err != nil {
		t.Fatalf("GetPrice failed: %v", err)
	}

	if result.Price != 6.50 {
		t.Errorf("Expected price 6.50, got %v", result.Price)
	}
	if result.ID != created.ID {
		t.Errorf("Expected product ID %s, got %s", created.ID, result.ID)
	}

	if len(audit.entries) != 2 {
		t.Fatalf("Expected 2 audit entries, got %d", len(audit.entries))
	}
	entry := audit.entries[1]
	if entry.Action != models.ActionPriceFetch {
		t.Errorf("Expected PRICE_FETCH audit action, got %s", entry.Action)
	}
	if entry.PerformedBy != "user-2" {
		t.Errorf("Expected audit actor user-2, got %s", entry.PerformedBy)
	}
}

func TestGetProductEmptyID(t *testing.T) {
	svc, repo, _, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.GetProduct(context.Background(), "")
	if err == nil {
		t.Fatal("Expected error for empty ID")
	}
	if !errors.Is(err, repositories.ErrInvalidID) {
		t.Errorf("Expected ErrInvalidID, got %v", err)
	}
	if repo.getCalls != 0 {
		t.Errorf("Expected no repository calls for empty ID, got %d", repo.getCalls)
	}
}

func TestSessionReleasedOnFallbackPath(t *testing.T) {
	svc, _, _, pool, cleanup := setupTestService(t)
	defer cleanup()

	// No session in the context forces the service onto its private session
	_, err := svc.CreateProduct(context.Background(), "user-1", &CreateProductRequest{
		Name:  "Rye Loaf",
		Price: 5.00,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if inUse := pool.DB().Stats().InUse; inUse != 0 {
		t.Errorf("Expected fallback session released, %d connections still in use", inUse)
	}
}

func TestInjectedSessionNotClosed(t *testing.T) {
	svc, _, _, pool, cleanup := setupTestService(t)
	defer cleanup()

	sess, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer sess.Close()

	ctx := database.WithSession(context.Background(), sess)
	if _, err := svc.CreateProduct(ctx, "user-1", &CreateProductRequest{
		Name:  "Pretzel",
		Price: 2.50,
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	// The pipeline owns the injected session; the service must not release it
	if inUse := pool.DB().Stats().InUse; inUse != 1 {
		t.Errorf("Expected injected session still held, got %d connections in use", inUse)
	}
}

func TestSessionAcquisitionFailure(t *testing.T) {
	svc, repo, _, pool, cleanup := setupTestService(t)
	defer cleanup()

	pool.Close()

	_, err := svc.GetProduct(context.Background(), "some-id")
	if !repositories.IsConnection(err) {
		t.Errorf("Expected connection error, got %v", err)
	}
	if repo.getCalls != 0 {
		t.Errorf("Expected no repository calls when acquisition fails, got %d", repo.getCalls)
	}
}
