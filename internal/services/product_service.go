package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"product-catalog-api/internal/database"
	"product-catalog-api/internal/models"
	"product-catalog-api/internal/observability"
	"product-catalog-api/internal/repositories"
)

// productService implements the ProductService interface
type productService struct {
	pool      *database.Pool
	repos     repositories.ProductRepositoryFactory
	audit     repositories.AuditRepository
	validator *validator.Validate
	logger    *logrus.Logger
	metrics   *observability.Metrics
}

// NewProductService creates a new product service instance
func NewProductService(
	pool *database.Pool,
	repos repositories.ProductRepositoryFactory,
	audit repositories.AuditRepository,
	logger *logrus.Logger,
	metrics *observability.Metrics,
) ProductService {
	if logger == nil {
		logger = logrus.New()
	}
	if metrics == nil {
		metrics = observability.NewMetrics("ProductCatalog", logger)
	}

	v := validator.New()
	// Prices are money: two decimal places at most
	_ = v.RegisterValidation("price2dp", func(fl validator.FieldLevel) bool {
		d := decimal.NewFromFloat(fl.Field().Float())
		return d.Equal(d.Round(2))
	})

	return &productService{
		pool:      pool,
		repos:     repos,
		audit:     audit,
		validator: v,
		logger:    logger,
		metrics:   metrics,
	}
}

// session resolves the database session for the current request. A session
// injected by the pipeline is reused as-is; otherwise a private one is opened
// and the returned release func closes it. Release runs exactly once either
// way.
func (s *productService) session(ctx context.Context) (database.Querier, func(), error) {
	sess, owned, err := s.pool.SessionOrAcquire(ctx)
	if err != nil {
		return nil, nil, repositories.ConnectionError(err)
	}

	release := func() {}
	if owned {
		release = func() {
			if closeErr := sess.Close(); closeErr != nil {
				s.logger.WithError(closeErr).Warn("Failed to close fallback session")
			}
		}
	}

	return sess.Conn(), release, nil
}

// CreateProduct creates a new product
func (s *productService) CreateProduct(ctx context.Context, actor string, req *CreateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, &InputValidationError{Issues: []ValidationIssue{{Field: "body", Tag: "required", Message: "request body is required"}}}
	}

	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	product := models.NewProduct(req.Name, req.Price)

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Creating product")

	q, release, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.repos.ProductRepository(q).Create(ctx, product); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.NewAuditEntry(product.ID, models.ActionCreate, actor, map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
	}))

	s.metrics.Count("ProductCreated")
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *productService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, repositories.NewRepositoryError("get", "product", id, repositories.ErrInvalidID)
	}

	q, release, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.repos.ProductRepository(q).GetByID(ctx, id)
}

// UpdateProduct applies changes to an existing product
func (s *productService) UpdateProduct(ctx context.Context, actor, id string, req *UpdateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, &InputValidationError{Issues: []ValidationIssue{{Field: "body", Tag: "required", Message: "request body is required"}}}
	}

	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	q, release, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	repo := s.repos.ProductRepository(q)

	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := current.ApplyUpdate(req.toChanges())
	if err != nil {
		return nil, repositories.InvalidStateError("product", id, err)
	}

	if err := repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.NewAuditEntry(id, models.ActionUpdate, actor, updateDetails(current, updated)))

	s.metrics.Count("ProductUpdated")
	return updated, nil
}

// DeleteProduct soft-deletes a product. Deleting an already-deleted product
// is idempotent.
func (s *productService) DeleteProduct(ctx context.Context, actor, id string) error {
	q, release, err := s.session(ctx)
	if err != nil {
		return err
	}
	defer release()

	repo := s.repos.ProductRepository(q)

	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	deleted := current.MarkDeleted()
	if deleted == current {
		// Already deleted, nothing to persist or audit
		return nil
	}

	if err := repo.Update(ctx, deleted); err != nil {
		return err
	}

	s.audit.Log(ctx, models.NewAuditEntry(id, models.ActionDelete, actor, map[string]interface{}{
		"type":           "Soft Delete",
		"previousStatus": string(current.Status),
	}))

	s.metrics.Count("ProductDeleted")
	return nil
}

// GetPrice returns the current price of a product and records the access
func (s *productService) GetPrice(ctx context.Context, actor, id string) (*PriceResult, error) {
	q, release, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	product, err := s.repos.ProductRepository(q).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.NewAuditEntry(id, models.ActionPriceFetch, actor, map[string]interface{}{
		"price": product.Price,
	}))

	s.metrics.Count("PriceFetched")
	return &PriceResult{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
	}, nil
}

// validateStruct runs struct-tag validation and converts failures into the
// structured issue list the pipeline surfaces to the client.
func (s *productService) validateStruct(req interface{}) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation failed: %w", err)
	}

	issues := make([]ValidationIssue, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		issues = append(issues, ValidationIssue{
			Field:   fieldErr.Field(),
			Tag:     fieldErr.Tag(),
			Message: validationMessage(fieldErr),
		})
	}

	return &InputValidationError{Issues: issues}
}

// validationMessage renders a human-readable message for a field error
func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fieldErr.Field(), fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", fieldErr.Field(), fieldErr.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fieldErr.Field(), fieldErr.Param())
	case "lte":
		return fmt.Sprintf("%s cannot exceed %s", fieldErr.Field(), fieldErr.Param())
	case "price2dp":
		return fmt.Sprintf("%s can only have 2 decimal places", fieldErr.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid", fieldErr.Field())
	}
}

// toChanges converts the transport DTO into domain changes. Transport input
// never assigns product fields directly.
func (r *UpdateProductRequest) toChanges() *models.ProductChanges {
	changes := &models.ProductChanges{
		Name:  r.Name,
		Price: r.Price,
	}
	if r.Status != nil {
		status := models.ProductStatus(*r.Status)
		changes.Status = &status
	}
	return changes
}

// updateDetails builds the audit payload for an update, including the price
// delta when the price changed.
func updateDetails(before, after *models.Product) map[string]interface{} {
	details := map[string]interface{}{}

	if before.Name != after.Name {
		details["oldName"] = before.Name
		details["newName"] = after.Name
	}
	if before.Price != after.Price {
		details["oldPrice"] = before.Price
		details["newPrice"] = after.Price
	}
	if before.Status != after.Status {
		details["oldStatus"] = string(before.Status)
		details["newStatus"] = string(after.Status)
	}

	return details
}
