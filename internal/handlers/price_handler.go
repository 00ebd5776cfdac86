package handlers

import (
	"context"
	"net/http"

	"product-catalog-api/internal/services"
	"product-catalog-api/pkg/lambda"
)

// PriceHandler handles audited price lookups
type PriceHandler struct {
	productService services.ProductService
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(productService services.ProductService) *PriceHandler {
	return &PriceHandler{
		productService: productService,
	}
}

// HandleGetPrice returns the current price of a product and leaves an access
// trail in the audit store.
func (h *PriceHandler) HandleGetPrice(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if req.Method != http.MethodGet {
		return lambda.Error(http.StatusMethodNotAllowed, lambda.CodeValidation, "method not allowed"), nil
	}

	actor, resp := requireActor(req)
	if resp != nil {
		return resp, nil
	}

	id, resp := requireID(req)
	if resp != nil {
		return resp, nil
	}

	price, err := h.productService.GetPrice(ctx, actor, id)
	if err != nil {
		return mapServiceError(err)
	}

	return lambda.JSON(http.StatusOK, price), nil
}
