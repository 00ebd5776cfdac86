package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"product-catalog-api/internal/services"
	"product-catalog-api/pkg/lambda"
)

// ProductHandler handles product CRUD requests
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// HandleRequest dispatches by HTTP method to exactly one use case
func (h *ProductHandler) HandleRequest(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	switch req.Method {
	case http.MethodPost:
		return h.HandleCreate(ctx, req)
	case http.MethodGet:
		return h.HandleGet(ctx, req)
	case http.MethodPut:
		return h.HandleUpdate(ctx, req)
	case http.MethodDelete:
		return h.HandleDelete(ctx, req)
	default:
		return lambda.Error(http.StatusMethodNotAllowed, lambda.CodeValidation, "method not allowed"), nil
	}
}

// HandleCreate creates a new product
func (h *ProductHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	actor, resp := requireActor(req)
	if resp != nil {
		return resp, nil
	}

	var input services.CreateProductRequest
	if err := json.Unmarshal(req.Body, &input); err != nil {
		return lambda.Error(http.StatusBadRequest, lambda.CodeValidation, "invalid JSON body"), nil
	}

	product, err := h.productService.CreateProduct(ctx, actor, &input)
	if err != nil {
		return mapServiceError(err)
	}

	return lambda.JSON(http.StatusCreated, product), nil
}

// HandleGet retrieves a product by ID
func (h *ProductHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, resp := requireID(req)
	if resp != nil {
		return resp, nil
	}

	product, err := h.productService.GetProduct(ctx, id)
	if err != nil {
		return mapServiceError(err)
	}

	return lambda.JSON(http.StatusOK, product), nil
}

// HandleUpdate applies changes to an existing product
func (h *ProductHandler) HandleUpdate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	actor, resp := requireActor(req)
	if resp != nil {
		return resp, nil
	}

	id, resp := requireID(req)
	if resp != nil {
		return resp, nil
	}

	var input services.UpdateProductRequest
	if err := json.Unmarshal(req.Body, &input); err != nil {
		return lambda.Error(http.StatusBadRequest, lambda.CodeValidation, "invalid JSON body"), nil
	}

	product, err := h.productService.UpdateProduct(ctx, actor, id, &input)
	if err != nil {
		return mapServiceError(err)
	}

	return lambda.JSON(http.StatusOK, product), nil
}

// HandleDelete soft-deletes a product
func (h *ProductHandler) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	actor, resp := requireActor(req)
	if resp != nil {
		return resp, nil
	}

	id, resp := requireID(req)
	if resp != nil {
		return resp, nil
	}

	if err := h.productService.DeleteProduct(ctx, actor, id); err != nil {
		return mapServiceError(err)
	}

	return lambda.NoContent(), nil
}

// requireID extracts the product ID query parameter, rejecting requests
// without one.
func requireID(req *lambda.Request) (string, *lambda.Response) {
	id := req.QueryParams["id"]
	if id == "" {
		return "", lambda.Error(http.StatusBadRequest, lambda.CodeValidation, lambda.MsgMissingProductID)
	}
	return id, nil
}

// requireActor resolves the acting user for audited operations: the userId
// query parameter, or the x-user-id header set by the authentication layer.
func requireActor(req *lambda.Request) (string, *lambda.Response) {
	if actor := req.QueryParams["userId"]; actor != "" {
		return actor, nil
	}
	if actor := req.Headers["x-user-id"]; actor != "" {
		return actor, nil
	}
	return "", lambda.Error(http.StatusBadRequest, lambda.CodeMissingUser, lambda.MsgMissingUserID)
}
