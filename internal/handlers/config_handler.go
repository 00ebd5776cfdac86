package handlers

import (
	"context"
	"net/http"

	"product-catalog-api/internal/repositories"
	"product-catalog-api/pkg/lambda"
)

// ConfigHandler serves per-user configuration documents
type ConfigHandler struct {
	configRepo repositories.ConfigRepository
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(configRepo repositories.ConfigRepository) *ConfigHandler {
	return &ConfigHandler{
		configRepo: configRepo,
	}
}

// HandleGetConfig returns the config document for a user. An absent document
// yields an empty object, not a 404.
func (h *ConfigHandler) HandleGetConfig(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if req.Method != http.MethodGet {
		return lambda.Error(http.StatusMethodNotAllowed, lambda.CodeValidation, "method not allowed"), nil
	}

	userID, resp := requireActor(req)
	if resp != nil {
		return resp, nil
	}

	config, err := h.configRepo.GetUserConfig(ctx, userID)
	if err != nil {
		return mapServiceError(err)
	}

	return lambda.JSON(http.StatusOK, config), nil
}
