package handlers

import (
	"errors"
	"net/http"

	"product-catalog-api/internal/models"
	"product-catalog-api/internal/repositories"
	"product-catalog-api/internal/services"
	"product-catalog-api/pkg/lambda"
)

// mapServiceError translates domain errors into their canonical HTTP-shaped
// responses. Anything unrecognized is returned as an error so the recovery
// stage surfaces a generic 500 without leaking internals.
func mapServiceError(err error) (*lambda.Response, error) {
	var validationErr *services.InputValidationError
	if errors.As(err, &validationErr) {
		return lambda.Error(http.StatusBadRequest, lambda.CodeValidation, validationErr.Issues), nil
	}

	switch {
	case repositories.IsNotFound(err):
		return lambda.Error(http.StatusNotFound, lambda.CodeNotFound, lambda.MsgProductNotFound), nil

	case repositories.IsInvalidState(err), errors.Is(err, models.ErrProductDeleted):
		return lambda.Error(http.StatusBadRequest, lambda.CodeValidation, models.ErrProductDeleted.Error()), nil

	case repositories.IsValidation(err), errors.Is(err, repositories.ErrInvalidID):
		return lambda.Error(http.StatusBadRequest, lambda.CodeValidation, lambda.MsgMissingProductID), nil

	case repositories.IsConnection(err):
		return lambda.Error(http.StatusInternalServerError, lambda.CodeDBConnection, nil), nil
	}

	return nil, err
}
