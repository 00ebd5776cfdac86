package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"product-catalog-api/internal/handlers"
	"product-catalog-api/pkg/lambda"
)

func handler(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	if lambda.IsHealthCheck(event) {
		return lambda.HealthCheckResponse(), nil
	}

	var proxyEvent events.APIGatewayProxyRequest
	if err := json.Unmarshal(event, &proxyEvent); err != nil {
		return lambda.ToAPIGateway(lambda.Error(400, lambda.CodeValidation, "malformed event")), nil
	}

	container, err := lambda.GetConnectionManager().GetContainer(ctx)
	if err != nil {
		return lambda.ToAPIGateway(lambda.Error(500, lambda.CodeInternal, nil)), nil
	}

	// Config lookups never touch the relational store, so the session stage
	// is left out of this function's pipeline.
	configHandler := handlers.NewConfigHandler(container.ConfigRepo)
	pipeline := lambda.Chain(
		configHandler.HandleGetConfig,
		lambda.WithRecovery(container.Logger),
		lambda.WithObservability(container.Logger, container.Metrics),
		lambda.WithHeaderNormalization(),
	)

	resp, err := pipeline(ctx, lambda.FromAPIGateway(&proxyEvent))
	if err != nil {
		return lambda.ToAPIGateway(lambda.Error(500, lambda.CodeInternal, nil)), nil
	}

	return lambda.ToAPIGateway(resp), nil
}

func main() {
	awslambda.Start(handler)
}
