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
	// Liveness probe for CI/CD, answered before any other processing
	if lambda.IsHealthCheck(event) {
		return lambda.HealthCheckResponse(), nil
	}

	var proxyEvent events.APIGatewayProxyRequest
	if err := json.Unmarshal(event, &proxyEvent); err != nil {
		return lambda.ToAPIGateway(lambda.Error(400, lambda.CodeValidation, "malformed event")), nil
	}

	container, err := lambda.GetConnectionManager().GetContainer(ctx)
	if err != nil {
		return lambda.ToAPIGateway(lambda.Error(500, lambda.CodeDBConnection, nil)), nil
	}

	productHandler := handlers.NewProductHandler(container.ProductService)
	pipeline := lambda.Chain(
		productHandler.HandleRequest,
		lambda.StandardPipeline(container.Pool, container.Logger, container.Metrics)...,
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
