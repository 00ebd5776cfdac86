package lambda

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// HandlerFunc is a framework-agnostic handler interface
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Middleware decorates a handler with a pipeline stage
type Middleware func(next HandlerFunc) HandlerFunc

// FromAPIGateway converts an API Gateway proxy event to a generic request
func FromAPIGateway(event *events.APIGatewayProxyRequest) *Request {
	return &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        []byte(event.Body),
		PathParams:  event.PathParameters,
	}
}

// ToAPIGateway converts a generic response to an API Gateway proxy response
func ToAPIGateway(resp *Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}

// IsHealthCheck reports whether a raw invocation payload is a liveness probe.
// Probes carry a health_check flag and bypass the entire pipeline.
func IsHealthCheck(event json.RawMessage) bool {
	var probe struct {
		HealthCheck bool `json:"health_check"`
	}
	if err := json.Unmarshal(event, &probe); err != nil {
		return false
	}
	return probe.HealthCheck
}

// HealthCheckResponse is the immediate success response for liveness probes
func HealthCheckResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Body:       "OK",
	}
}
