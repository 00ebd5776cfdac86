package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"product-catalog-api/pkg/lambda"
)

// Adapt exposes a pipeline handler through Gin so the same request lifecycle
// serves both the Lambda and the local server surface.
func Adapt(handler lambda.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
		}

		queryParams := map[string]string{}
		for name, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				queryParams[name] = values[0]
			}
		}

		headers := map[string]string{}
		for name, values := range c.Request.Header {
			if len(values) > 0 {
				headers[name] = values[0]
			}
		}

		// Actor resolved by the authentication middleware, if any
		if actor := c.GetString("user_id"); actor != "" {
			headers["x-user-id"] = actor
		}

		req := &lambda.Request{
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			Headers:     headers,
			QueryParams: queryParams,
			Body:        body,
		}

		resp, err := handler(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, lambda.ErrorBody{Code: lambda.CodeInternal})
			return
		}

		for name, value := range resp.Headers {
			c.Header(name, value)
		}

		if len(resp.Body) == 0 {
			c.Status(resp.StatusCode)
			return
		}

		c.Data(resp.StatusCode, "application/json", resp.Body)
	}
}
