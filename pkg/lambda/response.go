package lambda

import (
	"encoding/json"
	"net/http"
)

// Error codes surfaced in the canonical error response body
const (
	CodeValidation   = "VAL_001"
	CodeNotFound     = "ERR_404"
	CodeInternal     = "ERR_500"
	CodeDBConnection = "DB_001"
	CodeMissingUser  = "AUTH_001"
)

// Documented client-facing messages
const (
	MsgMissingProductID = "Product ID is required"
	MsgMissingUserID    = "User ID is required"
	MsgProductNotFound  = "Product not found"
)

// ErrorBody is the canonical error response shape, applied uniformly
type ErrorBody struct {
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// JSON builds a response with a JSON-serialized body
func JSON(statusCode int, v interface{}) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return &Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    jsonHeaders,
			Body:       []byte(`{"code":"` + CodeInternal + `"}`),
		}
	}

	return &Response{
		StatusCode: statusCode,
		Headers:    jsonHeaders,
		Body:       body,
	}
}

// Error builds a canonical error response
func Error(statusCode int, code string, details interface{}) *Response {
	return JSON(statusCode, ErrorBody{Code: code, Details: details})
}

// NoContent builds an empty 204 response
func NoContent() *Response {
	return &Response{
		StatusCode: http.StatusNoContent,
		Headers:    jsonHeaders,
	}
}
