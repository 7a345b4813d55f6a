// Package jsonrpc shapes JSON-RPC 2.0 responses for views called over XHR.
//
// Only the response side is covered: a view returns a result or an *Error and the
// framework renders the envelope. Responses always carry a null id.
package jsonrpc

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

// Version is the protocol version written in every envelope.
const Version = "2.0"

// Standard and framework error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeUnauthorized   = -32001
)

var messages = map[int]string{
	CodeParseError:     "Parse error",
	CodeInvalidRequest: "Invalid request",
	CodeMethodNotFound: "Method not found",
	CodeInvalidParams:  "Invalid params",
	CodeInternalError:  "Internal error",
	CodeUnauthorized:   "Unauthorized",
}

// Message returns the default message for a code, or "Server error" for
// codes without one.
func Message(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "Server error"
}

// Error is a JSON-RPC error object. It implements error so views can return it.
type Error struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// NewError creates an Error. An empty message is replaced by the code's default.
func NewError(code int, message string, data any) *Error {
	if message == "" {
		message = Message(code)
	}
	return &Error{Code: code, Message: message, Data: data}
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc: %d %s", e.Code, e.Message)
}

// Convenience constructors for the standard errors.

func ParseError(data any) *Error     { return NewError(CodeParseError, "", data) }
func InvalidRequest(data any) *Error { return NewError(CodeInvalidRequest, "", data) }
func MethodNotFound(data any) *Error { return NewError(CodeMethodNotFound, "", data) }
func InvalidParams(data any) *Error  { return NewError(CodeInvalidParams, "", data) }
func InternalError(data any) *Error  { return NewError(CodeInternalError, "", data) }
func Unauthorized(data any) *Error   { return NewError(CodeUnauthorized, "", data) }

// IsError reports whether err is or wraps an *Error.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// AsError extracts the *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Response is the envelope written to the client.
// Exactly one of Result and Error is set.
type Response struct {
	ID      any    `json:"id"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	Version string `json:"jsonrpc"`
}

// Result wraps a successful value.
func Result(v any) *Response {
	return &Response{Version: Version, Result: resultValue(v)}
}

// ErrorResponse wraps an error object.
func ErrorResponse(e *Error) *Response {
	return &Response{Version: Version, Error: e}
}

// nullResult keeps "result": null in the envelope when a view returns nil.
type nullResult struct{}

func (nullResult) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func resultValue(v any) any {
	if v == nil {
		return nullResult{}
	}
	return v
}

// Marshal encodes a response. Pretty output is indented with two spaces.
// time.Time values encode as RFC 3339 (ISO 8601).
func Marshal(resp *Response, pretty bool) ([]byte, error) {
	if pretty {
		return sonic.ConfigStd.MarshalIndent(resp, "", "  ")
	}
	return sonic.ConfigStd.Marshal(resp)
}

// Write encodes resp and writes it with the given HTTP status.
func Write(w http.ResponseWriter, status int, resp *Response, pretty bool) error {
	body, err := Marshal(resp, pretty)
	if err != nil {
		return fmt.Errorf("jsonrpc: encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}
