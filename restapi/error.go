/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package restapi renders JSON responses and errors of the REST API.
package restapi

import (
	"fmt"
	"net/http"
	"strings"
	"unicode"
)

// Error represents an error details.
type Error struct {
	Domain  string                 `json:"domain"`
	Code    string                 `json:"code"`
	Message string                 `json:"message,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error codes.
// We are using "var" here because some services may want to use different error codes.
var (
	ErrCodeInternal            = "internalError"
	ErrCodeNotFound            = "notFound"
	ErrCodeMethodNotAllowed    = "methodNotAllowed"
	ErrCodeTooManyRequests     = "tooManyRequests"
	ErrCodeUnprocessableEntity = "unprocessableEntity"
)

// Error messages.
// We are using "var" here because some services may want to use different error messages.
var (
	ErrMessageInternal         = "Internal error."
	ErrMessageNotFound         = "Not found."
	ErrMessageMethodNotAllowed = "Method not allowed."
)

// NewError creates a new Error with specified params.
func NewError(domain, code, message string) *Error {
	return &Error{Domain: domain, Code: code, Message: message}
}

// NewInternalError creates a new internal error with specified domain.
func NewInternalError(domain string) *Error {
	return NewError(domain, ErrCodeInternal, ErrMessageInternal)
}

// AddContext adds value to error context.
func (e *Error) AddContext(field string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[field] = value
	return e
}

// MalformedRequestError is an error of the client's request (invalid or missing parameters).
type MalformedRequestError struct {
	HTTPStatusCode int
	Message        string
}

// Error implements the error interface.
func (e *MalformedRequestError) Error() string {
	return fmt.Sprintf("malformed request (%d): %s", e.HTTPStatusCode, e.Message)
}

// NewMalformedRequestError creates a new MalformedRequestError.
func NewMalformedRequestError(httpStatusCode int, message string) *MalformedRequestError {
	return &MalformedRequestError{HTTPStatusCode: httpStatusCode, Message: message}
}

// httpCode2ErrorCode turns the HTTP status text into lower camel case ("Too Many Requests" -> "tooManyRequests").
func httpCode2ErrorCode(httpCode int) string {
	if httpCode == http.StatusInternalServerError {
		return ErrCodeInternal
	}
	var builder strings.Builder
	capitalizeNext := false
	for _, char := range http.StatusText(httpCode) {
		if unicode.IsSpace(char) {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			builder.WriteRune(unicode.ToTitle(char))
			capitalizeNext = false
			continue
		}
		builder.WriteRune(unicode.ToLower(char))
	}
	return builder.String()
}
