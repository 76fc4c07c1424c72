package jsonapi

import (
	"fmt"
	"strconv"
)

// NewError creates an Error with the given status, code, title and detail.
func NewError(status int, code, title, detail string) Error {
	return Error{
		Status: strconv.Itoa(status),
		Code:   code,
		Title:  title,
		Detail: detail,
	}
}

// StatusCode returns the HTTP status code as an int.
func (e Error) StatusCode() int {
	code, _ := strconv.Atoi(e.Status)
	return code
}

// WithPointer returns a copy of e pointing at a request body field.
// Example: "/devices"
func (e Error) WithPointer(pointer string) Error {
	e.Source = &ErrorSource{Pointer: pointer}
	return e
}

// Common error constructors

// ErrBadRequest creates a 400 Bad Request error.
func ErrBadRequest(detail string) Error {
	return NewError(400, "bad_request", "Bad Request", detail)
}

// ErrNotFound creates a 404 Not Found error.
func ErrNotFound(resourceType string) Error {
	return NewError(404, "not_found", "Not Found",
		fmt.Sprintf("The requested %s was not found", resourceType))
}

// ErrNotFoundWithID creates a 404 Not Found error with resource ID.
func ErrNotFoundWithID(resourceType, id string) Error {
	return NewError(404, "not_found", "Not Found",
		fmt.Sprintf("The %s with ID '%s' was not found", resourceType, id))
}

// ErrMethodNotAllowed creates a 405 Method Not Allowed error.
func ErrMethodNotAllowed(method string) Error {
	return NewError(405, "method_not_allowed", "Method Not Allowed",
		fmt.Sprintf("The %s method is not allowed for this resource", method))
}

// ErrRateLimited creates a 429 Too Many Requests error.
func ErrRateLimited(detail string) Error {
	if detail == "" {
		detail = "Rate limit exceeded"
	}
	return NewError(429, "rate_limit_exceeded", "Too Many Requests", detail)
}

// ErrInternal creates a 500 Internal Server Error.
func ErrInternal(detail string) Error {
	if detail == "" {
		detail = "An internal error occurred"
	}
	return NewError(500, "internal_error", "Internal Server Error", detail)
}
