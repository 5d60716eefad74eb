// Package server provides the HTTP REST API for the AI workspace gateway.
package server

import (
	"fmt"
	"net/http"
)

// ErrUnknownProvider indicates the path named a provider we do not serve
type ErrUnknownProvider struct {
	Name string
}

func (e *ErrUnknownProvider) Error() string {
	return fmt.Sprintf("unknown provider: %s", e.Name)
}

// ErrCredentialNotFound indicates no stored credential for the provider
type ErrCredentialNotFound struct {
	Provider string
}

func (e *ErrCredentialNotFound) Error() string {
	return fmt.Sprintf("no credential stored for %s", e.Provider)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrUnknownProvider, *ErrCredentialNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
