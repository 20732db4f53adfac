package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/arcana-app/arcana-api/internal/service/auth"
	"github.com/arcana-app/arcana-api/internal/service/booster"
	"github.com/arcana-app/arcana-api/internal/service/collection"
	"github.com/arcana-app/arcana-api/internal/service/currency"
	"github.com/arcana-app/arcana-api/internal/service/progression"
	"github.com/arcana-app/arcana-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, booster.ErrPremiumRequired):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, progression.ErrInvalidCardIdentity),
		errors.Is(err, collection.ErrUnknownDeck):
		return http.StatusNotFound

	// Gate violations
	case errors.Is(err, booster.ErrNotEligible):
		return http.StatusTooManyRequests

	case errors.Is(err, booster.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	// Conflicting requests
	case errors.Is(err, booster.ErrIdempotencyConflict):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, booster.ErrUnknownKind),
		errors.Is(err, currency.ErrInvalidAmount),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, booster.ErrPremiumRequired):
		return "Premium subscription required"

	case errors.Is(err, progression.ErrInvalidCardIdentity):
		return "Card not found"

	case errors.Is(err, collection.ErrUnknownDeck):
		return "Deck not found"

	case errors.Is(err, booster.ErrNotEligible):
		return "Booster not available yet"

	case errors.Is(err, booster.ErrInsufficientFunds):
		return "Insufficient balance"

	case errors.Is(err, booster.ErrIdempotencyConflict):
		return "Idempotency key already used for a different booster kind"

	case errors.Is(err, booster.ErrUnknownKind):
		return "Unknown booster kind"

	case errors.Is(err, currency.ErrInvalidAmount):
		return "Invalid amount"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		if strings.Contains(err.Error(), "submit answer") {
			return "Failed to submit answer"
		} else if strings.Contains(err.Error(), "open booster") {
			return "Failed to open booster"
		}
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'AnswerRequest.Correct' Error:Field validation
		// for 'Correct' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
