// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrUnknownDeck is returned when a deck ID is not present in the catalog.
	ErrUnknownDeck = errors.New("unknown deck")

	// ErrInvalidCardIdentity is returned when a card number falls outside the
	// declared range of its deck.
	ErrInvalidCardIdentity = errors.New("invalid card identity")
)
