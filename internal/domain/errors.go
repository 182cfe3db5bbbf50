package domain

import "errors"

var (
	// Menu errors
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidPrice     = errors.New("price must not be negative")

	// Order errors
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")

	// Accounting errors
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrInvalidAmount    = errors.New("amount must not be negative")
	ErrEmptyConcept     = errors.New("concept is required")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMovement  = errors.New("invalid movement type")
	ErrInvalidDateRange = errors.New("invalid date range")

	// Session errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")

	// Upstream errors
	ErrBackendUnavailable = errors.New("backend unavailable")
)
