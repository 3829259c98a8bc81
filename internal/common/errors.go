package common

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id '%s' not found", e.Resource, e.ID)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indicates invalid input data.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// RateLimitError indicates the user has exhausted their delivery quota
// for the current window.
type RateLimitError struct {
	UserID int64
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for user %d", e.UserID)
}

// NewRateLimitError creates a new RateLimitError.
func NewRateLimitError(userID int64) *RateLimitError {
	return &RateLimitError{UserID: userID}
}

// UnauthorizedError indicates missing or invalid authentication.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return e.Message
}

// NewUnauthorizedError creates a new UnauthorizedError.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// DeliveryError indicates a channel deliverer reported a failure.
type DeliveryError struct {
	Channel string
	Message string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %s", e.Channel, e.Message)
}

// NewDeliveryError creates a new DeliveryError.
func NewDeliveryError(channel, message string) *DeliveryError {
	return &DeliveryError{Channel: channel, Message: message}
}
