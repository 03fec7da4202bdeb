package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidRole        = errors.New("invalid user role")
)

// ===== Event Errors =====
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrTitleRequired     = errors.New("event title is required")
	ErrInvalidCapacity   = errors.New("max attendees must be at least 1")
	ErrNotEventCreator   = errors.New("not authorized to manage this event")
	ErrStartTimeRequired = errors.New("event start time is required")
)

// ===== Registration Errors =====
// Per-user registration outcomes (not registered, already checked in,
// RSVP without a spot) travel as result values or silent no-ops, never
// as errors; only cross-writer contention is error-worthy here.
var (
	ErrRegistrationRetry = errors.New("registration update conflicted, please retry")
)

// ===== Notification Errors =====
var (
	ErrNotificationNotFound = errors.New("notification not found")
)
