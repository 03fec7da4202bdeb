// Package model defines domain entities and data structures for the CampusHub API.
//
// The model package contains all struct definitions for domain objects, request/response
// types, and error definitions. Models are used across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Application user with authentication credentials
//   - Event: Campus event with capacity-bounded registration state
//   - Attendee: A user's entry on an event's registered list or waitlist
//   - Notification: Per-user feed message, newest first
//   - SentReminder: Permanent dedup record for reminder delivery
//
// # Registration State Machine
//
// Event carries its registration state and the transitions over it:
//
//	result := event.Register(attendee)   // registered or waitlisted (FIFO)
//	res := event.Unregister(userID)      // removal plus head promotion
//	pos := event.WaitlistPosition(userID)
//
// Transitions are pure in-memory mutations; persistence and locking live
// in the repository and service layers.
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Attendee struct {
//	    UserID       string    `json:"user_id"`
//	    UserName     string    `json:"user_name"`
//	    RegisteredAt time.Time `json:"registered_at"`
//	}
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
