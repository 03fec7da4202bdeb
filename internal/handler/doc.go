// Package handler provides HTTP request handlers for the CampusHub API.
//
// The handler package contains all HTTP endpoint implementations organized by domain.
// Each handler struct encapsulates the dependencies needed to serve requests for a
// specific feature area (authentication, events, notifications, check-in).
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the services it depends on
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details responses
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: single resource with optional HATEOAS links
//   - WriteCollection: list of resources with an item count
//   - WriteJSON: raw JSON response
//   - WriteError: RFC 9457 Problem Details error response
//
// # Authentication
//
// Most handlers require authentication via JWT tokens. The auth middleware
// extracts the user ID and makes it available via middleware.GetUserID.
//
// # Example Usage
//
//	handler := NewEventHandler(registryService)
//	mux.HandleFunc("GET /v1/events", handler.ListEvents)
//	mux.HandleFunc("POST /v1/events", handler.CreateEvent)
package handler
