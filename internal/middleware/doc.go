// Package middleware provides HTTP middleware for the CampusHub API.
//
// The middleware package contains reusable middleware components for
// authentication, authorization, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and user extraction
//   - Organizer: role check for organizer-only routes
//   - RateLimit: request rate limiting per user/IP
//   - Idempotency: idempotent request handling for POST/PATCH
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//
// # Authentication
//
// The auth middleware validates JWT tokens and extracts user information.
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r.Context())
//
// Organizer must run after Auth; it rejects callers whose token does not
// carry the organizer role.
//
// # Rate Limiting
//
// Rate limiting protects against abuse. Limits are keyed by user ID for
// authenticated requests and by remote address otherwise.
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): returns authenticated user ID
//   - GetUserEmail(ctx): returns authenticated user email
//   - GetClaims(ctx): returns the full JWT claims
//   - GetRequestID(ctx): returns unique request identifier
package middleware
