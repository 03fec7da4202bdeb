// Package helpers provides test utility functions for the CampusHub API.
//
// The helpers package contains common test utilities for assertions,
// pointer creation, and test data manipulation.
//
// # Pointer Helpers
//
// Create pointers to literal values:
//
//	name := helpers.StringPtr("test")
//	count := helpers.IntPtr(42)
//
// # JWT Helpers
//
// Generate test JWT tokens:
//
//	h := helpers.NewJWTHelper(t)
//	token := h.GenerateToken(user)
//	expired := h.GenerateExpiredToken(user)
//
// # Assertion Helpers
//
// Common test assertions:
//
//	helpers.AssertRecordExists(t, db, "event", eventID)
//	helpers.AssertRecordNotExists(t, db, "event", deletedID)
//
// # Request Building
//
// Construct authenticated API requests:
//
//	req := helpers.NewRequest(t, "POST", "/v1/events").
//	    WithBody(body).
//	    WithAuth(h, user).
//	    Build()
package helpers
