// Package repository implements the data access layer for the CampusHub API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles CRUD operations for a specific domain entity.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, Update, Delete, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// # Database Connection
//
// Repositories accept a database.Database interface, allowing:
//
//   - Connection pooling and management at a higher level
//   - Transaction support when needed
//   - Easy testing with mock implementations
//
// # Registration State Writes
//
// EventRepository.UpdateRegistrationState persists the full registration
// state of an event conditionally on its version counter:
//
//	UPDATE type::record($id) SET ..., version = $next_version
//	WHERE version = $expected_version
//
// A write that matches no record returns database.ErrConflict, signalling
// that a concurrent writer updated the event first.
//
// # Query Patterns
//
// Common query patterns used:
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - time::now() for automatic timestamps
//   - count() ... GROUP ALL for aggregate counts
//
// # Example Usage
//
//	repo := NewEventRepository(db)
//	event, err := repo.GetByID(ctx, "event:abc123")
//	if err != nil {
//	    return err
//	}
//	if event == nil {
//	    // Handle not found
//	}
package repository
