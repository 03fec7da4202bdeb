// Package fixtures provides test data factories for the CampusHub API.
//
// The fixtures package contains factory functions for creating test data
// with sensible defaults and optional customization.
//
// # Factory Pattern
//
// Create a factory with a database connection:
//
//	f := fixtures.New(testDB)
//
// # Creating Test Data
//
// Factory methods create domain entities:
//
//	user := f.CreateUser(t)               // Default student
//	organizer := f.CreateOrganizer(t)     // Organizer role
//	event := f.CreateEvent(t, organizer)  // Event owned by organizer
//	f.RegisterAttendee(t, event, user)    // Pre-registered state
//
// # Customization
//
// Use option functions for customization:
//
//	event := f.CreateEvent(t, organizer, WithCapacity(2))
//	event := f.CreateEvent(t, organizer, WithStartTime(tomorrow))
//
// # Random Data
//
// Unique identifiers are generated automatically:
//
//	user1 := f.CreateUser(t) // user_abc123@test.local
//	user2 := f.CreateUser(t) // user_def456@test.local
//
// # Cleanup
//
// Test data is cleaned up when the test database is closed.
package fixtures
