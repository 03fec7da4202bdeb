// Package jobs implements background job processing for the CampusHub API.
//
// The jobs package contains scheduled tasks that run independently of HTTP
// request handling.
//
// # Job Types
//
// Available background jobs:
//
//   - ReminderScanner: periodic sweep that delivers day-before event
//     reminders to registered attendees
//
// # Lifecycle
//
// Jobs expose Start and Stop; Stop blocks until the current run finishes:
//
//	scanner := jobs.NewReminderScanner(reminderService, 15*time.Minute)
//	scanner.Start()
//	defer scanner.Stop()
//
// # Error Handling
//
// Jobs log errors but don't crash the application. Repeated runs are safe;
// the reminder service deduplicates deliveries through its sent ledger.
package jobs
