// Package config manages application configuration for the CampusHub API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and validation settings
//   - ReminderConfig: reminder scanner interval and lookahead window
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	DB_HOST, DB_PORT     - SurrealDB address
//	DB_USER, DB_PASSWORD - Database credentials
//	DB_NAMESPACE, DB_DATABASE - Namespace and database name
//	JWT_PRIVATE_KEY_PATH - RSA private key for token signing
//	JWT_EXPIRATION_MINS  - Access token lifetime in minutes
//	REMINDER_INTERVAL    - Scanner run interval (default: 15m)
//	REMINDER_LOOKAHEAD   - Reminder window ahead of now (default: 24h)
//
// # Validation
//
// Validate reports every problem at once via errors.Join, so a
// misconfigured deployment fails fast with a complete list.
package config
