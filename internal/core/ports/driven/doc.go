// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ContestSource: Fetches upcoming contests from one platform
//   - CalendarOpener: Exchanges a refresh token for a calendar handle
//   - CalendarClient: Queries and inserts events on one user's calendar
//   - UserStore: Credential record persistence
//   - SchedulerStore: Scheduler task state persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ConfigStore: File-based configuration. Environment variables apply without it.
//   - TokenSealer: Encrypts refresh tokens at rest. Tokens are stored as-is without it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
