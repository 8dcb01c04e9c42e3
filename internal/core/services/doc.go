// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline for one user is Aggregator -> ReminderWriter, driven by
// SyncOrchestrator. FleetSync runs the orchestrator for every user and
// the Scheduler triggers FleetSync on an interval.
package services
