// Package domain defines the core business entities for contestcal.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ContestRecord: An upcoming contest normalised from one platform
//   - UserCredential: A user's stored identity and long-lived refresh token
//   - SyncOutcome: The result of one per-user synchronisation pass
//   - FleetSummary: The result of a batch run over every syncable user
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
