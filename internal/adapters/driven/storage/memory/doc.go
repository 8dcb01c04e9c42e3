// Package memory provides in-memory implementations of the driven store ports.
// They back the "memory" store DSN and are used by tests of the driving adapters.
// Contents are lost when the process exits.
package memory
