// Package connectors groups the outbound integrations: contest platforms
// under contests/ and the Google identity and Calendar APIs under google/.
package connectors
