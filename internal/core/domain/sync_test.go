package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncOutcome_Message(t *testing.T) {
	assert.Equal(t, "Sync complete. Added 0 new events to your calendar.", SyncOutcome{}.Message())
	assert.Equal(t, "Sync complete. Added 2 new events to your calendar.", SyncOutcome{EventsAdded: 2}.Message())
}
