package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contest-reminder/internal/connectors/contests"
	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

func TestAll(t *testing.T) {
	sources := All(contests.NewClient())

	require.Len(t, sources, len(domain.AllPlatforms()))
	for i, p := range domain.AllPlatforms() {
		assert.Equal(t, p, sources[i].Platform())
	}
}

func TestSelect(t *testing.T) {
	sources, err := Select(contests.NewClient(), []string{"Codeforces", " leetcode ", "codeforces", ""})

	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, domain.PlatformCodeforces, sources[0].Platform())
	assert.Equal(t, domain.PlatformLeetCode, sources[1].Platform())
}

func TestSelect_Empty(t *testing.T) {
	sources, err := Select(contests.NewClient(), nil)

	require.NoError(t, err)
	assert.Len(t, sources, 4)
}

func TestSelect_Unknown(t *testing.T) {
	_, err := Select(contests.NewClient(), []string{"atcoder"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
