package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	for key, days := range map[string]int{"7d": 7, "30d": 30, "90d": 90} {
		p, err := ParsePeriod(key)
		require.NoError(t, err)
		assert.Equal(t, key, p.Key)
		assert.Equal(t, days, p.Days)
		assert.False(t, p.AllTime())
	}

	p, err := ParsePeriod("all")
	require.NoError(t, err)
	assert.True(t, p.AllTime())
	assert.True(t, p.Start(time.Now()).IsZero())
}

func TestParsePeriodDefault(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, 30, p.Days)
}

func TestParsePeriodInvalid(t *testing.T) {
	_, err := ParsePeriod("1y")
	assert.Error(t, err)
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p, _ := ParsePeriod("7d")
	assert.Equal(t, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC), p.Start(now))
}

func TestPercentageGuard(t *testing.T) {
	assert.Zero(t, percentage(5, 0))
	assert.InDelta(t, 50.0, percentage(1, 2), 1e-9)
}
