package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestExpandSingleDay(t *testing.T) {
	g := NewGenerator(8)

	doses, err := g.Expand("2025-01-01", "2025-01-01", 8)
	require.NoError(t, err)

	require.Len(t, doses, 2)
	assert.Equal(t, ts("2025-01-01T08:00:00"), doses[0])
	assert.Equal(t, ts("2025-01-01T16:00:00"), doses[1])
}

func TestExpandSingleDayLargeInterval(t *testing.T) {
	g := NewGenerator(8)

	// Interval larger than the remaining day still yields the anchor dose.
	doses, err := g.Expand("2025-01-01", "2025-01-01", 24)
	require.NoError(t, err)

	require.Len(t, doses, 1)
	assert.Equal(t, ts("2025-01-01T08:00:00"), doses[0])
}

func TestExpandDriftsAcrossMidnight(t *testing.T) {
	g := NewGenerator(8)

	doses, err := g.Expand("2025-01-01", "2025-01-02", 8)
	require.NoError(t, err)

	want := []time.Time{
		ts("2025-01-01T08:00:00"),
		ts("2025-01-01T16:00:00"),
		ts("2025-01-02T00:00:00"),
		ts("2025-01-02T08:00:00"),
		ts("2025-01-02T16:00:00"),
	}
	assert.Equal(t, want, doses)
}

func TestExpandUnevenIntervalDrift(t *testing.T) {
	g := NewGenerator(8)

	// 7h does not divide the day; time-of-day drifts and stays drifted.
	doses, err := g.Expand("2025-03-10", "2025-03-11", 7)
	require.NoError(t, err)

	want := []time.Time{
		ts("2025-03-10T08:00:00"),
		ts("2025-03-10T15:00:00"),
		ts("2025-03-10T22:00:00"),
		ts("2025-03-11T05:00:00"),
		ts("2025-03-11T12:00:00"),
		ts("2025-03-11T19:00:00"),
	}
	assert.Equal(t, want, doses)
}

func TestExpandProperties(t *testing.T) {
	g := NewGenerator(8)

	doses, err := g.Expand("2025-02-01", "2025-02-10", 5)
	require.NoError(t, err)
	require.NotEmpty(t, doses)

	assert.Equal(t, "2025-02-01", doses[0].Format("2006-01-02"))
	for i := 1; i < len(doses); i++ {
		assert.Equal(t, 5*time.Hour, doses[i].Sub(doses[i-1]))
		assert.True(t, doses[i].After(doses[i-1]))
	}
	last := doses[len(doses)-1]
	assert.False(t, last.After(ts("2025-02-10T23:59:59")))
}

func TestExpandAnchorConfigurable(t *testing.T) {
	g := NewGenerator(6)

	doses, err := g.Expand("2025-01-01", "2025-01-01", 12)
	require.NoError(t, err)

	require.Len(t, doses, 2)
	assert.Equal(t, ts("2025-01-01T06:00:00"), doses[0])
	assert.Equal(t, ts("2025-01-01T18:00:00"), doses[1])
}

func TestExpandInvalidInputs(t *testing.T) {
	g := NewGenerator(8)

	cases := []struct {
		name     string
		start    string
		end      string
		interval int
	}{
		{"zero interval", "2025-01-01", "2025-01-02", 0},
		{"negative interval", "2025-01-01", "2025-01-02", -4},
		{"end before start", "2025-01-02", "2025-01-01", 8},
		{"bad start date", "not-a-date", "2025-01-02", 8},
		{"bad end date", "2025-01-01", "01/02/2025", 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.Expand(tc.start, tc.end, tc.interval)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}
}

func TestNewGeneratorRejectsBadAnchor(t *testing.T) {
	g := NewGenerator(-1)

	doses, err := g.Expand("2025-01-01", "2025-01-01", 24)
	require.NoError(t, err)
	require.Len(t, doses, 1)
	assert.Equal(t, ts("2025-01-01T08:00:00"), doses[0])
}
