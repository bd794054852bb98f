package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 3, 10, 15, 42, 7, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}

func TestSameDay(t *testing.T) {
	utcMidnight := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	eet := time.FixedZone("EET", 2*60*60)

	assert.True(t, SameDay(utcMidnight, time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)))
	// Each side is read on its own wall clock, so a date parsed in UTC
	// still matches a local clock in another zone.
	assert.True(t, SameDay(utcMidnight, time.Date(2026, 3, 10, 15, 0, 0, 0, eet)))
	assert.True(t, SameDay(utcMidnight, time.Date(2026, 3, 10, 1, 0, 0, 0, eet)))
	assert.False(t, SameDay(utcMidnight, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
	assert.False(t, SameDay(utcMidnight, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
}
