package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSamePreferencesIgnoresGeneratedText(t *testing.T) {
	a := Summary{Summary: "one", AILength: 1, AITone: 2, AIFormat: 0, AIJargonAllowed: 0, Difficulty: 1}
	b := Summary{Summary: "different text", AILength: 1, AITone: 2, AIFormat: 0, AIJargonAllowed: 0, Difficulty: 2}

	assert.True(t, a.SamePreferences(b))
}

func TestSamePreferencesDetectsAnyCodeChange(t *testing.T) {
	base := Summary{AILength: 1, AITone: 1, AIFormat: 1, AIJargonAllowed: 1}

	for _, other := range []Summary{
		{AILength: 0, AITone: 1, AIFormat: 1, AIJargonAllowed: 1},
		{AILength: 1, AITone: 0, AIFormat: 1, AIJargonAllowed: 1},
		{AILength: 1, AITone: 1, AIFormat: 0, AIJargonAllowed: 1},
		{AILength: 1, AITone: 1, AIFormat: 1, AIJargonAllowed: 0},
	} {
		assert.False(t, base.SamePreferences(other))
	}
}

func TestQueryFreshness(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour

	fresh := &Query{IssuedAt: now.Add(-23 * time.Hour)}
	assert.True(t, fresh.IsFresh(now, ttl))

	exactly := &Query{IssuedAt: now.Add(-24 * time.Hour)}
	assert.False(t, exactly.IsFresh(now, ttl))

	stale := &Query{IssuedAt: now.Add(-25 * time.Hour)}
	assert.False(t, stale.IsFresh(now, ttl))
}
