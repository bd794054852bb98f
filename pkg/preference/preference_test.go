package preference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripAllEnums(t *testing.T) {
	for _, enum := range Enums() {
		codes, err := Codes(enum)
		require.NoError(t, err)
		for _, code := range codes {
			label, err := LabelFor(enum, code)
			require.NoError(t, err, "enum %s code %d", enum, code)

			back, err := CodeFor(enum, label)
			require.NoError(t, err, "enum %s label %s", enum, label)
			assert.Equal(t, code, back, "enum %s label %s", enum, label)
		}
	}
}

func TestLabelForUnknownEnum(t *testing.T) {
	_, err := LabelFor("mood", 0)
	assert.ErrorIs(t, err, ErrUnknownEnum)
}

func TestLabelForUnknownCode(t *testing.T) {
	_, err := LabelFor(EnumAILength, 99)
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestCodeForUnknownLabel(t *testing.T) {
	_, err := CodeFor(EnumAITone, "sarcastic")
	assert.ErrorIs(t, err, ErrUnknownLabel)
}

func TestJargonCodesAreInverted(t *testing.T) {
	// Code 0 means jargon allowed; the mapping is fixed by the stored data.
	code, err := CodeFor(EnumAIJargon, "true")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = CodeFor(EnumAIJargon, "false")
	require.NoError(t, err)
	assert.Equal(t, 1, code)
}

func TestReadTimeBucketBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		chars  int
		bucket int
	}{
		{"empty", 0, 0},
		{"negative", -5, 0},
		{"one minute read", 1250, 0},
		{"just under two minutes", 2499, 0},
		{"exactly two minutes", 2500, 1},
		{"five minute read", 6250, 1},
		{"exactly seven minutes", 8750, 1},
		{"over seven minutes", 8751, 2},
		{"long read", 40000, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.bucket, ReadTimeBucket(tt.chars))
		})
	}
}

func TestBiasForSource(t *testing.T) {
	reuters, err := CodeFor(EnumBias, "center")
	require.NoError(t, err)
	assert.Equal(t, reuters, BiasForSource("Reuters"))
	assert.Equal(t, reuters, BiasForSource("  Reuters  "))

	right, err := CodeFor(EnumBias, "right")
	require.NoError(t, err)
	assert.Equal(t, right, BiasForSource("Fox Online News"))

	unknown, err := CodeFor(EnumBias, "unknown")
	require.NoError(t, err)
	assert.Equal(t, unknown, BiasForSource("Backyard Blog"))
	assert.Equal(t, unknown, BiasForSource(""))
}
