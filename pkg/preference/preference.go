// Package preference maps the closed user-preference enumerations to their
// numeric storage codes and back. The forward tables are the source of truth;
// the reverse tables are derived once at init and both are read-only after
// that.
package preference

import (
	"errors"
	"fmt"
)

// Enum names accepted by LabelFor and CodeFor.
const (
	EnumAILength   = "ai_length"
	EnumAITone     = "ai_tone"
	EnumAIFormat   = "ai_format"
	EnumAIJargon   = "ai_jargon"
	EnumReadTime   = "read_time"
	EnumBias       = "bias"
	EnumDifficulty = "difficulty"
)

var (
	ErrUnknownEnum  = errors.New("unknown preference enum")
	ErrUnknownCode  = errors.New("unknown preference code")
	ErrUnknownLabel = errors.New("unknown preference label")
)

// forward holds code->label per enum. The jargon codes look inverted but
// match what is already persisted: 0 means jargon is allowed.
var forward = map[string]map[int]string{
	EnumAILength: {0: "short", 1: "medium", 2: "long"},
	EnumAITone:   {0: "formal", 1: "conversational", 2: "technical", 3: "analytical"},
	EnumAIFormat: {0: "highlights", 1: "bullets", 2: "analysis", 3: "quotes"},
	EnumAIJargon: {0: "true", 1: "false"},
	EnumReadTime: {0: "short", 1: "medium", 2: "long"},
	EnumBias: {
		0: "left", 1: "left-center", 2: "center",
		3: "right-center", 4: "right", 5: "unknown",
	},
	EnumDifficulty: {0: "easy", 1: "medium", 2: "hard"},
}

var reverse map[string]map[string]int

func init() {
	reverse = make(map[string]map[string]int, len(forward))
	for enum, codes := range forward {
		reverse[enum] = make(map[string]int, len(codes))
		for code, label := range codes {
			reverse[enum][label] = code
		}
	}
}

// LabelFor returns the label stored under code for the named enum.
func LabelFor(enum string, code int) (string, error) {
	codes, ok := forward[enum]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEnum, enum)
	}
	label, ok := codes[code]
	if !ok {
		return "", fmt.Errorf("%w: %s[%d]", ErrUnknownCode, enum, code)
	}
	return label, nil
}

// CodeFor returns the storage code for the given label of the named enum.
func CodeFor(enum, label string) (int, error) {
	labels, ok := reverse[enum]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownEnum, enum)
	}
	code, ok := labels[label]
	if !ok {
		return 0, fmt.Errorf("%w: %s[%s]", ErrUnknownLabel, enum, label)
	}
	return code, nil
}

// Enums returns the names of all registered enums.
func Enums() []string {
	names := make([]string, 0, len(forward))
	for name := range forward {
		names = append(names, name)
	}
	return names
}

// Codes returns all codes registered for the named enum.
func Codes(enum string) ([]int, error) {
	codes, ok := forward[enum]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnum, enum)
	}
	out := make([]int, 0, len(codes))
	for code := range codes {
		out = append(out, code)
	}
	return out, nil
}
