package validation

import (
	"context"
	"strconv"
	"strings"
)

// ExpirySentinels are accepted in an expiry field to mean "no fixed end".
var ExpirySentinels = []string{"Now", "Ongoing", "Does not expire"}

// DateOrder requires the value of later to be numerically greater than or
// equal to the value of earlier. Sentinel values in later always pass. An
// unparseable earlier value fails. An unparseable later value passes only when
// openEnded is set. The error is reported on later.
func DateOrder(earlier, later, message string, openEnded bool, sentinels ...string) Refinement {
	return Refinement{
		Path:    later,
		Depends: []string{earlier},
		Message: message,
		Check: func(data Data) bool {
			from, to := data.String(earlier), data.String(later)
			if from == nil || to == nil {
				return true
			}
			if isSentinel(*to, sentinels) {
				return true
			}
			f, err := parseNumber(*from)
			if err != nil {
				return false
			}
			t, err := parseNumber(*to)
			if err != nil {
				return openEnded
			}
			return t >= f
		},
	}
}

// BothOrNeither requires a and b to be either both present or both absent.
// The error is reported on b.
func BothOrNeither(a, b, message string) Refinement {
	return Refinement{
		Path:    b,
		Depends: []string{a},
		Message: message,
		Check: func(data Data) bool {
			return (data.String(a) == nil) == (data.String(b) == nil)
		},
	}
}

// UniqueIfChanged checks that the value of path is not claimed by someone else.
// The lookup is skipped when the value equals the record's current value, so a
// record never conflicts with itself.
func UniqueIfChanged(path, message string, available func(ctx context.Context, candidate string) (bool, error)) Verifier {
	return Verifier{
		Path:    path,
		Message: message,
		Check: func(ctx context.Context, data, current Data) (bool, error) {
			candidate := data.String(path)
			if candidate == nil {
				return true, nil
			}
			if existing := current.String(path); existing != nil && *existing == *candidate {
				return true, nil
			}
			return available(ctx, *candidate)
		},
	}
}

func isSentinel(value string, sentinels []string) bool {
	for _, s := range sentinels {
		if strings.EqualFold(value, s) {
			return true
		}
	}
	return false
}

func parseNumber(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}
