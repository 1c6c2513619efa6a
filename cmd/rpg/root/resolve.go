package root

import (
	"fmt"
	"strconv"
	"strings"
)

type pick struct {
	id   string
	name string
}

// resolve selects one entity by 1-based list position or by a unique
// case-insensitive name fragment.
func resolve(arg string, picks []pick) (string, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(picks) {
			return "", fmt.Errorf("index %d out of range (1-%d)", n, len(picks))
		}
		return picks[n-1].id, nil
	}

	q := strings.ToLower(strings.TrimSpace(arg))
	var matches []pick
	for _, p := range picks {
		if strings.Contains(strings.ToLower(p.name), q) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0].id, nil
	case 0:
		return "", fmt.Errorf("nothing matches %q", arg)
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches)", arg, len(matches))
	}
}

// clamp bounds user-supplied numeric input; engine methods assume
// pre-clamped values.
func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

const (
	minEntityPoints  = 1
	maxEntityPoints  = 999
	maxCooldownHours = 168
)

// clampPoints bounds a per-completion point value. The engine trusts
// its inputs, so a negative value passed through would drive the daily
// tallies below zero.
func clampPoints(n int) int { return clamp(n, minEntityPoints, maxEntityPoints) }

// clampCooldown bounds a cooldown to at most a week; zero disables it.
func clampCooldown(n int) int { return clamp(n, 0, maxCooldownHours) }

// clampCost bounds a coin price; a non-positive cost would credit the
// buyer.
func clampCost(n int) int { return clamp(n, 1, maxEntityPoints) }
