package recipe

import (
	"fmt"
	"math"
	"strconv"
)

// ParseMinutes extracts the first run of decimal digits in a free-text
// cooking time ("30 минут", "около 1,5 часа") and reads it as whole minutes.
// ok is false when s contains no digits. A run too long to fit an int
// saturates to math.MaxInt so it still exceeds any ceiling.
func ParseMinutes(s string) (minutes int, ok bool) {
	start := -1
	end := len(s)
	for i := 0; i < len(s); i++ {
		isDigit := s[i] >= '0' && s[i] <= '9'
		if start < 0 && isDigit {
			start = i
		} else if start >= 0 && !isDigit {
			end = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return math.MaxInt, true
	}
	return n, true
}

// FormatMinutes renders a duration the way recipe cards show it.
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours, mins := minutes/60, minutes%60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}
