package progress

import (
	"strconv"
	"strings"
)

// ParseDuration converts a loosely formatted duration string into total
// minutes. Accepted shapes: "1h30m", "1h30", "90m", "01:30", "90".
// Anything unparseable yields 0, never an error.
func ParseDuration(raw string) int {
	s := strings.ToLower(strings.ReplaceAll(raw, " ", ""))

	switch {
	case strings.Contains(s, "h"):
		parts := strings.SplitN(s, "h", 2)
		hours := digitsOrZero(parts[0])
		rest := parts[1]
		mins := 0
		if strings.Contains(rest, "m") {
			mins = digitsOrZero(strings.SplitN(rest, "m", 2)[0])
		} else if isDigits(rest) {
			mins, _ = strconv.Atoi(rest)
		}
		return hours*60 + mins
	case strings.Contains(s, "m"):
		return digitsOrZero(strings.SplitN(s, "m", 2)[0])
	case strings.Contains(s, ":"):
		parts := strings.Split(s, ":")
		if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
			return 0
		}
		h, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		return h*60 + m
	case isDigits(s):
		n, _ := strconv.Atoi(s)
		return n
	}
	return 0
}

// ParseClock parses a wall-clock string ("06:00", "22h30", "22:30:15")
// into hour and minute. A bare integer matches no recognized shape and
// fails. ok is false on any failure.
func ParseClock(raw string) (hour, minute int, ok bool) {
	s := strings.ToLower(strings.ReplaceAll(raw, " ", ""))

	var hPart, mPart string
	switch {
	case strings.Contains(s, ":"):
		parts := strings.Split(s, ":")
		if len(parts) == 3 {
			parts = parts[:2] // seconds are ignored
		}
		if len(parts) != 2 {
			return 0, 0, false
		}
		hPart, mPart = parts[0], parts[1]
	case strings.Contains(s, "h"):
		parts := strings.SplitN(s, "h", 2)
		hPart, mPart = parts[0], parts[1]
	default:
		return 0, 0, false
	}

	if !isDigits(hPart) || !isDigits(mPart) {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(hPart)
	minute, _ = strconv.Atoi(mPart)
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func digitsOrZero(s string) int {
	if !isDigits(s) {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
