package logger

import (
	"strconv"
	"strings"
	"time"
)

// Status is the status field for an operation that returned err.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	return "fail"
}

// Took is the time since start in whole milliseconds.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds d to milliseconds. Negative durations become zero.
func RoundMS(d time.Duration) time.Duration {
	return max(d, 0).Round(time.Millisecond)
}

// SummarizeStrings joins at most limit values. When values are cut, the
// result ends with "+N" and the second return is true.
func SummarizeStrings(values []string, limit int) (string, bool) {
	if len(values) <= limit {
		return strings.Join(values, ", "), false
	}
	if limit <= 0 {
		return "+" + strconv.Itoa(len(values)), true
	}
	rest := len(values) - limit
	return strings.Join(values[:limit], ", ") + ", +" + strconv.Itoa(rest), true
}
