package executor

import (
	"strings"

	"github.com/doeshing/shai-voice/internal/domain"
)

var (
	authMarkers = []string{
		"authentication", "unauthorized", "invalid api key", "not logged in",
		"please log in", "401", "/login",
	}
	networkMarkers = []string{
		"network", "connection refused", "econnrefused", "enotfound",
		"could not resolve host", "unreachable", "connection reset", "etimedout",
	}
	rateLimitMarkers = []string{
		"rate limit", "rate-limit", "too many requests", "429", "quota", "overloaded",
	}
)

// IsAuthFailure reports stderr that indicates missing or rejected credentials.
func IsAuthFailure(stderr string) bool {
	return containsAny(stderr, authMarkers)
}

// IsNetworkFailure reports stderr that indicates the service was unreachable.
func IsNetworkFailure(stderr string) bool {
	return containsAny(stderr, networkMarkers)
}

// IsRateLimited reports stderr that indicates throttling.
func IsRateLimited(stderr string) bool {
	return containsAny(stderr, rateLimitMarkers)
}

// ClassifyOutcome maps a finished process onto an execution status.
// Stderr markers are checked first in the order auth, network, rate limit,
// so a process that exits 0 while reporting an auth problem is still an
// auth error.
func ClassifyOutcome(stderr string, exitCode int) domain.ExecutionStatus {
	switch {
	case IsAuthFailure(stderr):
		return domain.StatusAuthError
	case IsNetworkFailure(stderr):
		return domain.StatusNetworkError
	case IsRateLimited(stderr):
		return domain.StatusRateLimited
	case exitCode != 0:
		return domain.StatusGeneralError
	default:
		return domain.StatusSuccess
	}
}

// RelevantLine picks the stderr line that explains status: the first line
// carrying one of the status markers, otherwise the first non-empty line.
func RelevantLine(stderr string, status domain.ExecutionStatus) string {
	var markers []string
	switch status {
	case domain.StatusAuthError:
		markers = authMarkers
	case domain.StatusNetworkError:
		markers = networkMarkers
	case domain.StatusRateLimited:
		markers = rateLimitMarkers
	}

	first := ""
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if first == "" {
			first = line
		}
		if markers != nil && containsAny(line, markers) {
			return line
		}
	}
	return first
}

func containsAny(text string, markers []string) bool {
	lower := strings.ToLower(text)
	for _, m := range markers {
		if isNumeric(m) {
			if containsNumber(lower, m) {
				return true
			}
			continue
		}
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// containsNumber reports whether code appears in text as a whole number,
// so "401" matches "HTTP 401" but not "84017".
func containsNumber(text, code string) bool {
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], code)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(code)
		if (start == 0 || !isWordByte(text[start-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
