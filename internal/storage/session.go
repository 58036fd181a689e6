package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SessionNamingStrategy selects how run output directories are named.
type SessionNamingStrategy int

const (
	// SessionUUID uses the full run ID (default).
	SessionUUID SessionNamingStrategy = iota
	// SessionTimestamp uses timestamp + short run ID.
	SessionTimestamp
	// SessionDescriptive uses timestamp + sanitized request snippet + short run ID.
	SessionDescriptive
)

// SessionDir returns the storage-relative directory for one run's
// artifacts.
func SessionDir(runID, request string, strategy SessionNamingStrategy) string {
	shortID := runID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	switch strategy {
	case SessionTimestamp:
		// Format: sessions/2026-08-27_1530_82f06b15
		timestamp := time.Now().Format("2006-01-02_1504")
		return filepath.Join("sessions", fmt.Sprintf("%s_%s", timestamp, shortID))

	case SessionDescriptive:
		// Format: sessions/2026-08-27_1530_todo-list-api_82f06b15
		timestamp := time.Now().Format("2006-01-02_1504")
		sanitized := sanitizeForFilename(request, 30)
		return filepath.Join("sessions", fmt.Sprintf("%s_%s_%s", timestamp, sanitized, shortID))

	default:
		return filepath.Join("sessions", runID)
	}
}

// sanitizeForFilename converts a string to a safe filename component.
func sanitizeForFilename(s string, maxLen int) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")

	replacements := map[string]string{
		"/":  "-",
		"\\": "-",
		":":  "-",
		".":  "-",
		"*":  "",
		"?":  "",
		"\"": "",
		"<":  "",
		">":  "",
		"|":  "",
		",":  "",
		"'":  "",
		"!":  "",
		"@":  "",
		"#":  "",
		"$":  "",
		"%":  "",
		"^":  "",
		"&":  "",
		"(":  "",
		")":  "",
		"[":  "",
		"]":  "",
		"{":  "",
		"}":  "",
		";":  "",
		"=":  "",
		"+":  "",
	}
	for old, repl := range replacements {
		s = strings.ReplaceAll(s, old, repl)
	}

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	// Truncate on rune boundaries; a byte slice could split a multi-byte
	// character and leave an invalid-UTF-8 directory name.
	if runes := []rune(s); len(runes) > maxLen {
		s = strings.TrimRight(string(runes[:maxLen]), "-")
	}

	if s == "" {
		s = "output"
	}

	return s
}
