// Package utils provides utility functions and helpers for common operations
// used throughout the application: string handling, log sanitization, request
// helpers and the JSON response envelope.
package utils

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/storefront/internal/constants"
)

// Plural returns a string with the number and the plural form of the word if necessary.
func Plural(count int64, word string) string {
	if count == 1 {
		return strconv.FormatInt(count, 10) + " " + word
	}
	return strconv.FormatInt(count, 10) + " " + word + "s"
}

// TruncateString truncates a string to the given maximum length and adds ellipsis if necessary.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// MaskEmail masks the user part of an email address, showing only the first and last character.
//
// For example: "user@example.com" becomes "u**r@example.com"
func MaskEmail(email string) string {
	user, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	if len(user) <= 2 {
		return strings.Repeat("*", len(user)) + "@" + domain
	}

	return string(user[0]) + strings.Repeat("*", len(user)-2) + string(user[len(user)-1]) + "@" + domain
}

// SanitizeKeys removes potentially sensitive fields from a map.
// Nested maps and slices of maps are sanitized recursively.
func SanitizeKeys(data map[string]any) map[string]any {
	sensitiveKeys := map[string]bool{
		constants.ColumnPasswordHash: true,
		constants.ColumnSalt:         true,
		"password":                   true,
		"new_password":               true,
		"token":                      true,
		"access":                     true,
		"refresh":                    true,
		"secret":                     true,
	}

	result := make(map[string]any, len(data))

	for k, v := range data {
		if sensitiveKeys[strings.ToLower(k)] {
			result[k] = constants.LogRedactedValue
			continue
		}

		switch nested := v.(type) {
		case map[string]any:
			result[k] = SanitizeKeys(nested)
		case []map[string]any:
			sanitized := make([]map[string]any, len(nested))
			for i, m := range nested {
				sanitized[i] = SanitizeKeys(m)
			}
			result[k] = sanitized
		default:
			if s, ok := v.(string); ok && strings.EqualFold(k, constants.ColumnEmail) {
				result[k] = MaskEmail(s)
				continue
			}
			result[k] = v
		}
	}

	return result
}

// ParseIDParam reads a positive integer URL parameter. Anything else is reported
// as not found, the same as an id that does not exist.
func ParseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewNotFoundError(name, raw)
	}
	return id, nil
}

// ClientIP returns the caller's address without the port. chi's RealIP
// middleware has already applied X-Forwarded-For when it is trusted.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
