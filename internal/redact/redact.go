// Package redact removes sensitive material from strings before they are
// logged or returned in error responses: provider credentials, connection
// strings, file paths and, above all, inline image payloads, since a
// captured prescription is health data.
package redact

import "regexp"

// Placeholders substituted for redacted material.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedImagePlaceholder      = "[REDACTED_IMAGE]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules run in order. Image payloads go first so that no later rule sees
// fragments of base64 data.
var rules = []rule{
	// data:image/jpeg;base64,....
	{regexp.MustCompile(`data:[\w.+-]+/[\w.+-]+;base64,[A-Za-z0-9+/=_-]*`), RedactedImagePlaceholder},
	// Raw base64 runs long enough to be an image rather than an identifier.
	{regexp.MustCompile(`[A-Za-z0-9+/]{200,}={0,2}`), RedactedImagePlaceholder},

	// Google API keys, as used by the Gemini API.
	{regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`), RedactedKeyPlaceholder},
	// ?key=... on provider URLs.
	{regexp.MustCompile(`([?&]key=)[^&\s"']+`), "${1}" + RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)(x-goog-api-key|authorization)(['"\s:=]+)(bearer\s+)?[^\s'",]+`), "${1}${2}" + RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), "${1}${2}" + RedactedKeyPlaceholder},

	// Database URLs with userinfo: postgres://user:pass@, mongodb+srv://user:pass@
	{regexp.MustCompile(`(?i)(postgres(?:ql)?|mongodb(?:\+srv)?|sqlite)://[^@\s]+@`), "${1}://" + RedactedCredentialPlaceholder + "@"},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), "${1}${2}" + RedactedCredentialPlaceholder},

	// Stack traces.
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), "[STACK_TRACE_REDACTED]"},

	// File paths, which can reveal the storage layout or a user's home directory.
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`), RedactedPathPlaceholder},

	// SQL statements echoed back by drivers.
	{
		regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE)(?:[\s\w,*()='"$]+)?`),
		"[REDACTED_SQL]",
	},

	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
