package logging

import "regexp"

// RedactedValue is the replacement for sensitive values.
const RedactedValue = "[REDACTED]"

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bearer\s+[^\s"']+`),
	regexp.MustCompile(`(?i)(secret|token|password)([=:]\s*)["']?[^\s"']+["']?`),
}

// Redact replaces credentials in s, such as the daemon's shared secret
// echoed back inside an error message.
func Redact(s string) string {
	s = secretPatterns[0].ReplaceAllString(s, "Bearer "+RedactedValue)
	return secretPatterns[1].ReplaceAllString(s, "${1}${2}"+RedactedValue)
}
