package logging

import (
	"fmt"
	"net/url"
	"strings"
)

// secretKeyPatterns are substrings of attribute keys whose values are masked.
// Matching is case-insensitive.
var secretKeyPatterns = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"API_KEY",
	"PRIVATE",
}

// tokenPrefixes are value prefixes that identify a credential regardless of
// the attribute key. The catalog token is usually a GitHub token.
var tokenPrefixes = []string{
	"ghp_",
	"gho_",
	"ghu_",
	"ghs_",
	"ghr_",
	"github_pat_",
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// MaskURL redacts the password of a URL with embedded credentials and any
// query parameter whose name looks secret (for example ?access_token=...).
// Unparsable input is returned unchanged.
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	changed := false
	if parsed.User != nil {
		if password, ok := parsed.User.Password(); ok && password != "" {
			parsed.User = url.UserPassword(parsed.User.Username(), MaskValue(password))
			changed = true
		}
	}

	if parsed.RawQuery != "" {
		query := parsed.Query()
		masked := false
		for key, values := range query {
			if !ShouldMask(key) {
				continue
			}
			for i, v := range values {
				values[i] = MaskValue(v)
			}
			masked = true
		}
		if masked {
			parsed.RawQuery = query.Encode()
			changed = true
		}
	}

	if !changed {
		return rawURL
	}
	return parsed.String()
}

// ShouldMask reports whether the key name suggests it carries sensitive data.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix reports whether the value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// redact returns the value to print for an attribute.
func redact(key string, value any) any {
	if ShouldMask(key) {
		return MaskValue(fmt.Sprint(value))
	}
	s, ok := value.(string)
	if !ok {
		return value
	}
	if ContainsTokenPrefix(s) {
		return MaskValue(s)
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return MaskURL(s)
	}
	return value
}
