package service

import "strings"

// extractJSONArray returns the first balanced [...] substring of s
func extractJSONArray(s string) (string, bool) {
	return extractBalanced(s, '[', ']')
}

// extractJSONObject returns the first balanced {...} substring of s
func extractJSONObject(s string) (string, bool) {
	return extractBalanced(s, '{', '}')
}

// extractBalanced scans from the first occurrence of open to its matching
// close, skipping brackets inside JSON string literals
func extractBalanced(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case open:
			if !inString {
				depth++
			}
		case close:
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
