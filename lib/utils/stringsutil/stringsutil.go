package stringsutil

// LimitStringLen limits the length of s to maxLen.
//
// If len(s) > maxLen, then the middle of s is replaced with "..."
func LimitStringLen(s string, maxLen int) string {
	if maxLen <= 4 || len(s) <= maxLen {
		return s
	}
	n := (maxLen / 2) - 1
	return s[:n] + ".." + s[len(s)-n:]
}
