package bgg

import "strings"

// StripTags removes every "<...>" span from s, the same spans the pattern
// <[^>]*> would match. It is lossy: a bare "<" in prose swallows text up to
// the next ">". A "<" with no closing ">" after it is kept as is.
func StripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for {
		open := strings.IndexByte(s, '<')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(s[open+1:], '>')
		if closing < 0 {
			break
		}
		b.WriteString(s[:open])
		s = s[open+closing+2:]
	}

	b.WriteString(s)
	return b.String()
}
