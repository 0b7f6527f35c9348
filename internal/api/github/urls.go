package github

import "strings"

const apiHostPrefix = "api."

// NormalizeURL rewrites an API URL into the equivalent website URL by turning the
// leftmost "api.<host>/<segment>/" into "<host>/", e.g.
// "https://api.github.com/users/octocat" -> "https://github.com/octocat".
// At most one rewrite is applied. URLs without the pattern are returned unchanged.
func NormalizeURL(raw string) string {
	for from := 0; from < len(raw); {
		i := strings.Index(raw[from:], apiHostPrefix)
		if i < 0 {
			return raw
		}
		start := from + i
		hostStart := start + len(apiHostPrefix)

		if out, ok := splice(raw, start, hostStart); ok {
			return out
		}
		from = start + 1
	}
	return raw
}

// splice tries to match "<host>/<segment>/" at hostStart and returns raw with
// raw[start:end of match] replaced by "<host>/".
func splice(raw string, start, hostStart int) (string, bool) {
	hostLen := strings.IndexByte(raw[hostStart:], '/')
	if hostLen <= 0 {
		return "", false
	}
	segStart := hostStart + hostLen + 1
	segLen := strings.IndexByte(raw[segStart:], '/')
	if segLen <= 0 {
		return "", false
	}
	rest := segStart + segLen + 1

	var sb strings.Builder
	sb.Grow(len(raw))
	sb.WriteString(raw[:start])
	sb.WriteString(raw[hostStart : hostStart+hostLen+1])
	sb.WriteString(raw[rest:])
	return sb.String(), true
}
