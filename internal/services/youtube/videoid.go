package youtube

import (
	"regexp"
	"strings"
)

var (
	videoURLRegex = regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?|shorts)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	bareIDRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID returns the 11 character id from any common YouTube URL
// form (watch, embed, /v/, shorts, youtu.be).
func ExtractVideoID(rawURL string) (string, bool) {
	matches := videoURLRegex.FindStringSubmatch(strings.TrimSpace(rawURL))
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}

// ParseVideoRef accepts either a URL or a bare video id
func ParseVideoRef(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if bareIDRegex.MatchString(ref) {
		return ref, true
	}
	return ExtractVideoID(ref)
}
