package chat

import (
	"regexp"
	"strings"
)

// MediaSentinel replaces message bodies that only reference attached media.
const MediaSentinel = "[MEDIA FILE]"

// English and Spanish exports use different placeholder wording.
var mediaRegex = regexp.MustCompile(`(?i)(omitted|omitido|attached|adjunto|file|archivo)`)

var attachmentPrefixes = []string{"<attached:", "<adjunto:"}

// NormalizeMedia returns MediaSentinel for media placeholders and the text
// unchanged otherwise.
func NormalizeMedia(text string) string {
	if mediaRegex.MatchString(text) {
		return MediaSentinel
	}
	for _, p := range attachmentPrefixes {
		if strings.HasPrefix(text, p) {
			return MediaSentinel
		}
	}
	return text
}
