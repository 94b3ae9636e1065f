package chat

import "unicode/utf8"

// Excerpt returns the trailing max characters of text. The most recent
// messages sit at the end of a transcript, so the suffix is kept. A max of
// zero or less disables truncation.
func Excerpt(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	i := len(text)
	for n := 0; n < max; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
	}
	return text[i:]
}
