package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps free-form relay text
// at maxLen runes. Quote transcripts arrive over WhatsApp, so the cap must
// not split a multibyte character.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return trimmed
}
