package texttospeech

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const combiningTilde = '̃'

// Normalize prepares text for synthesis engines that mispronounce accented
// characters. Accents are stripped while ñ/Ñ survive, anything outside
// letters, digits, spaces and basic punctuation is dropped, and whitespace
// runs collapse to a single space.
func Normalize(text string) string {
	runes := make([]rune, 0, len(text))
	for _, r := range norm.NFD.String(text) {
		if unicode.Is(unicode.Mn, r) {
			if r == combiningTilde && len(runes) > 0 {
				switch runes[len(runes)-1] {
				case 'n':
					runes[len(runes)-1] = 'ñ'
				case 'N':
					runes[len(runes)-1] = 'Ñ'
				}
			}
			continue
		}
		runes = append(runes, r)
	}

	var b strings.Builder
	b.Grow(len(runes))
	pendingSpace := false
	for _, r := range runes {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == 'ñ', r == 'Ñ', r == '.', r == ',', r == '!', r == '?':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
