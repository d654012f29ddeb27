package extract

import (
	"strings"
	"unicode/utf8"
)

// Preview collapses whitespace in text and bounds it to width runes. When the
// collapsed text is too long, whole words are dropped from the end until the
// remaining words plus placeholder fit. A first word that cannot fit on its
// own is cut so the result still respects width.
func Preview(text string, width int, placeholder string) string {
	words := strings.Fields(text)
	clean := strings.Join(words, " ")
	if utf8.RuneCountInString(clean) <= width {
		return clean
	}

	budget := width - utf8.RuneCountInString(placeholder)
	if budget <= 0 {
		return truncateRunes(placeholder, width)
	}

	var b strings.Builder
	used := 0
	for i, w := range words {
		n := utf8.RuneCountInString(w)
		if i > 0 {
			n++ // joining space
		}
		if used+n > budget {
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
		used += n
	}

	if used == 0 {
		return truncateRunes(words[0], budget) + placeholder
	}
	return b.String() + placeholder
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
