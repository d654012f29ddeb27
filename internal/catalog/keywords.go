package catalog

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeywordSet finds whole-keyword, case-insensitive occurrences of a fixed
// vocabulary. A keyword boundary is the text edge or any rune that is not a
// letter, digit or underscore, so punctuation inside a keyword ("401(k)") is fine.
type KeywordSet struct {
	keywords []string // catalog spelling
	lowered  []string
}

// NewKeywordSet builds a set from the given keywords, dropping blanks and
// case-insensitive duplicates.
func NewKeywordSet(keywords ...string) *KeywordSet {
	ks := &KeywordSet{}
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		low := strings.ToLower(kw)
		if kw == "" || seen[low] {
			continue
		}
		seen[low] = true
		ks.keywords = append(ks.keywords, kw)
		ks.lowered = append(ks.lowered, low)
	}
	return ks
}

// Len returns the number of keywords in the set.
func (ks *KeywordSet) Len() int {
	return len(ks.keywords)
}

// Find returns the catalog spelling of every keyword present in text, in
// order of first appearance. Each keyword is reported at most once.
func (ks *KeywordSet) Find(text string) []string {
	low := strings.ToLower(text)

	type hit struct {
		pos int
		kw  string
	}
	var hits []hit
	for i, kw := range ks.lowered {
		if pos := indexWord(low, kw); pos >= 0 {
			hits = append(hits, hit{pos: pos, kw: ks.keywords[i]})
		}
	}

	// Stable so equal positions keep catalog order.
	slices.SortStableFunc(hits, func(a, b hit) int { return a.pos - b.pos })

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.kw)
	}
	return out
}

// indexWord returns the byte offset of the first bounded occurrence of kw in s, or -1.
func indexWord(s, kw string) int {
	offset := 0
	for {
		i := strings.Index(s[offset:], kw)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(kw)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return start
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
