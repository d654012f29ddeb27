// Package htmltext turns job descriptions delivered as markup into plain text.
package htmltext

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Closing tags of known elements and void elements mark a description as
// HTML. An opening <Word> alone does not, so generics like List<String> stay text.
var (
	closingTagPattern = regexp.MustCompile(`(?i)</(?:p|div|span|a|b|i|u|em|strong|li|ul|ol|h[1-6]|table|tr|td|th|tbody|thead|section|article|blockquote|pre|code|font|small|sup|sub|body|html)\s*>`)
	voidTagPattern    = regexp.MustCompile(`(?i)<(?:br|hr|img)(?:\s[^<>]*)?/?>`)
)

const blockSelector = "p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, tr, section, article"

// LooksLikeMarkup reports whether s contains the closing tag of a known HTML
// element or a line break, rule or image tag.
func LooksLikeMarkup(s string) bool {
	return closingTagPattern.MatchString(s) || voidTagPattern.MatchString(s)
}

// ToText returns the visible text of s with one line per block element.
// Input that does not look like markup is returned unchanged.
func ToText(s string) (string, error) {
	if !LooksLikeMarkup(s) {
		return s, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	return cleanWhitespace(doc.Text()), nil
}

// cleanWhitespace trims every line, collapses inner runs of spaces and drops
// empty lines.
func cleanWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
