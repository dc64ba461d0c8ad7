package extract

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	brRE        = regexp.MustCompile(`\s*<\s*br\s*/?\s*>\s*`)
	paragraphRE = regexp.MustCompile(`<\s*/\s*p\s*>\s*<\s*p[^>]*>`)
	tagRE       = regexp.MustCompile(`<.*?>`)
	// Only terminated references are decoded; "&notrack=1" in a query stays as is.
	entityRE = regexp.MustCompile(`&[^;\s]+;`)
)

// searchRegex returns the first capture group of the first match of re in content.
// A missing match is a *RegexNotFoundError naming what was searched for.
func searchRegex(re *regexp.Regexp, content, name string) (string, error) {
	m := re.FindStringSubmatch(content)
	if m == nil || len(m) < 2 {
		return "", &RegexNotFoundError{Name: name}
	}
	return m[1], nil
}

// htmlSearchRegex is searchRegex followed by cleanHTML on the capture.
func htmlSearchRegex(re *regexp.Regexp, content, name string) (string, error) {
	s, err := searchRegex(re, content, name)
	if err != nil {
		return "", err
	}
	return cleanHTML(s), nil
}

// cleanHTML turns an HTML snippet into plain text: line breaks for <br> and
// paragraph boundaries, tags dropped, entities decoded, outer space trimmed.
func cleanHTML(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = brRE.ReplaceAllString(s, "\n")
	s = paragraphRE.ReplaceAllString(s, "\n")
	s = tagRE.ReplaceAllString(s, "")
	s = entityRE.ReplaceAllStringFunc(s, html.UnescapeString)
	return strings.TrimSpace(s)
}

// findAttr returns the first non-empty value of attr on any element of page.
func findAttr(page []byte, attr string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return "", false
	}
	var (
		val string
		ok  bool
	)
	doc.Find("[" + attr + "]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v := strings.TrimSpace(s.AttrOr(attr, ""))
		if v == "" {
			return true
		}
		val, ok = v, true
		return false
	})
	return val, ok
}
