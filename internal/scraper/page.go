package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	hiddenBlocks = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>|<style\b[^>]*>.*?</style\s*>|<noscript\b[^>]*>.*?</noscript\s*>|<!--.*?-->`)
	anyTag       = regexp.MustCompile(`<[^>]*>`)
	whitespace   = regexp.MustCompile(`[\s\x{00A0}]+`)
)

// page is one fetched document shared by every extraction strategy
type page struct {
	markup string
	doc    *goquery.Document

	text     string
	textDone bool
}

func newPage(markup string) (*page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &page{markup: markup, doc: doc}, nil
}

// visibleText returns the de-tagged text projection of the markup, computed once
func (p *page) visibleText() string {
	if !p.textDone {
		p.text = visibleText(p.markup)
		p.textDone = true
	}
	return p.text
}

// visibleText strips scripts, styles and comments, replaces every tag with a space,
// decodes entities and collapses whitespace
func visibleText(markup string) string {
	text := hiddenBlocks.ReplaceAllString(markup, " ")
	text = anyTag.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = norm.NFC.String(text)
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// cleanText collapses whitespace in an extracted text fragment
func cleanText(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
