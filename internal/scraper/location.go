package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const (
	minLocationLen = 4
	maxLocationLen = 200
)

// locationStrategy yields location candidates; plausibility is checked by the caller
type locationStrategy struct {
	name string
	find func(p *page) []string
}

// locationStrategies run in priority order; the first plausible candidate wins
var locationStrategies = []locationStrategy{
	{name: "meta", find: metaLocation},
	{name: "attribute", find: attributeLocation},
	{name: "where-section", find: whereSectionLocation},
	{name: "street-address", find: streetAddressLocation},
	{name: "city-country", find: cityCountryLocation},
	{name: "labeled", find: labeledLocation},
}

// ExtractLocation runs the heuristic location chain over markup.
// Returns "" when no strategy yields a plausible location.
func ExtractLocation(markup string) string {
	p, err := newPage(markup)
	if err != nil {
		return ""
	}
	location, _ := extractLocation(p)
	return location
}

func extractLocation(p *page) (location, strategy string) {
	for _, s := range locationStrategies {
		for _, candidate := range s.find(p) {
			candidate = trimLocation(candidate)
			if plausibleLocation(candidate) {
				return candidate, s.name
			}
		}
	}
	return "", ""
}

// plausibleLocation rejects fragments that are too short or long, URLs, and text
// without any capital letter
func plausibleLocation(s string) bool {
	n := len([]rune(s))
	if n < minLocationLen || n > maxLocationLen {
		return false
	}
	if looksLikeURL(s) {
		return false
	}
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

// looksLikeURL reports whether s is itself a link rather than a place
func looksLikeURL(s string) bool {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "www.") {
		return true
	}
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func trimLocation(s string) string {
	return strings.Trim(cleanText(s), " ,;:.-|\"'")
}

var metaLocationKeys = map[string]bool{
	"og:locality":       true,
	"og:location":       true,
	"event:location":    true,
	"location":          true,
	"geo.placename":     true,
	"place:location":    true,
	"og:street-address": true,
	"business:location": true,
	"event:venue":       true,
}

// metaLocation reads <meta property|name="og:locality|geo.placename|..." content="...">
func metaLocation(p *page) []string {
	var out []string
	p.doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key := sel.AttrOr("property", sel.AttrOr("name", sel.AttrOr("itemprop", "")))
		if !metaLocationKeys[strings.ToLower(strings.TrimSpace(key))] {
			return
		}
		if content := sel.AttrOr("content", ""); content != "" {
			out = append(out, content)
		}
	})
	return out
}

// attributeLocation reads data-location / data-venue attributes and
// itemprop="location" blocks with a nested itemprop="name"
func attributeLocation(p *page) []string {
	var out []string
	p.doc.Find("[data-location], [data-venue]").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"data-location", "data-venue"} {
			if v := sel.AttrOr(attr, ""); v != "" {
				out = append(out, v)
			}
		}
	})

	p.doc.Find(`[itemprop="location"]`).Each(func(_ int, sel *goquery.Selection) {
		name := sel.Find(`[itemprop="name"]`).First()
		if name.Length() == 0 {
			return
		}
		if v := name.AttrOr("content", ""); v != "" {
			out = append(out, v)
			return
		}
		out = append(out, name.Text())
	})
	return out
}

var (
	whereSection = regexp.MustCompile(`(?i)\bwhere\s*\?\s*([\p{L}\p{N} ,.'’/#()\-]{4,200})`)
	onlineWord   = regexp.MustCompile(`(?i)\bonline\b`)
	lastWord     = regexp.MustCompile(`\s*\S+$`)
)

// whereSectionLocation reads the address run following a "Where?" label in the visible
// text. The run ends at an ampersand, the word "Online", the next "Label?" / "Label:" or
// end of text.
func whereSectionLocation(p *page) []string {
	text := p.visibleText()

	var out []string
	for _, m := range whereSection.FindAllStringSubmatchIndex(text, -1) {
		run := text[m[2]:m[3]]

		// A following "?" or ":" means the run swallowed the next label ("... Sweden When?")
		if m[3] < len(text) && (text[m[3]] == '?' || text[m[3]] == ':') {
			run = lastWord.ReplaceAllString(run, "")
		}
		if loc := onlineWord.FindStringIndex(run); loc != nil {
			run = run[:loc[0]]
		}
		out = append(out, run)
	}
	return out
}

var streetAddress = regexp.MustCompile(
	`(?:\b\d{1,5}[A-Za-z]?\s+\p{Lu}[\p{L}.'\-]*(?:\s+[\p{L}.'\-]+){0,4}|\b\p{Lu}[\p{L}.'\-]*(?:\s+[\p{L}.'\-]+){0,3}\s+\d{1,5}[A-Za-z]?)` +
		`,\s*\p{Lu}[\p{L}.'\-]*(?:\s+\p{Lu}[\p{L}.'\-]*)?` +
		`,\s*\p{Lu}[\p{L}.'\-]*(?:\s+\p{Lu}[\p{L}.'\-]*)?`)

// streetAddressLocation finds "12 Main Street, City, Country" or
// "Kungsgatan 12, City, Country" shaped text
func streetAddressLocation(p *page) []string {
	return streetAddress.FindAllString(p.visibleText(), -1)
}

var (
	cityCountry = regexp.MustCompile(`\p{Lu}[\p{L}\-]+(?:\s\p{Lu}[\p{L}\-]+)?,\s*\p{Lu}[\p{L}\-]+(?:\s\p{Lu}[\p{L}\-]+)?`)
	cssToken    = regexp.MustCompile(`\b[a-z0-9]+(?:-[a-z0-9]+)+\b`)
)

// cityCountryLocation matches "City, Country" spans directly in the raw markup
func cityCountryLocation(p *page) []string {
	var out []string
	for _, m := range cityCountry.FindAllString(p.markup, -1) {
		if !cssArtifact(m) {
			out = append(out, m)
		}
	}
	return out
}

var labeled = regexp.MustCompile(`(?i)(?:where\s*\?|\blocation\b|\bvenue\b|\bplace\b|\baddress\b)\s*[:\-]?\s*(?:</?[a-z][^>]*>\s*)*([^<>{}\n]{4,120})`)

// labeledLocation reads the text following a Location/Venue/Place/Address label in the
// raw markup
func labeledLocation(p *page) []string {
	var out []string
	for _, m := range labeled.FindAllStringSubmatch(p.markup, -1) {
		if !cssArtifact(m[1]) {
			out = append(out, m[1])
		}
	}
	return out
}

// cssArtifact reports fragments leaking from attributes, e.g. class="event-location"
func cssArtifact(s string) bool {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "class=") || strings.ContainsAny(s, "=\"<>{};") {
		return true
	}
	return cssToken.MatchString(s)
}
