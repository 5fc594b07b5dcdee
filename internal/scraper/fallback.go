package scraper

import (
	"regexp"
	"strings"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/event"
)

const monthName = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`

var (
	// labeledDate matches "Date: March 15, 2025", "When: 15/03/2025", "Starts 2025-03-15"
	labeledDate = regexp.MustCompile(`(?i)\b(?:date|dates|when|starts?|starting)\s*[:?]?\s*(?:on\s+)?(` +
		`\d{4}-\d{2}-\d{2}` +
		`|\d{1,2}[/.\-]\d{1,2}[/.\-]\d{4}` +
		`|` + monthName + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}` +
		`|\d{1,2}(?:st|nd|rd|th)?\s+` + monthName + `,?\s+\d{4})`)

	// bareDate matches numeric dates anywhere in the text
	bareDate = regexp.MustCompile(`\b(?:\d{4}-\d{2}-\d{2}|\d{1,2}[/\-]\d{1,2}[/\-]\d{4})\b`)

	// labeledPrice matches "Price: 1,200 SEK", "Tickets from €499", "Fee: $250.00"
	labeledPrice = regexp.MustCompile(`(?i)\b(price|prices|cost|fee|tickets?|admission|registration)\s*[:\-]?\s*(?:from\s+|starting at\s+)?` +
		`((?:[$€£]\s?)?` + priceNumber + `(?:\s?(?:sek|eur|usd|gbp|nok|dkk|kr|€|£))?)`)

	// currencyPrice matches a number directly preceded or followed by a currency
	currencyPrice = regexp.MustCompile(`(?i)[$€£]\s?` + priceNumber +
		`|\b` + priceNumber + `\s?(?:sek|eur|usd|gbp|nok|dkk|kr)\b` +
		`|\b` + priceNumber + `\s?[€£]`)

	currencyMarker = regexp.MustCompile(`(?i)[$€£]|sek|eur|usd|gbp|nok|dkk|kr`)
	bareYear       = regexp.MustCompile(`^(?:19|20)\d\d$`)

	// digitGroup joins space-separated thousands, "1 995" -> "1995"
	digitGroup = regexp.MustCompile(`(\d) (\d{3})\b`)
)

// priceNumber allows comma or space thousands separators and up to two decimals
const priceNumber = `\d[\d,]*(?: \d{3}\b)*(?:\.\d{1,2})?`

// ExtractFallback recovers a best-effort event from markup without structured data.
// Fields that cannot be found are left empty.
func ExtractFallback(markup, sourceURL string) *event.ScrapedEvent {
	p, err := newPage(markup)
	if err != nil {
		return &event.ScrapedEvent{URL: sourceURL, Source: event.SourceHeuristic}
	}
	return extractFallback(p, sourceURL)
}

func extractFallback(p *page, sourceURL string) *event.ScrapedEvent {
	evt := &event.ScrapedEvent{
		Name:   pageTitle(p),
		URL:    sourceURL,
		Source: event.SourceHeuristic,
	}

	text := p.visibleText()

	if date, ok := findDate(text); ok {
		evt.StartDate = date
	}
	evt.Location, _ = extractLocation(p)
	if price, ok := findPrice(text); ok {
		evt.SetPrice(price)
	}

	return evt
}

// pageTitle returns the <title> text with tags and extra whitespace removed
func pageTitle(p *page) string {
	title := p.doc.Find("title").First().Text()
	return cleanText(anyTag.ReplaceAllString(title, " "))
}

func findDate(text string) (string, bool) {
	for _, m := range labeledDate.FindAllStringSubmatch(text, -1) {
		if date, ok := event.NormalizeDate(m[1]); ok {
			return date, true
		}
	}
	for _, m := range bareDate.FindAllString(text, -1) {
		if date, ok := event.NormalizeDate(m); ok {
			return date, true
		}
	}
	return "", false
}

func findPrice(text string) (float64, bool) {
	for _, m := range labeledPrice.FindAllStringSubmatch(text, -1) {
		if !plausiblePrice(strings.ToLower(m[1]), m[2]) {
			continue
		}
		if price, ok := event.NormalizePrice(joinDigitGroups(m[2])); ok {
			return price, true
		}
	}
	if m := currencyPrice.FindString(text); m != "" {
		return event.NormalizePrice(joinDigitGroups(m))
	}
	return 0, false
}

// plausiblePrice rejects labeled candidates that are more likely a year or a count.
// Ticket, admission and registration labels need a currency; a bare year never counts.
func plausiblePrice(label, candidate string) bool {
	if currencyMarker.MatchString(candidate) {
		return true
	}
	if bareYear.MatchString(strings.TrimSpace(candidate)) {
		return false
	}
	switch label {
	case "ticket", "tickets", "admission", "registration":
		return false
	}
	return true
}

func joinDigitGroups(s string) string {
	for {
		joined := digitGroup.ReplaceAllString(s, "$1$2")
		if joined == s {
			return s
		}
		s = joined
	}
}
