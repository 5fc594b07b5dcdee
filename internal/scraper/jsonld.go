package scraper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/event"
	"github.com/Pranoy-dev/Knightec-Conferences/internal/logger"
)

const jsonLDType = "application/ld+json"

// ExtractStructured parses the JSON-LD blocks of markup and returns the first
// schema.org Event found. Returns nil when there is none or it has no name.
func ExtractStructured(markup string) *event.ScrapedEvent {
	p, err := newPage(markup)
	if err != nil {
		return nil
	}
	return extractStructured(p)
}

func extractStructured(p *page) *event.ScrapedEvent {
	var found map[string]interface{}

	p.doc.Find("script").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(sel.AttrOr("type", "")), jsonLDType) {
			return true
		}

		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return true
		}

		var payload interface{}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			// Malformed blocks are common; skip them and keep looking
			logger.Debug("Skipping malformed JSON-LD block", logger.Fields{
				"index": i,
				"error": err.Error(),
			})
			return true
		}

		found = findEvent(payload)
		return found == nil
	})

	if found == nil {
		return nil
	}
	return eventFromJSONLD(found)
}

// findEvent returns the first Event object in a JSON-LD payload.
// Payloads may be a single object, an array of objects, or an object with @graph.
func findEvent(payload interface{}) map[string]interface{} {
	switch v := payload.(type) {
	case []interface{}:
		for _, item := range v {
			if evt := findEvent(item); evt != nil {
				return evt
			}
		}
	case map[string]interface{}:
		if isEventType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findEvent(graph)
		}
	}
	return nil
}

var schemaPrefixes = []string{"http://schema.org/", "https://schema.org/", "schema:"}

// isEventType matches "Event" or a schema.org subtype such as "BusinessEvent", bare or
// prefixed with the schema.org URI, or an @type array containing one
func isEventType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		name := strings.TrimSpace(v)
		for _, prefix := range schemaPrefixes {
			name = strings.TrimPrefix(name, prefix)
		}
		if name == "Event" {
			return true
		}
		// Subtypes are CamelCase words ending in Event
		return strings.HasSuffix(name, "Event") && name[0] >= 'A' && name[0] <= 'Z' && !strings.ContainsAny(name, " /:#")
	case []interface{}:
		for _, item := range v {
			if isEventType(item) {
				return true
			}
		}
	}
	return false
}

func eventFromJSONLD(obj map[string]interface{}) *event.ScrapedEvent {
	name := firstString(obj["name"])
	if name == "" {
		return nil
	}

	evt := &event.ScrapedEvent{
		Name:        name,
		Location:    composeLocation(obj["location"]),
		Description: firstString(obj["description"]),
		URL:         firstString(obj["url"]),
		Source:      event.SourceStructured,
	}

	if date, ok := event.NormalizeDate(firstString(obj["startDate"])); ok {
		evt.StartDate = date
	}
	if date, ok := event.NormalizeDate(firstString(obj["endDate"])); ok {
		evt.EndDate = date
	}
	if price, ok := offerPrice(obj["offers"]); ok {
		evt.SetPrice(price)
	}

	return evt
}

// firstString unwraps scalar, array and {"@value"}/{"name"} forms into text
func firstString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return cleanText(val)
	case float64:
		return fmt.Sprintf("%g", val)
	case []interface{}:
		if len(val) > 0 {
			return firstString(val[0])
		}
	case map[string]interface{}:
		if s := firstString(val["@value"]); s != "" {
			return s
		}
		return firstString(val["name"])
	}
	return ""
}

// composeLocation renders a schema.org location as "Venue, Street, City, Region, Postcode, Country"
func composeLocation(v interface{}) string {
	switch loc := v.(type) {
	case string:
		return cleanText(loc)
	case []interface{}:
		for _, item := range loc {
			if s := composeLocation(item); s != "" {
				return s
			}
		}
	case map[string]interface{}:
		var parts []string
		if name := firstString(loc["name"]); name != "" {
			parts = append(parts, name)
		}
		parts = append(parts, addressParts(loc["address"])...)
		return strings.Join(parts, ", ")
	}
	return ""
}

func addressParts(v interface{}) []string {
	switch addr := v.(type) {
	case string:
		if s := cleanText(addr); s != "" {
			return []string{s}
		}
	case []interface{}:
		if len(addr) > 0 {
			return addressParts(addr[0])
		}
	case map[string]interface{}:
		var parts []string
		for _, key := range []string{"streetAddress", "addressLocality", "addressRegion", "postalCode", "addressCountry"} {
			if s := firstString(addr[key]); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}
	return nil
}

// offerPrice returns the first parseable price of a single offer or an offer list
func offerPrice(v interface{}) (float64, bool) {
	switch offers := v.(type) {
	case []interface{}:
		for _, offer := range offers {
			if price, ok := offerPrice(offer); ok {
				return price, true
			}
		}
	case map[string]interface{}:
		for _, key := range []string{"price", "lowPrice"} {
			if price, ok := event.NormalizePrice(offers[key]); ok {
				return price, true
			}
		}
	}
	return 0, false
}
