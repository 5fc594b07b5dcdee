package event

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// priceDigits matches the first digit run with optional thousands separators and decimals
var priceDigits = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// NormalizePrice converts a price value into a number.
// Numbers are returned unchanged. Strings yield their first digit run with thousands
// separators removed; any currency symbol or code is discarded, so the magnitude is
// assumed to already be in the major unit of the conference currency.
func NormalizePrice(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		return parsePriceText(v)
	default:
		return 0, false
	}
}

func parsePriceText(text string) (float64, bool) {
	match := priceDigits.FindString(text)
	if match == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
