package event

// Source identifies which extraction strategy produced a ScrapedEvent
type Source string

const (
	SourceStructured Source = "structured"
	SourceHeuristic  Source = "heuristic"
)

// ScrapedEvent represents event details recovered from a single event page
type ScrapedEvent struct {
	Name                string   `json:"name,omitempty"`
	Location            string   `json:"location,omitempty"`
	StartDate           string   `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate             string   `json:"end_date,omitempty"`   // YYYY-MM-DD
	Price               *float64 `json:"price,omitempty"`
	Description         string   `json:"description,omitempty"`
	URL                 string   `json:"url,omitempty"`
	Category            *string  `json:"category"`
	SuggestedCategories []string `json:"suggested_categories"`

	Source Source `json:"-"`
}

// SetPrice stores a copy of price on the event
func (e *ScrapedEvent) SetPrice(price float64) {
	e.Price = &price
}

// SetCategories attaches the classifier result. An empty primary clears the category.
func (e *ScrapedEvent) SetCategories(primary string, suggestions []string) {
	if primary == "" {
		e.Category = nil
	} else {
		e.Category = &primary
	}

	e.SuggestedCategories = make([]string, len(suggestions))
	copy(e.SuggestedCategories, suggestions)
}

// CategoryName returns the primary category or an empty string
func (e *ScrapedEvent) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return *e.Category
}
