// Package category suggests conference categories from free text.
//
// Classification is a bag-of-keywords score over a fixed taxonomy: every whole-word
// keyword hit adds one to its topic. The result is advisory; the conference form always
// allows a manual override.
package category

import (
	"regexp"
	"sort"
	"strings"
)

// MaxSuggestions is the length cap of the ranked suggestion list
const MaxSuggestions = 5

// Topic is a category label with the keywords that vote for it
type Topic struct {
	Name     string
	Keywords []string
}

// taxonomy is read-only; declaration order breaks score ties
var taxonomy = []Topic{
	{Name: "Technology", Keywords: []string{
		"technology", "tech", "software", "developer", "developers", "programming", "coding",
		"ai", "artificial intelligence", "machine learning", "cloud", "devops", "cybersecurity",
		"security", "blockchain", "web", "mobile", "api", "engineering", "iot", "kubernetes",
		"javascript", "python", "java", "golang", "open source",
	}},
	{Name: "Design", Keywords: []string{
		"design", "designer", "designers", "ux", "ui", "user experience", "user interface",
		"graphic", "visual", "creative", "typography", "figma", "interaction design",
	}},
	{Name: "Business", Keywords: []string{
		"business", "entrepreneur", "entrepreneurship", "startup", "startups", "strategy",
		"leadership", "management", "innovation", "executive", "growth", "consulting",
	}},
	{Name: "Data & Analytics", Keywords: []string{
		"data", "analytics", "big data", "data science", "business intelligence", "statistics",
		"visualization", "database", "sql", "data engineering",
	}},
	{Name: "Product Management", Keywords: []string{
		"product", "product management", "product manager", "roadmap", "agile", "scrum",
		"product owner", "discovery",
	}},
	{Name: "Marketing", Keywords: []string{
		"marketing", "brand", "branding", "seo", "content", "social media", "advertising",
		"digital marketing", "growth hacking", "campaign",
	}},
	{Name: "Sales", Keywords: []string{
		"sales", "selling", "crm", "revenue", "b2b", "account management", "negotiation",
	}},
	{Name: "HR & People", Keywords: []string{
		"hr", "human resources", "people", "talent", "recruiting", "recruitment", "hiring",
		"culture", "employee", "diversity", "inclusion",
	}},
	{Name: "Finance", Keywords: []string{
		"finance", "financial", "fintech", "banking", "investment", "accounting", "payments",
		"economics", "insurance",
	}},
	{Name: "Healthcare", Keywords: []string{
		"healthcare", "health", "medical", "medicine", "medtech", "pharma", "clinical",
		"biotech", "hospital", "life science",
	}},
	{Name: "Education", Keywords: []string{
		"education", "learning", "training", "teaching", "edtech", "university", "academic",
		"course", "students",
	}},
	{Name: "Conference", Keywords: []string{
		"conference", "summit", "congress", "convention", "expo", "forum", "symposium", "keynote",
	}},
	{Name: "Workshop", Keywords: []string{
		"workshop", "hands-on", "masterclass", "bootcamp", "hackathon", "seminar", "meetup",
	}},
}

type compiledTopic struct {
	name     string
	patterns []*regexp.Regexp
}

var compiled = compileTaxonomy(taxonomy)

func compileTaxonomy(topics []Topic) []compiledTopic {
	out := make([]compiledTopic, 0, len(topics))
	for _, topic := range topics {
		ct := compiledTopic{name: topic.Name}
		for _, kw := range topic.Keywords {
			ct.patterns = append(ct.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		out = append(out, ct)
	}
	return out
}

// Score is the keyword hit count for one topic
type Score struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// Result holds the primary category and the ranked shortlist.
// Primary is empty when no topic matched.
type Result struct {
	Primary     string   `json:"primary"`
	Suggestions []string `json:"suggestions"`
	Scores      []Score  `json:"scores"`
}

// Classify scores the taxonomy against name, description and url
func Classify(name, description, url string) Result {
	text := strings.ToLower(strings.Join([]string{name, description, url}, " "))

	scores := make([]Score, 0, len(compiled))
	for _, topic := range compiled {
		total := 0
		for _, re := range topic.patterns {
			total += len(re.FindAllStringIndex(text, -1))
		}
		if total > 0 {
			scores = append(scores, Score{Category: topic.name, Score: total})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	result := Result{
		Suggestions: make([]string, 0, MaxSuggestions),
		Scores:      scores,
	}
	for i, s := range scores {
		if i == MaxSuggestions {
			break
		}
		result.Suggestions = append(result.Suggestions, s.Category)
	}
	if len(result.Suggestions) > 0 {
		result.Primary = result.Suggestions[0]
	}

	return result
}

// Names returns the taxonomy labels in declaration order
func Names() []string {
	names := make([]string, len(taxonomy))
	for i, topic := range taxonomy {
		names[i] = topic.Name
	}
	return names
}

// Keywords returns a copy of the keyword list for a label
func Keywords(name string) ([]string, bool) {
	for _, topic := range taxonomy {
		if topic.Name == name {
			kws := make([]string, len(topic.Keywords))
			copy(kws, topic.Keywords)
			return kws, true
		}
	}
	return nil, false
}
