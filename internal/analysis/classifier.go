// Keyword-based topic classification for free-text reviews.

package analysis

import "strings"

// OtherTopic is the fallback label for reviews matching no seed topic.
const OtherTopic = "Other"

// SeedTopics lists the configured topics in definition order. The trend
// report always contains a row for each of them, even at zero counts.
var SeedTopics = []string{
	"Delivery issue",
	"Food quality",
	"Delivery partner behavior",
	"App performance",
	"Feature request",
	"Pricing concern",
}

// topicKeywords maps each seed topic to the keywords that trigger it.
// Matching is case-insensitive substring containment.
var topicKeywords = map[string][]string{
	"Delivery issue":            {"late", "delay", "not delivered", "delivery time", "waiting", "didn't arrive"},
	"Food quality":              {"stale", "cold", "spoiled", "bad quality", "not fresh", "taste"},
	"Delivery partner behavior": {"rude", "impolite", "misbehave", "unprofessional", "attitude"},
	"App performance":           {"crash", "slow", "not working", "bug", "error", "freeze", "loading"},
	"Feature request":           {"add", "bring back", "should have", "need", "want", "missing"},
	"Pricing concern":           {"expensive", "costly", "price", "charges", "fee", "refund"},
}

// Classify maps review text to topic labels. A topic matches when any of its
// keywords appears in the lowercased text; topics are not mutually exclusive,
// so one review can carry several labels. Returns the matches in seed topic
// order, or ["Other"] when nothing matched. Any input, including the empty
// string, is valid.
func Classify(text string) []string {
	lowered := strings.ToLower(text)

	var topics []string
	for _, topic := range SeedTopics {
		for _, keyword := range topicKeywords[topic] {
			if strings.Contains(lowered, keyword) {
				topics = append(topics, topic)
				break
			}
		}
	}

	if len(topics) == 0 {
		return []string{OtherTopic}
	}
	return topics
}
