// Package categories assigns a screen-time category to an app from its
// bundle identifier and display name. Classification is an ordered rule
// table of keyword matches with "other" as the fallback; an app keeps the
// category it was assigned on first sight.
package categories

import "strings"

// Known category types. These match the category_type values stored in
// category budgets and user apps.
const (
	SocialMedia   = "social_media"
	Entertainment = "entertainment"
	Gaming        = "gaming"
	Productivity  = "productivity"
	Shopping      = "shopping"
	NewsReading   = "news_reading"
	HealthFitness = "health_fitness"
	Other         = "other"
)

// rule matches when the lowercased bundle id contains any of idKeywords or
// the lowercased app name contains any of nameKeywords.
type rule struct {
	category     string
	idKeywords   []string
	nameKeywords []string
}

// Rules are evaluated in order; the first match wins.
var rules = []rule{
	{SocialMedia,
		[]string{"instagram", "tiktok", "twitter", "facebook", "snapchat", "reddit", "discord"},
		[]string{"social"}},
	{Entertainment,
		[]string{"netflix", "youtube", "spotify", "hulu", "disney", "twitch"},
		[]string{"video", "music"}},
	{Gaming,
		[]string{"game"},
		[]string{"game"}},
	{Productivity,
		[]string{"notion", "slack", "zoom", "teams", "office", "google"},
		[]string{"work"}},
	{Shopping,
		[]string{"amazon", "shop", "ebay"},
		[]string{"shop"}},
	{NewsReading,
		[]string{"news"},
		[]string{"news", "read"}},
	{HealthFitness,
		nil,
		[]string{"health", "fitness", "workout"}},
}

// Classify returns the category for an app, falling back to Other.
func Classify(bundleID, appName string) string {
	lowerID := strings.ToLower(bundleID)
	lowerName := strings.ToLower(appName)

	for _, r := range rules {
		for _, kw := range r.idKeywords {
			if strings.Contains(lowerID, kw) {
				return r.category
			}
		}
		for _, kw := range r.nameKeywords {
			if strings.Contains(lowerName, kw) {
				return r.category
			}
		}
	}
	return Other
}
