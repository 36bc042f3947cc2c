package presets

import (
	"golang.org/x/text/language"
)

var supportedLanguages = []language.Tag{
	language.English, // first entry is the fallback
	language.French,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// labels are indexed like supportedLanguages.
var labels = map[Key][]string{
	Weekend:     {"This weekend", "Ce weekend"},
	NextWeekend: {"Next weekend", "Weekend prochain"},
	NextWeek:    {"3 days next week", "3 jours la semaine prochaine"},
	Flexible:    {"Flexible dates", "Dates flexibles"},
}

var icons = map[Key]string{
	Weekend:     "📅",
	NextWeekend: "📆",
	NextWeek:    "🗓️",
	Flexible:    "📋",
}

// Entry describes a preset for display.
type Entry struct {
	Key      Key         `json:"key"`
	Label    string      `json:"label"`
	Icon     string      `json:"icon"`
	Dated    bool        `json:"dated"`
	Window   *TimeWindow `json:"window,omitempty"`
	Language string      `json:"language"`
}

// MatchLanguage picks the best supported language for an Accept-Language
// header value. Unparseable or empty values fall back to English.
func MatchLanguage(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supportedLanguages[0]
	}
	_, index, _ := languageMatcher.Match(tags...)
	return supportedLanguages[index]
}

// Catalog lists all presets with labels in lang, or English when lang is not supported.
func Catalog(lang language.Tag) []Entry {
	index := 0
	for i, tag := range supportedLanguages {
		if tag == lang {
			index = i
			break
		}
	}

	entries := make([]Entry, 0, len(Keys))
	for _, k := range Keys {
		entry := Entry{
			Key:      k,
			Label:    labels[k][index],
			Icon:     icons[k],
			Dated:    k.Dated(),
			Language: supportedLanguages[index].String(),
		}
		if k.Dated() {
			tw := timeWindow(k)
			entry.Window = &tw
		}
		entries = append(entries, entry)
	}
	return entries
}
