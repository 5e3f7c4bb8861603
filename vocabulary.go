package ogdch

type vocabularyEntry struct {
	key    string
	source string
}

var frequencies = map[string]vocabularyEntry{
	"http://purl.org/cld/freq/completelyIrregular": {"frequency.irregular", "Irregular"},
	"http://purl.org/cld/freq/continuous":          {"frequency.continuous", "Continuous"},
	"http://purl.org/cld/freq/daily":               {"frequency.daily", "Daily"},
	"http://purl.org/cld/freq/threeTimesAWeek":     {"frequency.three_times_a_week", "Three times a week"},
	"http://purl.org/cld/freq/semiweekly":          {"frequency.semiweekly", "Semi weekly"},
	"http://purl.org/cld/freq/weekly":              {"frequency.weekly", "Weekly"},
	"http://purl.org/cld/freq/threeTimesAMonth":    {"frequency.three_times_a_month", "Three times a month"},
	"http://purl.org/cld/freq/biweekly":            {"frequency.biweekly", "Biweekly"},
	"http://purl.org/cld/freq/semimonthly":         {"frequency.semimonthly", "Semimonthly"},
	"http://purl.org/cld/freq/monthly":             {"frequency.monthly", "Monthly"},
	"http://purl.org/cld/freq/bimonthly":           {"frequency.bimonthly", "Bimonthly"},
	"http://purl.org/cld/freq/quarterly":           {"frequency.quarterly", "Quarterly"},
	"http://purl.org/cld/freq/threeTimesAYear":     {"frequency.three_times_a_year", "Three times a year"},
	"http://purl.org/cld/freq/semiannual":          {"frequency.semiannual", "Semi Annual"},
	"http://purl.org/cld/freq/annual":              {"frequency.annual", "Annual"},
	"http://purl.org/cld/freq/biennial":            {"frequency.biennial", "Biennial"},
	"http://purl.org/cld/freq/triennial":           {"frequency.triennial", "Triennial"},
}

var politicalLevels = map[string]vocabularyEntry{
	"confederation": {"political_level.confederation", "Confederation"},
	"canton":        {"political_level.canton", "Canton"},
	"commune":       {"political_level.commune", "Commune"},
	"other":         {"political_level.other", "Other"},
}

// FrequencyName returns the label of a Dublin Core frequency URI.
// Unknown identifiers are returned unchanged.
func FrequencyName(t Translator, locale, identifier string) string {
	entry, ok := frequencies[identifier]
	if !ok {
		return identifier
	}
	return label(t, locale, entry.key, entry.source)
}

// PoliticalLevel returns the label of a publisher's political level.
// Unknown levels are returned unchanged.
func PoliticalLevel(t Translator, locale, level string) string {
	entry, ok := politicalLevels[level]
	if !ok {
		return level
	}
	return label(t, locale, entry.key, entry.source)
}
