package ogdch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultLabelsTranslator(t *testing.T) Translator {
	t.Helper()
	store, err := NewStaticStoreFromLoader(DefaultLabelsLoader())
	require.NoError(t, err)
	translator, err := NewSimpleTranslator(store, WithTranslatorDefaultLocale(DefaultLocale))
	require.NoError(t, err)
	return translator
}

func TestFrequencyName(t *testing.T) {
	translator := defaultLabelsTranslator(t)

	tests := []struct {
		locale     string
		identifier string
		want       string
	}{
		{locale: "en", identifier: "http://purl.org/cld/freq/weekly", want: "Weekly"},
		{locale: "de", identifier: "http://purl.org/cld/freq/weekly", want: "Wöchentlich"},
		{locale: "fr", identifier: "http://purl.org/cld/freq/weekly", want: "Hebdomadaire"},
		{locale: "it", identifier: "http://purl.org/cld/freq/weekly", want: "Settimanale"},
		{locale: "de-CH", identifier: "http://purl.org/cld/freq/weekly", want: "Wöchentlich"},
		{locale: "rm", identifier: "http://purl.org/cld/freq/weekly", want: "Weekly"},
		{locale: "de", identifier: "http://purl.org/cld/freq/hourly", want: "http://purl.org/cld/freq/hourly"},
		{locale: "de", identifier: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.identifier, func(t *testing.T) {
			assert.Equal(t, tt.want, FrequencyName(translator, tt.locale, tt.identifier))
		})
	}
}

func TestFrequencyNameWithoutTranslator(t *testing.T) {
	assert.Equal(t, "Semi Annual", FrequencyName(nil, "de", "http://purl.org/cld/freq/semiannual"))
}

func TestPoliticalLevel(t *testing.T) {
	translator := defaultLabelsTranslator(t)

	assert.Equal(t, "Kanton", PoliticalLevel(translator, "de", "canton"))
	assert.Equal(t, "Cantone", PoliticalLevel(translator, "it", "canton"))
	assert.Equal(t, "Canton", PoliticalLevel(translator, "fr", "canton"))
	assert.Equal(t, "district", PoliticalLevel(translator, "de", "district"))
}

func TestEveryVocabularyEntryHasLabels(t *testing.T) {
	translator := defaultLabelsTranslator(t)

	for _, entries := range []map[string]vocabularyEntry{frequencies, politicalLevels} {
		for id, entry := range entries {
			for _, lang := range LanguagePriority {
				_, err := translator.Translate(lang, entry.key)
				assert.NoError(t, err, "%s %s (%s)", lang, entry.key, id)
			}
		}
	}
}
