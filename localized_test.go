package ogdch

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullBundle(en, de, fr, it any) map[string]any {
	return map[string]any{"en": en, "de": de, "fr": fr, "it": it}
}

func TestLocalizedValuePassthrough(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "string", value: "plain"},
		{name: "empty string", value: ""},
		{name: "number", value: 42},
		{name: "json number", value: json.Number("3.5")},
		{name: "nil", value: nil},
		{name: "slice", value: []any{"a", "b"}},
		{name: "partial bundle", value: map[string]any{"en": "Hello", "de": "Hallo"}},
		{name: "bundle missing italian", value: map[string]any{"en": "", "de": "", "fr": "", "xx": "y"}},
		{name: "arbitrary map", value: map[string]any{"name": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalizedValue(tt.value, "de", "default")
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestLocalizedValueBundles(t *testing.T) {
	tests := []struct {
		name         string
		value        any
		locale       string
		defaultValue any
		want         any
	}{
		{
			name:   "requested locale",
			value:  fullBundle("Hello", "Hallo", "Bonjour", "Ciao"),
			locale: "fr",
			want:   "Bonjour",
		},
		{
			name:         "falls back past empty requested",
			value:        fullBundle("", "Hallo", "", ""),
			locale:       "en",
			defaultValue: "x",
			want:         "Hallo",
		},
		{
			name:         "priority order",
			value:        fullBundle("", "", "Bonjour", "Ciao"),
			locale:       "de",
			defaultValue: "x",
			want:         "Bonjour",
		},
		{
			name:         "all empty",
			value:        fullBundle("", "", "", ""),
			locale:       "it",
			defaultValue: "x",
			want:         "x",
		},
		{
			name:         "nil entries",
			value:        fullBundle(nil, nil, nil, nil),
			locale:       "en",
			defaultValue: "x",
			want:         "x",
		},
		{
			name:         "non string fallback skipped",
			value:        fullBundle([]any{"a"}, "", 7, "Ciao"),
			locale:       "de",
			defaultValue: "x",
			want:         "Ciao",
		},
		{
			name:   "non string requested value kept",
			value:  fullBundle([]any{"water"}, []any{"wasser"}, "", ""),
			locale: "de",
			want:   []any{"wasser"},
		},
		{
			name:         "typed nil pointer",
			value:        fullBundle((*url.URL)(nil), "Hallo", "", ""),
			locale:       "en",
			defaultValue: "x",
			want:         "Hallo",
		},
		{
			name:   "url value",
			value:  fullBundle(&url.URL{Scheme: "https", Host: "example.org"}, "Hallo", "", ""),
			locale: "en",
			want:   &url.URL{Scheme: "https", Host: "example.org"},
		},
		{
			name:         "zero json number",
			value:        fullBundle(json.Number("0.0"), "Hallo", "", ""),
			locale:       "en",
			defaultValue: "x",
			want:         "Hallo",
		},
		{
			name:         "zero exponent json number",
			value:        fullBundle(json.Number("0e0"), "Hallo", "", ""),
			locale:       "en",
			defaultValue: "x",
			want:         "Hallo",
		},
		{
			name:   "json number",
			value:  fullBundle(json.Number("2.5"), "Hallo", "", ""),
			locale: "en",
			want:   json.Number("2.5"),
		},
		{
			name:         "zero float",
			value:        fullBundle(0.0, "Hallo", "", ""),
			locale:       "en",
			defaultValue: "x",
			want:         "Hallo",
		},
		{
			name:         "empty map",
			value:        fullBundle(map[string]any{}, "Hallo", "", ""),
			locale:       "en",
			defaultValue: "x",
			want:         "Hallo",
		},
		{
			name:         "unknown locale",
			value:        fullBundle("Hello", "Hallo", "Bonjour", "Ciao"),
			locale:       "rm",
			defaultValue: "x",
			want:         "Hello",
		},
		{
			name:   "regional locale uses parent",
			value:  fullBundle("Hello", "Hallo", "Bonjour", "Ciao"),
			locale: "de-CH",
			want:   "Hallo",
		},
		{
			name:   "underscore locale",
			value:  fullBundle("Hello", "Hallo", "Bonjour", "Ciao"),
			locale: "fr_CH",
			want:   "Bonjour",
		},
		{
			name:   "string map",
			value:  map[string]string{"en": "", "de": "", "fr": "", "it": "Ciao"},
			locale: "en",
			want:   "Ciao",
		},
		{
			name:   "extra keys allowed",
			value:  map[string]any{"en": "Hello", "de": "Hallo", "fr": "Bonjour", "it": "Ciao", "rm": "Allegra"},
			locale: "rm",
			want:   "Allegra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalizedValue(tt.value, tt.locale, tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalizedValueIdempotent(t *testing.T) {
	values := []any{
		fullBundle("Hello", "Hallo", "Bonjour", "Ciao"),
		fullBundle("", "", "", ""),
		fullBundle("", "Hallo", "", ""),
		"plain",
		12,
	}

	for _, value := range values {
		for _, locale := range []string{"en", "de", "fr", "it", "rm"} {
			once := LocalizedValue(value, locale, "d")
			twice := LocalizedValue(once, locale, "d")
			assert.Equal(t, once, twice, "value %v locale %s", value, locale)
		}
	}
}

func TestLocalizedString(t *testing.T) {
	assert.Equal(t, "Hallo", LocalizedString(fullBundle("", "Hallo", "", ""), "en", ""))
	assert.Equal(t, "n/a", LocalizedString(fullBundle("", "", "", ""), "en", "n/a"))
	assert.Equal(t, "12", LocalizedString(json.Number("12"), "en", ""))
	assert.NotPanics(t, func() {
		assert.Equal(t, "<nil>", LocalizedString((*url.URL)(nil), "en", ""))
	})
	assert.Equal(t, "Hallo", LocalizedString(fullBundle((*url.URL)(nil), "Hallo", "", ""), "en", ""))
	assert.Equal(t, "", LocalizedString(nil, "en", ""))
}

func TestIsLanguageBundle(t *testing.T) {
	assert.True(t, IsLanguageBundle(fullBundle("", "", "", "")))
	assert.True(t, IsLanguageBundle(map[string]string{"en": "", "de": "", "fr": "", "it": ""}))
	assert.False(t, IsLanguageBundle(map[string]any{"en": "x"}))
	assert.False(t, IsLanguageBundle("x"))
}

func TestLocaleContext(t *testing.T) {
	_, ok := LocaleFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithLocale(context.Background(), "de_CH")
	locale, ok := LocaleFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "de-CH", locale)

	_, ok = LocaleFromContext(ContextWithLocale(context.Background(), ""))
	assert.False(t, ok)
}

func TestResolver(t *testing.T) {
	bundle := fullBundle("Hello", "Hallo", "Bonjour", "Ciao")

	resolver := NewResolver(WithResolverDefaultLocale("it"))
	assert.Equal(t, "it", resolver.DefaultLocale())
	assert.Equal(t, "Ciao", resolver.Resolve(bundle, "", "x"))
	assert.Equal(t, "Hallo", resolver.Resolve(bundle, "de", "x"))
	assert.Equal(t, "fr", resolver.Locale(" fr "))

	ctx := ContextWithLocale(context.Background(), "fr")
	assert.Equal(t, "Bonjour", resolver.ResolveContext(ctx, bundle, "x"))
	assert.Equal(t, "Ciao", resolver.ResolveContext(context.Background(), bundle, "x"))

	assert.Equal(t, DefaultLocale, NewResolver(WithResolverDefaultLocale("")).DefaultLocale())

	var nilResolver *Resolver
	assert.Equal(t, DefaultLocale, nilResolver.DefaultLocale())
}

func TestResolverConcurrentUse(t *testing.T) {
	resolver := NewResolver()
	bundle := fullBundle("Hello", "Hallo", "Bonjour", "Ciao")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(locale string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = resolver.Resolve(bundle, locale, "")
			}
		}(LanguagePriority[i%len(LanguagePriority)])
	}
	wg.Wait()
}

func TestLanguages(t *testing.T) {
	langs := Languages()
	assert.Equal(t, []string{"en", "de", "fr", "it"}, langs)

	langs[0] = "xx"
	assert.Equal(t, "en", LanguagePriority[0])

	assert.True(t, IsSupportedLanguage("fr"))
	assert.False(t, IsSupportedLanguage("rm"))
}

func TestLocaleParentChain(t *testing.T) {
	assert.Equal(t, []string{"de"}, localeParentChain("de-CH"))
	assert.Equal(t, []string{"de"}, localeParentChain("de_CH"))
	assert.Empty(t, localeParentChain("de"))
	assert.Empty(t, localeParentChain(""))
}
