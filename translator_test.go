package ogdch

import (
	"errors"
	"strings"
	"testing"
)

func newTestTranslator(t *testing.T, opts ...TranslatorOption) *SimpleTranslator {
	t.Helper()
	store := NewStaticStore(Translations{
		"en":    newCatalog("en", map[string]string{"terms.open": "Open use", "greeting": "Hello %s", "only.en": "English only"}),
		"de":    newCatalog("de", map[string]string{"terms.open": "Freie Nutzung", "greeting": "Hallo %s"}),
		"de-CH": newCatalog("de-CH", map[string]string{"greeting": "Grüezi %s"}),
		"fr":    newCatalog("fr", map[string]string{"terms.open": "Utilisation libre"}),
	})

	opts = append([]TranslatorOption{WithTranslatorDefaultLocale("en")}, opts...)
	translator, err := NewSimpleTranslator(store, opts...)
	if err != nil {
		t.Fatalf("NewSimpleTranslator: %v", err)
	}
	return translator
}

func TestSimpleTranslatorTranslate(t *testing.T) {
	translator := newTestTranslator(t)

	tests := []struct {
		name   string
		locale string
		key    string
		args   []any
		want   string
	}{
		{name: "exact locale", locale: "de", key: "terms.open", want: "Freie Nutzung"},
		{name: "regional catalog", locale: "de-CH", key: "greeting", args: []any{"Anna"}, want: "Grüezi Anna"},
		{name: "parent locale", locale: "de-CH", key: "terms.open", want: "Freie Nutzung"},
		{name: "underscore locale", locale: "de_CH", key: "terms.open", want: "Freie Nutzung"},
		{name: "default locale", locale: "it", key: "terms.open", want: "Open use"},
		{name: "empty locale", locale: "", key: "only.en", want: "English only"},
		{name: "formatted", locale: "en", key: "greeting", args: []any{"Ben"}, want: "Hello Ben"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := translator.Translate(tc.locale, tc.key, tc.args...)
			if err != nil {
				t.Fatalf("Translate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Translate(%q,%q) = %q want %q", tc.locale, tc.key, got, tc.want)
			}
		})
	}
}

func TestSimpleTranslatorMissing(t *testing.T) {
	translator := newTestTranslator(t)

	_, err := translator.Translate("fr", "missing.key")
	if !errors.Is(err, ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
}

func TestSimpleTranslatorFallbackResolver(t *testing.T) {
	resolver := NewStaticFallbackResolver()
	resolver.Set("it", "fr")

	translator := newTestTranslator(t, WithTranslatorFallbackResolver(resolver))

	got, err := translator.Translate("it", "terms.open")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "Utilisation libre" {
		t.Fatalf("Translate(it) = %q want fr fallback", got)
	}
}

func TestSimpleTranslatorFormatter(t *testing.T) {
	upper := FormatterFunc(func(template string, args ...any) (string, error) {
		return strings.ToUpper(template), nil
	})

	translator := newTestTranslator(t, WithTranslatorFormatter(upper))

	got, err := translator.Translate("de", "terms.open")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "FREIE NUTZUNG" {
		t.Fatalf("Translate = %q", got)
	}
}

func TestLabelFallsBackToSource(t *testing.T) {
	translator := newTestTranslator(t)

	if got := label(translator, "fr", "missing", "Source text"); got != "Source text" {
		t.Fatalf("label = %q", got)
	}
	if got := label(nil, "fr", "terms.open", "Open use"); got != "Open use" {
		t.Fatalf("label without translator = %q", got)
	}
	if got := label(translator, "fr", "terms.open", "Open use"); got != "Utilisation libre" {
		t.Fatalf("label = %q", got)
	}
}

func TestStaticFallbackResolver(t *testing.T) {
	resolver := NewStaticFallbackResolver()
	resolver.Set("rm", "de", "rm", "")

	tests := []struct {
		locale string
		want   []string
	}{
		{locale: "rm", want: []string{"de"}},
		{locale: "de-CH", want: []string{"de"}},
		{locale: "fr", want: nil},
		{locale: "", want: nil},
	}

	for _, tc := range tests {
		got := resolver.Resolve(tc.locale)
		if strings.Join(got, ",") != strings.Join(tc.want, ",") {
			t.Fatalf("Resolve(%q) = %v want %v", tc.locale, got, tc.want)
		}
	}
}
