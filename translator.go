package ogdch

import "fmt"

// Translator resolves a label for a given locale and key.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Formatter renders a label template with arguments
type Formatter interface {
	Format(template string, args ...any) (string, error)
}

// FormatterFunc adapts a function to Formatter
type FormatterFunc func(template string, args ...any) (string, error)

func (fn FormatterFunc) Format(template string, args ...any) (string, error) {
	return fn(template, args...)
}

func sprintfFormatter(template string, args ...any) (string, error) {
	if len(args) == 0 {
		return template, nil
	}
	return fmt.Sprintf(template, args...), nil
}

// SimpleTranslator looks labels up in a Store, walking the fallback chain
// of the requested locale and finally the default locale.
type SimpleTranslator struct {
	store         Store
	defaultLocale string
	formatter     Formatter
	resolver      FallbackResolver
}

var _ Translator = &SimpleTranslator{}

type TranslatorOption func(*SimpleTranslator)

func WithTranslatorDefaultLocale(locale string) TranslatorOption {
	return func(t *SimpleTranslator) {
		t.defaultLocale = normalizeLocale(locale)
	}
}

func WithTranslatorFormatter(formatter Formatter) TranslatorOption {
	return func(t *SimpleTranslator) {
		if formatter != nil {
			t.formatter = formatter
		}
	}
}

func WithTranslatorFallbackResolver(resolver FallbackResolver) TranslatorOption {
	return func(t *SimpleTranslator) {
		if resolver != nil {
			t.resolver = resolver
		}
	}
}

func NewSimpleTranslator(store Store, opts ...TranslatorOption) (*SimpleTranslator, error) {
	if store == nil {
		store = NewStaticStore(nil)
	}

	t := &SimpleTranslator{
		store:     store,
		formatter: FormatterFunc(sprintfFormatter),
		resolver:  NewStaticFallbackResolver(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

func (t *SimpleTranslator) Translate(locale, key string, args ...any) (string, error) {
	if t == nil {
		return "", ErrMissingTranslation
	}

	for _, candidate := range t.candidates(locale) {
		template, ok := t.store.Get(candidate, key)
		if !ok {
			continue
		}
		return t.formatter.Format(template, args...)
	}

	return "", ErrMissingTranslation
}

func (t *SimpleTranslator) candidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		locale = t.defaultLocale
	}

	var out []string
	seen := make(map[string]struct{}, 4)
	add := func(value string) {
		if value == "" {
			return
		}
		if _, ok := seen[value]; ok {
			return
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}

	add(locale)
	for _, fallback := range t.resolver.Resolve(locale) {
		add(fallback)
	}
	add(t.defaultLocale)
	return out
}

// label translates key and falls back to source when the catalog has no
// entry in any candidate locale.
func label(t Translator, locale, key, source string) string {
	if t == nil {
		return source
	}
	text, err := t.Translate(locale, key)
	if err != nil || text == "" {
		return source
	}
	return text
}
