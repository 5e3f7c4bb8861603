package ogdch

import (
	"context"
	"encoding/json"
	"reflect"
)

type contextKey string

func (c contextKey) String() string {
	return "ogdch/" + string(c)
}

const ctxKeyLocale = contextKey("locale")

// ContextWithLocale stores the requested locale on ctx.
func ContextWithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, normalizeLocale(locale))
}

// LocaleFromContext returns the locale stored with ContextWithLocale, if any.
func LocaleFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	locale, ok := ctx.Value(ctxKeyLocale).(string)
	if !ok || locale == "" {
		return "", false
	}
	return locale, true
}

// LocalizedValue picks the value for locale out of a language bundle.
//
// Values that are not maps, and maps that do not hold every code in
// LanguagePriority, are returned unchanged. For a bundle the value stored
// under locale wins when it is set; otherwise the first non-empty string in
// LanguagePriority order is returned, and defaultValue when there is none.
func LocalizedValue(value any, locale string, defaultValue any) any {
	bundle, ok := languageBundle(value)
	if !ok {
		return value
	}

	if candidate, found := lookupLocale(bundle, locale); found && truthy(candidate) {
		return candidate
	}

	return languageFallback(bundle, defaultValue)
}

// LocalizedString is LocalizedValue for callers that need text. Non-string
// results are rendered with their JSON scalar form; nil becomes "".
func LocalizedString(value any, locale, defaultValue string) string {
	return scalarString(LocalizedValue(value, locale, defaultValue))
}

// IsLanguageBundle reports whether value would be treated as a bundle.
func IsLanguageBundle(value any) bool {
	_, ok := languageBundle(value)
	return ok
}

func languageFallback(bundle map[string]any, defaultValue any) any {
	for _, code := range LanguagePriority {
		if text, ok := bundle[code].(string); ok && text != "" {
			return text
		}
	}
	return defaultValue
}

func lookupLocale(bundle map[string]any, locale string) (any, bool) {
	if value, ok := bundle[locale]; ok {
		return value, true
	}
	normalized := normalizeLocale(locale)
	if value, ok := bundle[normalized]; ok {
		return value, true
	}
	for _, parent := range localeParentChain(normalized) {
		if value, ok := bundle[parent]; ok {
			return value, true
		}
	}
	return nil, false
}

func languageBundle(value any) (map[string]any, bool) {
	var bundle map[string]any

	switch v := value.(type) {
	case map[string]any:
		bundle = v
	case map[string]string:
		bundle = make(map[string]any, len(v))
		for key, text := range v {
			bundle[key] = text
		}
	default:
		return nil, false
	}

	for _, code := range LanguagePriority {
		if _, ok := bundle[code]; !ok {
			return nil, false
		}
	}
	return bundle, true
}

// truthy mirrors the loose emptiness check applied to the requested
// locale's value: nil, false, zero numbers and empty strings or
// collections do not count as set.
func truthy(value any) bool {
	if value == nil {
		return false
	}

	switch v := value.(type) {
	case string:
		return v != ""
	case bool:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f != 0
		}
		return v != ""
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	default:
		return true
	}
}

// Resolver resolves bundles against an explicit locale and a configured
// default locale. It holds no mutable state.
type Resolver struct {
	defaultLocale string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverDefaultLocale sets the locale used when callers pass none.
func WithResolverDefaultLocale(locale string) ResolverOption {
	return func(r *Resolver) {
		if locale = normalizeLocale(locale); locale != "" {
			r.defaultLocale = locale
		}
	}
}

// NewResolver builds a Resolver; the default locale is DefaultLocale.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{defaultLocale: DefaultLocale}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// DefaultLocale returns the configured default locale.
func (r *Resolver) DefaultLocale() string {
	if r == nil || r.defaultLocale == "" {
		return DefaultLocale
	}
	return r.defaultLocale
}

// Locale returns locale, or the default locale when locale is empty.
func (r *Resolver) Locale(locale string) string {
	if locale = normalizeLocale(locale); locale != "" {
		return locale
	}
	return r.DefaultLocale()
}

// Resolve is LocalizedValue with the default locale applied to an empty locale.
func (r *Resolver) Resolve(value any, locale string, defaultValue any) any {
	return LocalizedValue(value, r.Locale(locale), defaultValue)
}

// ResolveContext resolves value against the locale stored on ctx.
func (r *Resolver) ResolveContext(ctx context.Context, value any, defaultValue any) any {
	locale, _ := LocaleFromContext(ctx)
	return r.Resolve(value, locale, defaultValue)
}
