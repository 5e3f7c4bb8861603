package ogdch

import (
	"strings"

	"golang.org/x/text/language"
)

// LanguagePriority lists the recognized language codes in fallback order.
// A map is only treated as a language bundle when it carries all of them.
var LanguagePriority = []string{"en", "de", "fr", "it"}

// DefaultLocale is used when neither a request nor the configuration names one.
const DefaultLocale = "en"

// Languages returns a copy of LanguagePriority.
func Languages() []string {
	out := make([]string, len(LanguagePriority))
	copy(out, LanguagePriority)
	return out
}

// IsSupportedLanguage reports whether code is one of LanguagePriority.
func IsSupportedLanguage(code string) bool {
	for _, lang := range LanguagePriority {
		if lang == code {
			return true
		}
	}
	return false
}

func localeParentTag(locale string) string {
	if locale == "" {
		return ""
	}

	tag, err := language.Parse(locale)
	if err == nil {
		parent := tag.Parent()
		if parent == language.Und {
			return ""
		}
		value := parent.String()
		if value == "" || value == "und" {
			return ""
		}
		return value
	}

	if idx := strings.LastIndex(locale, "-"); idx > 0 {
		return locale[:idx]
	}

	return ""
}

// localeParentChain returns the parents of locale, closest first.
func localeParentChain(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return nil
	}

	var chain []string
	seen := map[string]struct{}{locale: {}}

	if tag, err := language.Parse(locale); err == nil {
		for parent := tag.Parent(); parent != language.Und; parent = parent.Parent() {
			value := parent.String()
			if value == "" || value == "und" {
				break
			}
			if _, exists := seen[value]; exists {
				break
			}
			seen[value] = struct{}{}
			chain = append(chain, value)
		}
	}

	for current := localeParentTag(locale); current != ""; current = localeParentTag(current) {
		if _, exists := seen[current]; exists {
			continue
		}
		seen[current] = struct{}{}
		chain = append(chain, current)
	}

	// x/text keeps the region on some parents (de-CH-1996 -> de-CH); make
	// sure the bare language is always reachable.
	if base, _, ok := strings.Cut(locale, "-"); ok && base != "" {
		if _, exists := seen[base]; !exists {
			chain = append(chain, base)
		}
	}

	return chain
}

// normalizeLocale replaces underscores with hyphens and trims whitespace.
func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}
