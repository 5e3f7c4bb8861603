package ogdch

import (
	"context"
	"html/template"
	"reflect"
)

// HelperConfig configures template helper exports
type HelperConfig struct {
	// LocaleKey names the map key or struct field of the template data
	// holding the request locale. Defaults to "Locale".
	LocaleKey string
}

// TemplateHelpers exposes the catalog helpers for html/template. Helpers
// that depend on the request take the template data as first argument; its
// locale is read from LocaleKey and, when the data has a Context method, its
// context is used for catalog calls.
func TemplateHelpers(h *Helpers, cfg HelperConfig) template.FuncMap {
	if h == nil {
		h = NewHelpers()
	}
	if cfg.LocaleKey == "" {
		cfg.LocaleKey = "Locale"
	}

	locale := func(data any) string {
		return h.resolver.Locale(extractLocale(data, cfg.LocaleKey))
	}

	return template.FuncMap{
		"current_locale": locale,
		"get_langs":      Languages,
		"parse_json":     ParseJSON,
		"get_localized_value": func(data any, value any, defaultValue any) any {
			return LocalizedValue(value, locale(data), defaultValue)
		},
		"localize_json_title": func(data any, facetItem map[string]any) any {
			return LocalizeJSONTitle(facetItem, locale(data))
		},
		"get_dataset_count": func(data any) (int, error) {
			return h.DatasetCount(extractContext(data))
		},
		"get_group_count": func(data any) (int, error) {
			return h.GroupCount(extractContext(data))
		},
		"get_org_count": func(data any) (int, error) {
			return h.OrgCount(extractContext(data))
		},
		"get_app_count": func(data any) int {
			return h.AppCount(extractContext(data))
		},
		"get_localized_org": func(data any, orgID string, includeDatasets bool) (map[string]any, error) {
			return h.LocalizedOrg(extractContext(data), orgID, includeDatasets)
		},
		"get_frequency_name": func(data any, identifier string) string {
			return FrequencyName(h.translator, locale(data), identifier)
		},
		"get_political_level": func(data any, level string) string {
			return PoliticalLevel(h.translator, locale(data), level)
		},
		"get_terms_of_use_icon": func(data any, termID string) *TermsOfUseIcon {
			return TermsOfUseIconFor(h.translator, locale(data), termID)
		},
		"get_terms_of_use_url":  h.TermsOfUseURL,
		"simplify_terms_of_use": SimplifyTermsOfUse,
		"get_dataset_terms_of_use": func(data any, id string) (string, error) {
			return h.DatasetTermsOfUse(extractContext(data), id)
		},
		"get_dataset_by_identifier": func(data any, identifier string) (map[string]any, error) {
			return h.DatasetByIdentifier(extractContext(data), identifier)
		},
		"get_showcases_for_dataset": func(data any, id string) ([]map[string]any, error) {
			return h.ShowcasesForDataset(extractContext(data), id)
		},
		"get_readable_file_size": func(num any) any {
			if size, ok := ReadableFileSize(num, "B"); ok {
				return size
			}
			return false
		},
		"get_piwik_config": h.PiwikConfig,
		"ogdch_localised_number": func(data any, value any) string {
			return LocalisedNumber(locale(data), value)
		},
		"ogdch_group_tree": func(data any) ([]GroupTreeNode, error) {
			return h.GroupTree(extractContext(data), locale(data))
		},
		"ogdch_render_tree": func(data any) (template.HTML, error) {
			return h.RenderGroupTree(extractContext(data), locale(data))
		},
		"get_localized_newsletter_url": func(data any) string {
			return h.LocalizedNewsletterURL(locale(data))
		},
	}
}

// extractLocale reads the locale from template data: a string, a map entry
// or a string field named localeKey.
func extractLocale(data any, localeKey string) string {
	if data == nil {
		return ""
	}

	switch d := data.(type) {
	case string:
		return d
	case map[string]any:
		if v, ok := d[localeKey].(string); ok {
			return v
		}
		return ""
	case map[string]string:
		return d[localeKey]
	}

	value := reflect.ValueOf(data)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return ""
		}
		value = value.Elem()
	}

	if value.Kind() == reflect.Struct {
		field := value.FieldByName(localeKey)
		if field.IsValid() && field.Kind() == reflect.String {
			return field.String()
		}
	}
	return ""
}

type contextCarrier interface {
	Context() context.Context
}

func extractContext(data any) context.Context {
	if carrier, ok := data.(contextCarrier); ok {
		if ctx := carrier.Context(); ctx != nil {
			return ctx
		}
	}
	if ctx, ok := data.(context.Context); ok && ctx != nil {
		return ctx
	}
	return context.Background()
}
