package ogdch

import (
	"fmt"
	"strings"
)

// Facet is a search facet field and its display title.
type Facet struct {
	Field string
	Title string
}

type facetLabel struct {
	key    string
	source string
}

var (
	facetCategories     = facetLabel{"facet.categories", "Categories"}
	facetKeywords       = facetLabel{"facet.keywords", "Keywords"}
	facetOrganizations  = facetLabel{"facet.organizations", "Organizations"}
	facetPoliticalLevel = facetLabel{"facet.political_levels", "Political levels"}
	facetTermsOfUse     = facetLabel{"facet.terms_of_use", "Terms of use"}
	facetFormats        = facetLabel{"facet.formats", "Formats"}
)

func (h *Hooks) facet(locale, field string, l facetLabel) Facet {
	return Facet{Field: field, Title: label(h.translator, locale, l.key, l.source)}
}

// DatasetFacets lists the facets of the dataset search page.
func (h *Hooks) DatasetFacets(locale string) []Facet {
	locale = h.indexLanguage(locale)
	return []Facet{
		h.facet(locale, "groups", facetCategories),
		h.facet(locale, "keywords_"+locale, facetKeywords),
		h.facet(locale, "organization", facetOrganizations),
		h.facet(locale, "political_level", facetPoliticalLevel),
		h.facet(locale, "res_rights", facetTermsOfUse),
		h.facet(locale, "res_format", facetFormats),
	}
}

// GroupFacets lists the facets of a group page.
func (h *Hooks) GroupFacets(locale string) []Facet {
	locale = h.indexLanguage(locale)
	return []Facet{
		h.facet(locale, "keywords_"+locale, facetKeywords),
		h.facet(locale, "organization", facetOrganizations),
		h.facet(locale, "political_level", facetPoliticalLevel),
		h.facet(locale, "res_rights", facetTermsOfUse),
		h.facet(locale, "res_format", facetFormats),
	}
}

// OrganizationFacets lists the facets of an organization page.
func (h *Hooks) OrganizationFacets(locale string) []Facet {
	locale = h.indexLanguage(locale)
	return []Facet{
		h.facet(locale, "groups", facetCategories),
		h.facet(locale, "keywords_"+locale, facetKeywords),
		h.facet(locale, "res_rights", facetTermsOfUse),
		h.facet(locale, "res_format", facetFormats),
	}
}

// LangToString joins the language variants of record[attribute] as
// "de - fr - it - en" so that every language is searchable in one field.
func LangToString(record map[string]any, attribute string) string {
	value := record[attribute]
	bundle, ok := value.(map[string]any)
	if !ok {
		if texts, isStrings := value.(map[string]string); isStrings {
			bundle = make(map[string]any, len(texts))
			for key, text := range texts {
				bundle[key] = text
			}
		} else {
			return scalarString(value)
		}
	}
	return fmt.Sprintf("%s - %s - %s - %s",
		scalarString(bundle["de"]),
		scalarString(bundle["fr"]),
		scalarString(bundle["it"]),
		scalarString(bundle["en"]),
	)
}

// BeforeIndex adds the language specific fields to a dataset's search
// document. The multilingual source is the JSON in validated_data_dict.
func (h *Hooks) BeforeIndex(searchData map[string]any) (map[string]any, error) {
	if !IsDataset(searchData) {
		return searchData, nil
	}

	validated, ok := ParseJSON(searchData["validated_data_dict"]).(map[string]any)
	if !ok {
		return searchData, fmt.Errorf("ogdch: index %v: validated_data_dict is not a JSON object", searchData["id"])
	}

	resources := records(validated["resources"])

	resNames := make([]string, 0, len(resources))
	resDescriptions := make([]string, 0, len(resources))
	resRights := make([]string, 0, len(resources))
	for _, resource := range resources {
		resNames = append(resNames, LangToString(resource, "title"))
		resDescriptions = append(resDescriptions, LangToString(resource, "description"))
		rights, _ := resource["rights"].(string)
		resRights = append(resRights, SimplifyTermsOfUse(rights))
	}

	searchData["res_name"] = resNames
	searchData["res_description"] = resDescriptions
	searchData["res_format"] = h.formats.FormatsForIndex(resources)
	searchData["res_rights"] = resRights
	searchData["title_string"] = LangToString(validated, "title")
	searchData["description"] = LangToString(validated, "description")

	if org, ok := validated["organization"].(map[string]any); ok {
		if level, ok := org["political_level"]; ok {
			searchData["political_level"] = level
		}
	}

	if err := indexLanguageFields(searchData, validated, resources); err != nil {
		h.logger.Debug("skip language fields", "id", searchData["id"], "error", err)
	}
	return searchData, nil
}

// indexLanguageFields writes title_*, title_string_*, description_*,
// keywords_* and text_* for every language. A missing source field stops
// it; fields written up to that point stay, text_* fields are only written
// when every language succeeded.
func indexLanguageFields(searchData, validated map[string]any, resources []map[string]any) error {
	source := func(field string) (any, error) {
		value, ok := validated[field]
		if !ok {
			return nil, fmt.Errorf("missing field %q", field)
		}
		return value, nil
	}

	textItems := make(map[string][]string, len(LanguagePriority))

	for _, lang := range LanguagePriority {
		titles, err := source("title")
		if err != nil {
			return err
		}
		title := LocalizedValue(titles, lang, "")
		searchData["title_"+lang] = title
		searchData["title_string_"+lang] = MungeTitleToName(scalarString(title))

		descriptions, err := source("description")
		if err != nil {
			return err
		}
		description := LocalizedValue(descriptions, lang, "")
		searchData["description_"+lang] = description

		allKeywords, err := source("keywords")
		if err != nil {
			return err
		}
		keywords := LocalizedValue(allKeywords, lang, "")
		searchData["keywords_"+lang] = keywords

		items := []string{scalarString(description)}
		items = append(items, textList(keywords)...)

		for _, field := range []string{"title", "description"} {
			for _, resource := range resources {
				text, err := languageEntry(resource[field], lang)
				if err != nil {
					return fmt.Errorf("resource %s: %w", field, err)
				}
				if text != "" {
					items = append(items, text)
				}
			}
		}
		textItems["text_"+lang] = items
	}

	for key, items := range textItems {
		searchData[key] = strings.Join(items, " ")
	}
	return nil
}

func languageEntry(value any, lang string) (string, error) {
	var (
		entry any
		ok    bool
	)
	switch v := value.(type) {
	case map[string]any:
		entry, ok = v[lang]
	case map[string]string:
		entry, ok = v[lang]
	}
	if !ok {
		return "", fmt.Errorf("missing language %q", lang)
	}
	return scalarString(entry), nil
}

func textList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, scalarString(item))
		}
		return out
	default:
		return []string{scalarString(v)}
	}
}

// BeforeSearch points the query at the language specific fields, boosting
// the current language, and restricts results to datasets unless the
// filter already names a dataset_type.
func (h *Hooks) BeforeSearch(params map[string]any, locale string) map[string]any {
	if params == nil {
		params = make(map[string]any)
	}

	current := h.indexLanguage(locale)

	var qf strings.Builder
	fmt.Fprintf(&qf, "title_%s^8 text_%s^4", current, current)
	for _, lang := range LanguagePriority {
		if lang == current {
			continue
		}
		fmt.Fprintf(&qf, " title_%s^2 text_%s", lang, lang)
	}
	params["qf"] = qf.String()

	fq, _ := params["fq"].(string)
	if !strings.Contains(fq, "dataset_type:") {
		params["fq"] = fq + " +dataset_type:dataset"
	}
	return params
}

// indexLanguage picks the indexed language for locale, falling back to the
// default locale and then to the first language.
func (h *Hooks) indexLanguage(locale string) string {
	if lang := searchLanguage(h.resolver.Locale(locale)); lang != "" {
		return lang
	}
	if lang := searchLanguage(h.resolver.DefaultLocale()); lang != "" {
		return lang
	}
	return LanguagePriority[0]
}

func searchLanguage(locale string) string {
	if IsSupportedLanguage(locale) {
		return locale
	}
	for _, parent := range localeParentChain(locale) {
		if IsSupportedLanguage(parent) {
			return parent
		}
	}
	return ""
}
