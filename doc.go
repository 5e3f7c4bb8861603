// Package ogdch holds the multilingual data handling of the Swiss open
// government data catalog: localized value resolution, record language
// reduction, search documents and queries, terms of use, label catalogs and
// the template helpers built on top of them.
//
// Catalog records arrive as decoded JSON (map[string]any). Multilingual
// fields are maps keyed by the codes in LanguagePriority:
//
//	title := map[string]any{"en": "", "de": "Bevölkerung", "fr": "Population", "it": ""}
//	ogdch.LocalizedValue(title, "en", "") // "Bevölkerung"
//
// Resolution never fails. Anything that does not look like a complete
// language bundle is returned unchanged.
package ogdch
