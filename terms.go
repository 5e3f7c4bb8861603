package ogdch

import "strings"

const (
	TermsOfUseOpen   = "NonCommercialAllowed-CommercialAllowed-ReferenceNotRequired"
	TermsOfUseBy     = "NonCommercialAllowed-CommercialAllowed-ReferenceRequired"
	TermsOfUseAsk    = "NonCommercialAllowed-CommercialWithPermission-ReferenceNotRequired"
	TermsOfUseByAsk  = "NonCommercialAllowed-CommercialWithPermission-ReferenceRequired"
	TermsOfUseClosed = "ClosedData"
)

// page marks of the terms of use page
var termsOfUsePagemarks = map[string]string{
	TermsOfUseOpen:  "#terms_open",
	TermsOfUseBy:    "#terms_by",
	TermsOfUseAsk:   "#terms_ask",
	TermsOfUseByAsk: "#terms_by_ask",
}

type termsOfUseEntry struct {
	key    string
	source string
	icon   string
}

var termsOfUseIcons = map[string]termsOfUseEntry{
	TermsOfUseOpen:   {"terms.open", "Open use", "terms_open"},
	TermsOfUseBy:     {"terms.by", "Open use. Must provide the source.", "terms_by"},
	TermsOfUseAsk:    {"terms.ask", "Open use. Use for commercial purposes requires permission of the data owner.", "terms_ask"},
	TermsOfUseByAsk:  {"terms.by_ask", "Open use. Must provide the source. Use for commercial purposes requires permission of the data owner.", "terms_by-ask"},
	TermsOfUseClosed: {"terms.closed", "Closed data", "terms_closed"},
}

// TermsOfUseIcon describes how a terms of use value is displayed.
type TermsOfUseIcon struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// SimplifyTermsOfUse keeps the four open terms and folds everything else
// into TermsOfUseClosed.
func SimplifyTermsOfUse(termID string) string {
	switch termID {
	case TermsOfUseOpen, TermsOfUseBy, TermsOfUseAsk, TermsOfUseByAsk:
		return termID
	default:
		return TermsOfUseClosed
	}
}

// TermsOfUseIconFor returns the translated title and icon of termID.
func TermsOfUseIconFor(t Translator, locale, termID string) *TermsOfUseIcon {
	entry, ok := termsOfUseIcons[SimplifyTermsOfUse(termID)]
	if !ok {
		return nil
	}
	return &TermsOfUseIcon{
		Title: label(t, locale, entry.key, entry.source),
		Icon:  entry.icon,
	}
}

// TermsOfUseURL links to the terms of use page, anchored at termID's
// section when it has one. base is the site root URL or path prefix.
func TermsOfUseURL(base, termID string) string {
	url := strings.TrimSuffix(base, "/") + "/terms-of-use"
	if mark, ok := termsOfUsePagemarks[termID]; ok {
		url += mark
	}
	return url
}
