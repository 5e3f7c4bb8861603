package ogdch

import (
	"context"
	"html"
	"html/template"
	"sort"
	"strings"
)

// TranslatedGroupTitle resolves a group title stored as a JSON language
// bundle. Titles that are not bundles are returned unchanged.
func TranslatedGroupTitle(title, locale string) string {
	decoded := ParseJSON(title)
	if !IsLanguageBundle(decoded) {
		return title
	}
	return LocalizedString(decoded, locale, title)
}

// SortGroupTree translates every title for locale and sorts each level by
// the lower case, accent free title.
func SortGroupTree(nodes []GroupTreeNode, locale string) []GroupTreeNode {
	for i := range nodes {
		nodes[i].Title = TranslatedGroupTitle(nodes[i].Title, locale)
		if len(nodes[i].Children) > 0 {
			nodes[i].Children = SortGroupTree(nodes[i].Children, locale)
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		return sortKey(nodes[i].Title) < sortKey(nodes[j].Title)
	})
	return nodes
}

func sortKey(title string) string {
	return StripAccents(strings.ToLower(title))
}

// GroupTree loads the publisher hierarchy, translated and sorted for locale.
func (h *Helpers) GroupTree(ctx context.Context, locale string) ([]GroupTreeNode, error) {
	if err := h.requireActions(); err != nil {
		return nil, err
	}
	nodes, err := h.actions.GroupTree(ctx, "organization")
	if err != nil {
		return nil, err
	}
	return SortGroupTree(nodes, h.resolver.Locale(locale)), nil
}

// RenderGroupTree renders the publisher hierarchy for locale.
func (h *Helpers) RenderGroupTree(ctx context.Context, locale string) (template.HTML, error) {
	locale = h.resolver.Locale(locale)
	nodes, err := h.GroupTree(ctx, locale)
	if err != nil {
		return "", err
	}
	return RenderTree(locale, nodes), nil
}

// RenderTree renders nodes as nested lists without going through the
// template engine, which is too slow for the full hierarchy.
func RenderTree(locale string, nodes []GroupTreeNode) template.HTML {
	var b strings.Builder
	b.WriteString(`<ul id="organizations-list">`)
	for _, node := range nodes {
		renderTreeNode(&b, locale, node)
	}
	b.WriteString(`</ul>`)
	return template.HTML(b.String())
}

func renderTreeNode(b *strings.Builder, locale string, node GroupTreeNode) {
	name := html.EscapeString(node.Name)

	b.WriteString(`<li id="node_` + name + `" class="organization">`)
	b.WriteString(`<div class="organization-row">`)
	b.WriteString(`<a href="/` + html.EscapeString(locale) + `/organization/` + name + `">`)
	b.WriteString(html.EscapeString(node.Title))
	b.WriteString(`</a></div>`)
	if len(node.Children) > 0 {
		b.WriteString(`<ul>`)
		for _, child := range node.Children {
			renderTreeNode(b, locale, child)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</li>`)
}
