package recipe

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCategory labels recipes that have no category.
const DefaultCategory = "Рецепт"

var placeholderColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E2",
}

// PlaceholderSVG draws a coloured card with the initial of the recipe's
// primary category. The colour depends only on the last byte of the id.
func PlaceholderSVG(r Recipe) string {
	category := r.PrimaryCategory()
	if category == "" {
		category = DefaultCategory
	}
	first, _ := utf8.DecodeRuneInString(category)
	initial := string(unicode.ToUpper(first))

	color := placeholderColors[0]
	if r.ID != "" {
		color = placeholderColors[int(r.ID[len(r.ID)-1])%len(placeholderColors)]
	}

	return fmt.Sprintf(`<svg width="400" height="300" xmlns="http://www.w3.org/2000/svg">`+
		`<rect width="400" height="300" fill="%s"/>`+
		`<text x="50%%" y="50%%" font-size="120" font-family="Arial" fill="white" text-anchor="middle" dy=".3em">%s</text>`+
		`</svg>`, color, escapeXML(initial))
}

// PlaceholderImage returns PlaceholderSVG as a data URL usable in <img src>.
func PlaceholderImage(r Recipe) string {
	return "data:image/svg+xml," + url.PathEscape(PlaceholderSVG(r))
}

// CoverImage returns the first image of the recipe or its placeholder.
func CoverImage(r Recipe) string {
	if len(r.Images) > 0 {
		return r.Images[0]
	}
	return PlaceholderImage(r)
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
