package fetch

import (
	"strings"

	"golang.org/x/net/html"
)

// maxExtractedRunes caps the text handed to the analyzer
const maxExtractedRunes = 20_000

// extractText parses HTML and returns the page title and visible text.
// Script, style, and navigation content is skipped.
func extractText(rawHTML string) (string, string) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", ""
	}

	var title string
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "nav", "footer", "iframe":
				return
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := strings.Join(parts, " ")
	if runes := []rune(text); len(runes) > maxExtractedRunes {
		text = string(runes[:maxExtractedRunes])
	}

	return title, text
}
