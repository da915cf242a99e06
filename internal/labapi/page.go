package labapi

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractCSRF токен из скрытого поля csrf_token формы Flask-WTF или из meta csrf-token
func extractCSRF(page []byte) string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	var input, meta string
	walk(doc, func(n *html.Node) bool {
		switch n.DataAtom {
		case atom.Input:
			if input == "" && attr(n, "name") == "csrf_token" {
				input = attr(n, "value")
			}
		case atom.Meta:
			if meta == "" && attr(n, "name") == "csrf-token" {
				meta = attr(n, "content")
			}
		}
		return input == ""
	})

	if input != "" {
		return input
	}
	return meta
}

// extractFlash текст первого flash-сообщения об ошибке (.alert-danger, .alert-warning)
func extractFlash(page []byte) string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	var flash string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && (hasClass(n, "alert-danger") || hasClass(n, "alert-warning")) {
			flash = text(n)
		}
		return flash == ""
	})
	return flash
}

// walk обходит дерево в глубину, пока visit возвращает true
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// text видимый текст узла без кнопки закрытия, пробелы схлопнуты
func text(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && (n.DataAtom == atom.Button || n.DataAtom == atom.Script):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
