package bookbinder

import (
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/net/html"
)

// htmlWriter walks the HTML tree produced from markdown and drives the PDF
// writer. Formatting state lives in the gofpdf document itself.
type htmlWriter struct {
	pdf         *gofpdf.Fpdf
	style       StyleSettings
	atPageStart bool
}

func (w *htmlWriter) render(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		text := cleanText(n.Data)
		if strings.TrimSpace(text) != "" {
			w.pdf.Write(5, text)
			w.atPageStart = false
		}
	case html.ElementNode:
		switch n.Data {
		case "h1":
			// Top-level headings begin a fresh page, except when the
			// document opens with one.
			if !w.atPageStart {
				w.pdf.AddPage()
			}
			w.heading(n, 24, 20)
		case "h2":
			w.pdf.Ln(10)
			w.heading(n, 18, 10)
		case "h3":
			w.pdf.Ln(8)
			w.heading(n, 14, 8)
		case "h4":
			w.pdf.Ln(6)
			w.heading(n, 12, 6)
		case "p":
			w.pdf.SetFont(w.style.TextFont, "", w.style.TextSize)
			w.renderChildren(n)
			w.pdf.Ln(8)
		case "em", "i":
			w.pdf.SetFont(w.style.TextFont, "I", w.style.TextSize)
			w.renderChildren(n)
			w.pdf.SetFont(w.style.TextFont, "", w.style.TextSize)
		case "strong", "b":
			w.pdf.SetFont(w.style.TextFont, "B", w.style.TextSize)
			w.renderChildren(n)
			w.pdf.SetFont(w.style.TextFont, "", w.style.TextSize)
		case "ul", "ol":
			w.pdf.Ln(5)
			w.renderChildren(n)
			w.pdf.Ln(5)
		case "li":
			w.pdf.SetFont(w.style.TextFont, "", w.style.TextSize)
			w.pdf.SetX(w.pdf.GetX() + 10)
			w.pdf.Write(5, "• ")
			w.renderChildren(n)
			w.pdf.Ln(5)
		case "code":
			w.pdf.SetFont(w.style.CodeFont, "", w.style.CodeSize)
			w.renderChildren(n)
			w.pdf.SetFont(w.style.TextFont, "", w.style.TextSize)
		case "pre":
			w.pdf.Ln(5)
			w.pdf.SetFont(w.style.CodeFont, "", w.style.CodeSize)
			w.renderChildren(n)
			w.pdf.SetFont(w.style.TextFont, "", w.style.TextSize)
			w.pdf.Ln(5)
		case "blockquote":
			w.pdf.SetFont(w.style.TextFont, "I", w.style.TextSize)
			w.pdf.SetX(w.pdf.GetX() + 10)
			w.renderChildren(n)
			w.pdf.SetFont(w.style.TextFont, "", w.style.TextSize)
			w.pdf.Ln(5)
		case "br":
			w.pdf.Ln(5)
		default:
			w.renderChildren(n)
		}
	default:
		w.renderChildren(n)
	}
}

func (w *htmlWriter) heading(n *html.Node, size, after float64) {
	w.pdf.SetFont(w.style.HeadingFont, "B", size)
	w.renderChildren(n)
	w.pdf.Ln(after)
	w.atPageStart = false
}

func (w *htmlWriter) renderChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.render(c)
	}
}

// cleanText replaces characters the core fonts cannot encode.
func cleanText(text string) string {
	replacer := strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
		"…", "...",
		"–", "-",
		"—", "-",
	)
	return replacer.Replace(text)
}
