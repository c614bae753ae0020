package bookbinder

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/russross/blackfriday/v2"
	"golang.org/x/net/html"
)

// pageNumberAlias is the in-document marker gofpdf substitutes with the
// total page count on output.
const pageNumberAlias = "{nb}"

// Renderer converts single markdown files into styled PDF pages under the
// output directory, applying the effective header/footer templates.
type Renderer struct {
	Settings  Settings
	BookTitle string
	RootDir   string
	OutputDir string
}

// Render converts the markdown file at mdPath to a PDF and returns the path
// it was written to. Any failure is fatal for the build.
func (r *Renderer) Render(mdPath string) (string, error) {
	content, err := os.ReadFile(mdPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, mdPath, err)
	}

	outPath := outputPDFPath(mdPath, r.RootDir, r.OutputDir)
	if err := ensureDir(filepath.Dir(outPath)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, mdPath, err)
	}

	ctx := r.headerContext(string(content), mdPath)
	page := r.Settings.Page
	header := substitutePlaceholders(page.Header, ctx)
	footerLeft := substitutePlaceholders(page.FooterLeft, ctx)
	footerCenter := substitutePlaceholders(page.FooterCenter, ctx)
	footerRight := substitutePlaceholders(page.FooterRight, ctx)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages(pageNumberAlias)

	style := r.Settings.Style
	pdf.SetHeaderFunc(func() {
		pdf.SetY(10)
		pdf.SetFont(style.HeadingFont, "B", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 10, resolvePageNumbers(header, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.SetFooterFunc(func() {
		pdf.SetFont(style.TextFont, "I", 8)
		pdf.SetTextColor(0, 0, 0)
		// SetY moves X back to the left margin, so each cell spans the
		// full width with its own alignment.
		pdf.SetY(-15)
		pdf.CellFormat(0, 10, resolvePageNumbers(footerLeft, pdf.PageNo()), "", 0, "L", false, 0, "")
		pdf.SetY(-15)
		pdf.CellFormat(0, 10, resolvePageNumbers(footerCenter, pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetY(-15)
		pdf.CellFormat(0, 10, resolvePageNumbers(footerRight, pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	htmlContent := blackfriday.Run(content)
	doc, err := html.Parse(bytes.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, mdPath, err)
	}

	w := &htmlWriter{pdf: pdf, style: style, atPageStart: true}
	w.render(doc)

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, mdPath, err)
	}
	return outPath, nil
}

// headerContext builds the substitution context for one file. {title} is
// the first top-level heading, falling back to the headerFallback template
// resolved against the remaining keys.
func (r *Renderer) headerContext(content, mdPath string) map[string]string {
	ctx := map[string]string{
		"filename":  strings.TrimSuffix(filepath.Base(mdPath), filepath.Ext(mdPath)),
		"date":      time.Now().Format(r.Settings.Page.DateFormat),
		"bookTitle": r.BookTitle,
	}
	title := extractTitle(content)
	if title == "" {
		title = substitutePlaceholders(r.Settings.Page.HeaderFallback, ctx)
	}
	ctx["title"] = title
	return ctx
}

// placeholderKeys is the fixed set of template slots the wrapper resolves.
// {page} and {pages} belong to the PDF writer's own pagination and are left
// for resolvePageNumbers.
var placeholderKeys = []string{"title", "filename", "date", "bookTitle"}

// substitutePlaceholders replaces recognized {key} slots with their context
// values. Keys absent from the context, empty values and unrecognized
// placeholders pass through literally.
func substitutePlaceholders(text string, ctx map[string]string) string {
	for _, key := range placeholderKeys {
		val := ctx[key]
		if val == "" {
			continue
		}
		text = strings.ReplaceAll(text, "{"+key+"}", val)
	}
	return text
}

func resolvePageNumbers(text string, pageNo int) string {
	text = strings.ReplaceAll(text, "{page}", fmt.Sprintf("%d", pageNo))
	return strings.ReplaceAll(text, "{pages}", pageNumberAlias)
}

// extractTitle returns the first top-level heading of a markdown document,
// accepting both ATX ("# Title") and setext ("Title\n====") forms, or ""
// when the document has none.
func extractTitle(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if title, ok := strings.CutPrefix(trimmed, "# "); ok {
			return strings.TrimSpace(title)
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if i+1 < len(lines) && isSetextUnderline(lines[i+1]) {
			return trimmed
		}
	}
	return ""
}

func isSetextUnderline(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, c := range line {
		if c != '=' {
			return false
		}
	}
	return true
}
