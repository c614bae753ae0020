package bookbinder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	rscpdf "rsc.io/pdf"
)

// pageText extracts the drawn text of one page, concatenated without
// spacing, for asserting on rendered header/footer content.
func pageText(t *testing.T, path string, pageNo int) string {
	t.Helper()
	r, err := rscpdf.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	for _, txt := range r.Page(pageNo).Content().Text {
		sb.WriteString(txt.S)
	}
	return sb.String()
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"atx", "# My Document Title\n\nSome content.", "My Document Title"},
		{"atx extra spaces", "#   Spaced Title   \n\nContent", "Spaced Title"},
		{"setext", "Setext Title\n============\n\nContent.", "Setext Title"},
		{"h2 only", "## Section Header\n\nNo H1 here.", ""},
		{"first h1 wins", "# First Title\n\n# Second Title\n", "First Title"},
		{"h1 mid document", "Some intro text\n\n# The Title\n\nMore", "The Title"},
		{"empty", "", ""},
		{"special chars", "# Title with 'quotes' & symbols!\n", "Title with 'quotes' & symbols!"},
		{"no heading", "Just a paragraph.\n\nAnother one.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTitle(tt.content); got != tt.want {
				t.Errorf("extractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubstitutePlaceholders(t *testing.T) {
	tests := []struct {
		name string
		text string
		ctx  map[string]string
		want string
	}{
		{"title", "Header: {title}", map[string]string{"title": "My Document"}, "Header: My Document"},
		{"multiple", "{title} - {filename}", map[string]string{"title": "Doc", "filename": "file"}, "Doc - file"},
		{"book title", "{bookTitle}", map[string]string{"bookTitle": "My Awesome Book"}, "My Awesome Book"},
		{"date", "Generated: {date}", map[string]string{"date": "2024-01-15"}, "Generated: 2024-01-15"},
		{"missing value stays literal", "Title: {title}", map[string]string{}, "Title: {title}"},
		{"empty value stays literal", "Title: {title}", map[string]string{"title": ""}, "Title: {title}"},
		{"unrecognized stays literal", "{custom} x {title}", map[string]string{"title": "T"}, "{custom} x T"},
		{"page counters untouched", "Page {page} of {pages}", map[string]string{"title": "T"}, "Page {page} of {pages}"},
		{"empty text", "", map[string]string{"title": "T"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := substitutePlaceholders(tt.text, tt.ctx); got != tt.want {
				t.Errorf("substitutePlaceholders() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeaderContextTitleFallback(t *testing.T) {
	r := &Renderer{
		Settings:  DefaultSettings(),
		BookTitle: "The Book",
	}
	r.Settings.Page.Header = "{title}"
	r.Settings.Page.HeaderFallback = "{bookTitle}"

	// A first heading becomes the header verbatim.
	ctx := r.headerContext("# Intro\n\nbody", "/root/ch/intro.md")
	if got := substitutePlaceholders(r.Settings.Page.Header, ctx); got != "Intro" {
		t.Errorf("header = %q, want Intro", got)
	}
	if ctx["filename"] != "intro" {
		t.Errorf("filename = %q, want intro", ctx["filename"])
	}

	// Without a heading, {title} resolves to headerFallback, itself
	// resolved against {bookTitle}.
	ctx = r.headerContext("no heading here", "/root/ch/intro.md")
	if got := substitutePlaceholders(r.Settings.Page.Header, ctx); got != "The Book" {
		t.Errorf("fallback header = %q, want The Book", got)
	}
}

func TestResolvePageNumbers(t *testing.T) {
	got := resolvePageNumbers("Page {page} of {pages}", 3)
	if got != "Page 3 of "+pageNumberAlias {
		t.Errorf("resolvePageNumbers = %q", got)
	}
}

func TestRenderWritesPDF(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	src := filepath.Join(root, "docs", "intro.md")
	writeFile(t, src, "# Intro\n\nSome *styled* text with a [link](https://example.com).\n\n- one\n- two\n")

	r := &Renderer{
		Settings:  DefaultSettings(),
		BookTitle: "The Book",
		RootDir:   root,
		OutputDir: out,
	}
	pdfPath, err := r.Render(src)
	if err != nil {
		t.Fatal(err)
	}

	// Output mirrors the source's path below the root.
	want := filepath.Join(out, "docs", "intro.pdf")
	if pdfPath != want {
		t.Errorf("output path = %s, want %s", pdfPath, want)
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Error("output is not a PDF")
	}
}

func TestRenderHeaderResolvesPageNumbers(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	src := filepath.Join(root, "doc.md")
	writeFile(t, src, "# Title\n\nbody text\n")

	settings := DefaultSettings()
	settings.Page.Header = "Page {page} of {pages}"
	r := &Renderer{
		Settings:  settings,
		BookTitle: "Book",
		RootDir:   root,
		OutputDir: out,
	}
	pdfPath, err := r.Render(src)
	if err != nil {
		t.Fatal(err)
	}

	// Header and footer must carry real page numbers, never the
	// literal placeholders. Extracted text runs together without
	// spaces, so assert on the joined form.
	text := pageText(t, pdfPath, 1)
	if strings.Contains(text, "{page}") || strings.Contains(text, "{pages}") {
		t.Errorf("page text contains unresolved placeholders: %q", text)
	}
	if !strings.Contains(text, "Page1of1") {
		t.Errorf("page text missing resolved header: %q", text)
	}
}

func TestOutputPDFPath(t *testing.T) {
	got := outputPDFPath("/root/a/b/doc.md", "/root", "/out")
	want := filepath.Join("/out", "a", "b", "doc.pdf")
	if got != want {
		t.Errorf("outputPDFPath = %s, want %s", got, want)
	}
	// Sources outside the root fall back to their base name.
	got = outputPDFPath("/elsewhere/doc.md", "/root", "/out")
	want = filepath.Join("/out", "doc.pdf")
	if got != want {
		t.Errorf("outputPDFPath = %s, want %s", got, want)
	}
}
