package bookbinder

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// merger appends the pages of ready PDFs into the book being assembled by
// importing each page as a template.
type merger struct {
	pdf *gofpdf.Fpdf
	imp *gofpdi.Importer
}

func newMerger(pdf *gofpdf.Fpdf) *merger {
	return &merger{pdf: pdf, imp: gofpdi.NewImporter()}
}

// appendPDF imports the first `pages` pages of path into the book. When
// bookmark is non-empty, an outline entry targeting the first imported page
// is added. gofpdi reports unparsable input by panicking, which is mapped
// to ErrMerge here.
func (m *merger) appendPDF(path string, pages int, bookmark string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrMerge, path, r)
		}
	}()

	pageW, _ := m.pdf.GetPageSize()
	for page := 1; page <= pages; page++ {
		m.pdf.AddPage()
		if page == 1 && bookmark != "" {
			m.pdf.Bookmark(bookmark, 0, 0)
		}
		tpl := m.imp.ImportPage(m.pdf, path, page, "/MediaBox")
		m.imp.UseImportedTemplate(m.pdf, tpl, 0, 0, pageW, 0)
	}
	return nil
}
