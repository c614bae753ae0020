package bookbinder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// drawTOC renders the table of contents into the book being assembled, one
// entry per section in manifest order, continuing onto further pages as
// needed.
func drawTOC(pdf *gofpdf.Fpdf, entries []TOCEntry, bookTitle string, s Settings) {
	toc := s.TOC
	pageW, pageH := pdf.GetPageSize()
	margin := 25.0

	pdf.AddPage()

	pdf.SetFont(s.Style.HeadingFont, "B", toc.TitleFontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(35)
	pdf.CellFormat(0, 12, bookTitle, "", 1, "C", false, 0, "")

	pdf.SetFont(s.Style.HeadingFont, "", toc.SubtitleFontSize)
	pdf.CellFormat(0, 10, toc.SubtitleText, "", 1, "C", false, 0, "")

	r, g, b := hexColor(toc.LineColor)
	pdf.SetDrawColor(r, g, b)
	pdf.SetLineWidth(0.8)
	pdf.Line(margin+10, pdf.GetY()+3, pageW-margin-10, pdf.GetY()+3)
	pdf.SetY(pdf.GetY() + 15)

	entryR, entryG, entryB := hexColor(toc.EntryColor)
	for _, entry := range entries {
		if pdf.GetY() > pageH-40 {
			pdf.AddPage()
			pdf.SetY(35)
		}
		pdf.SetFont(s.Style.TextFont, "", toc.EntryFontSize)
		pdf.SetTextColor(entryR, entryG, entryB)
		pdf.SetX(margin)
		pdf.CellFormat(pageW-2*margin-25, 8, entry.Section, "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(25, 8, fmt.Sprintf("Page %d", entry.StartPage), "", 1, "R", false, 0, "")
	}

	footR, footG, footB := hexColor(toc.FooterColor)
	pdf.SetFont(s.Style.TextFont, "", toc.FooterFontSize)
	pdf.SetTextColor(footR, footG, footB)
	pdf.SetY(pageH - 15)
	pdf.CellFormat(0, 8, time.Now().Format(s.Page.DateFormat), "", 0, "L", false, 0, "")
	pdf.SetY(pageH - 15)
	pdf.CellFormat(0, 8, substitutePlaceholders(s.Page.FooterRight, map[string]string{"bookTitle": bookTitle}), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// hexColor parses a "#RRGGBB" color, black on malformed input.
func hexColor(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
