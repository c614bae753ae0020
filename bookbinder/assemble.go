package bookbinder

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	gocache "github.com/patrickmn/go-cache"
	rscpdf "rsc.io/pdf"
)

// FileRenderer converts one markdown source into a ready PDF on disk and
// returns its path.
type FileRenderer interface {
	Render(mdPath string) (string, error)
}

// Assembler walks a validated order chapter by chapter, resolves every
// source file to a ready PDF, tracks page offsets for the table of contents
// and merges everything into one bookmarked book.
type Assembler struct {
	Settings  Settings
	RootDir   string
	OutputDir string
	Force     bool
	Cache     *ConversionCache
	Renderer  FileRenderer
	Log       *log.Logger

	// PageCount reports how many pages a ready PDF contributes. The
	// default reads the file and memoizes the result; tests substitute
	// their own.
	PageCount func(path string) int

	counts *gocache.Cache
}

// NewAssembler wires an assembler over the given cache and renderer. A nil
// logger logs to stderr.
func NewAssembler(settings Settings, rootDir, outputDir string, cache *ConversionCache, renderer FileRenderer, force bool, logger *log.Logger) *Assembler {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	a := &Assembler{
		Settings:  settings,
		RootDir:   rootDir,
		OutputDir: outputDir,
		Force:     force,
		Cache:     cache,
		Renderer:  renderer,
		Log:       logger,
		counts:    gocache.New(gocache.NoExpiration, 0),
	}
	a.PageCount = a.readPageCount
	return a
}

// Build produces the final book for the order and returns the output path.
// Any render or merge failure aborts the whole build; the output is written
// to a temporary file and only renamed into place on full success, so a
// failed build never leaves a partial book behind.
func (a *Assembler) Build(order *Order) (string, error) {
	bookTitle := order.BookTitle
	if bookTitle == "" {
		bookTitle = a.Settings.Defaults.BookTitle
	}
	outputName := order.OutputFilename
	if outputName == "" {
		outputName = a.Settings.Defaults.OutputFilename
	}
	outputName = strings.TrimSuffix(outputName, filepath.Ext(outputName)) + ".pdf"

	var front, body, back []resolvedFile
	for i := range order.Chapters {
		ch := &order.Chapters[i]
		var files []resolvedFile
		for _, src := range ch.SourceFiles() {
			pdfPath, err := a.readyPDF(src)
			if err != nil {
				return "", err
			}
			pages := a.PageCount(pdfPath)
			if pages == 0 {
				a.Log.Printf("warning: %s contributes no pages", a.rel(src))
			}
			files = append(files, resolvedFile{section: ch.Section, pdfPath: pdfPath, pages: pages})
		}
		switch ch.Section {
		case sectionFrontCover:
			front = append(front, files...)
		case sectionBackCover:
			back = append(back, files...)
		default:
			body = append(body, files...)
		}
	}

	entries := sectionEntries(body)
	a.Log.Printf("assembling %q: %d sections, %d content files", bookTitle, len(entries), len(body))

	if err := ensureDir(a.OutputDir); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMerge, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(bookTitle, false)
	if order.Author != "" {
		pdf.SetAuthor(order.Author, false)
	}
	m := newMerger(pdf)

	for _, f := range front {
		if f.pages == 0 {
			continue
		}
		if err := m.appendPDF(f.pdfPath, f.pages, ""); err != nil {
			return "", err
		}
	}

	drawTOC(pdf, entries, bookTitle, a.Settings)

	bookmarked := make(map[string]bool, len(entries))
	for _, f := range body {
		if f.pages == 0 {
			continue
		}
		bookmark := ""
		if !bookmarked[f.section] {
			bookmarked[f.section] = true
			bookmark = f.section
		}
		if err := m.appendPDF(f.pdfPath, f.pages, bookmark); err != nil {
			return "", err
		}
	}

	for _, f := range back {
		if f.pages == 0 {
			continue
		}
		if err := m.appendPDF(f.pdfPath, f.pages, ""); err != nil {
			return "", err
		}
	}

	// Cache trouble degrades to slower rebuilds, never a failed book.
	if err := a.Cache.Save(); err != nil {
		a.Log.Printf("warning: could not save conversion cache: %v", err)
	}

	outPath := filepath.Join(a.OutputDir, outputName)
	tmpPath := filepath.Join(a.OutputDir, ".tmp-"+uuid.New().String()+".pdf")
	if err := pdf.OutputFileAndClose(tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %v", ErrMerge, err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %v", ErrMerge, err)
	}
	return outPath, nil
}

// readyPDF resolves one source file to a ready PDF: pass-through for PDF
// sources, cache lookup or fresh conversion for markdown.
func (a *Assembler) readyPDF(src string) (string, error) {
	if isPDFFile(src) {
		return src, nil
	}

	if !a.Cache.NeedsConvert(src, a.Force) {
		if cached, ok := a.Cache.Lookup(src); ok {
			a.Log.Printf("cached: %s", a.rel(src))
			return cached, nil
		}
	}

	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingFile, src)
	}
	pdfPath, err := a.Renderer.Render(src)
	if err != nil {
		return "", err
	}
	a.Cache.RecordSuccess(src, pdfPath, info.ModTime())
	a.Log.Printf("converted: %s", a.rel(src))
	return pdfPath, nil
}

// sectionEntries computes the table of contents from the resolved body
// files. A section gets one entry, recorded at the page offset of its first
// file; later files extend the entry without creating a new one. Offsets
// are content-relative: the first body page is page 1. A section whose
// files all resolve to zero pages puts nothing in the book, so it gets no
// entry, matching the absent bookmark.
func sectionEntries(files []resolvedFile) []TOCEntry {
	var entries []TOCEntry
	running := 0
	for _, f := range files {
		idx := -1
		for i := range entries {
			if entries[i].Section == f.section {
				idx = i
				break
			}
		}
		if idx == -1 {
			entries = append(entries, TOCEntry{Section: f.section, StartPage: running + 1})
			idx = len(entries) - 1
		}
		entries[idx].Files++
		entries[idx].Pages += f.pages
		running += f.pages
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Pages > 0 {
			kept = append(kept, e)
		}
	}
	return kept
}

func (a *Assembler) readPageCount(path string) int {
	if v, ok := a.counts.Get(path); ok {
		return v.(int)
	}
	n := safePageCount(path, a.Log)
	a.counts.Set(path, n, gocache.NoExpiration)
	return n
}

// safePageCount returns 0 with a warning for unreadable PDFs so a bad input
// skips rather than aborts; the reader panics on some malformed documents.
func safePageCount(path string, logger *log.Logger) (n int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("warning: could not read %s: %v", filepath.Base(path), r)
			n = 0
		}
	}()
	r, err := rscpdf.Open(path)
	if err != nil {
		logger.Printf("warning: could not read %s: %v", filepath.Base(path), err)
		return 0
	}
	return r.NumPage()
}

func (a *Assembler) rel(path string) string {
	if rel, err := filepath.Rel(a.RootDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
