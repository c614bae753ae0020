// Package bookbinder builds a single bookmarked PDF book from an ordered
// manifest of markdown and PDF source files. Markdown files are rendered to
// styled PDF pages with templated headers and footers, cached by source
// modification time, and merged together with a generated table of contents.
package bookbinder

// Order is the parsed order manifest driving one build. It is read once per
// invocation and treated as read-only afterwards.
type Order struct {
	BookTitle      string     `json:"bookTitle"`
	OutputFilename string     `json:"outputFilename"`
	Author         string     `json:"author,omitempty"`
	PageSettings   *PagePatch `json:"pageSettings,omitempty"`
	Chapters       []Chapter  `json:"chapters"`
}

// Chapter is one named section of the book. Files and folders are listed in
// book order; folders contribute every markdown and PDF file beneath them.
type Chapter struct {
	Section string   `json:"section"`
	Files   []string `json:"files,omitempty"`
	Folders []string `json:"folders,omitempty"`

	// resolved holds the absolute paths of every source file in this
	// chapter, populated during validation.
	resolved []string
}

// Sections with these names are treated as cover material: they are placed
// around the table of contents and get no TOC entry or bookmark.
const (
	sectionFrontCover = "Front Cover"
	sectionBackCover  = "Back Cover"
)

// TOCEntry is one section line in the generated table of contents.
// StartPage is content-relative: the first body page of the book is page 1,
// regardless of cover or TOC pages in front of it.
type TOCEntry struct {
	Section   string
	StartPage int
	Files     int
	Pages     int
}

// resolvedFile is a source file that has been turned into a ready PDF.
type resolvedFile struct {
	section string
	pdfPath string
	pages   int
}

func isMarkdownFile(path string) bool {
	return hasSuffixFold(path, ".md")
}

func isPDFFile(path string) bool {
	return hasSuffixFold(path, ".pdf")
}
