package bookbinder

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultOutputDir returns the output directory used when none is given:
// <root>/bookbinder-output. It holds converted PDFs, the cache index and
// the finished book.
func DefaultOutputDir(rootDir string) string {
	return filepath.Join(rootDir, "bookbinder-output")
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func hasSuffixFold(s, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(s), suffix)
}

// ignorePatterns loads gitignore-style patterns from <root>/.gitignore.
// A missing file yields no patterns.
func ignorePatterns(rootDir string) []string {
	f, err := os.Open(filepath.Join(rootDir, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns
}

// isIgnored reports whether a root-relative path matches any of the
// patterns. Directory patterns (trailing slash) match the directory and
// everything under it.
func isIgnored(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if dir, ok := strings.CutSuffix(pattern, "/"); ok {
			// A directory pattern matches that directory at any depth.
			if rel == dir || strings.Contains("/"+rel+"/", "/"+dir+"/") {
				return true
			}
			continue
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		// A bare pattern matches any path segment, so "build" also
		// ignores build/x.md like gitignore does.
		for _, seg := range strings.Split(rel, "/") {
			if ok, _ := filepath.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}

// resolveFileRef turns a manifest file reference into an absolute path.
// Relative references resolve against the root directory; references
// without an extension try .md first, then .pdf. The second result reports
// whether the resolved file exists.
func resolveFileRef(ref, rootDir string) (string, bool) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, ref)
	}
	if fileExists(path) {
		return path, true
	}

	if !isMarkdownFile(ref) && !isPDFFile(ref) {
		if md := path + ".md"; fileExists(md) {
			return md, true
		}
		if pdf := path + ".pdf"; fileExists(pdf) {
			return pdf, true
		}
	}
	return path, false
}

// findBookFiles returns every non-ignored markdown and PDF file under dir,
// sorted for deterministic chapter order.
func findBookFiles(dir, rootDir string, patterns []string) []string {
	var files []string
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr == nil && isIgnored(rel, patterns) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && (isMarkdownFile(path) || isPDFFile(path)) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// outputPDFPath maps a markdown source to its converted PDF location under
// the output directory, preserving the source's structure below the root.
func outputPDFPath(mdPath, rootDir, outputDir string) string {
	rel, err := filepath.Rel(rootDir, mdPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(mdPath)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".pdf"
	return filepath.Join(outputDir, rel)
}
