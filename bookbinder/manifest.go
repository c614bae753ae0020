package bookbinder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrder parses and validates the order manifest at orderPath. All file
// references are resolved against rootDir before any conversion work
// happens, so every missing file is reported in one consolidated error.
// The returned Order is read-only for the rest of the build.
func LoadOrder(orderPath, rootDir string) (*Order, error) {
	data, err := os.ReadFile(orderPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifest, orderPath, err)
	}

	var order Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifest, orderPath, err)
	}

	if order.BookTitle == "" {
		return nil, fmt.Errorf("%w: %s: missing required key %q", ErrManifest, orderPath, "bookTitle")
	}
	if len(order.Chapters) == 0 {
		return nil, fmt.Errorf("%w: %s: %q must list at least one chapter", ErrManifest, orderPath, "chapters")
	}

	patterns := ignorePatterns(rootDir)
	var missing []string

	for i := range order.Chapters {
		ch := &order.Chapters[i]
		if len(ch.Files) == 0 && len(ch.Folders) == 0 {
			return nil, fmt.Errorf("%w: chapter %q has no files", ErrManifest, ch.Section)
		}

		for _, ref := range ch.Files {
			path, ok := resolveFileRef(ref, rootDir)
			if !ok {
				missing = append(missing, path)
				continue
			}
			ch.resolved = append(ch.resolved, path)
		}
		for _, folder := range ch.Folders {
			dir := strings.TrimSuffix(folder, "/")
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(rootDir, dir)
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				missing = append(missing, dir)
				continue
			}
			ch.resolved = append(ch.resolved, findBookFiles(dir, rootDir, patterns)...)
		}

		if len(ch.resolved) == 0 && len(missing) == 0 {
			return nil, fmt.Errorf("%w: chapter %q has no files", ErrManifest, ch.Section)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, strings.Join(missing, ", "))
	}
	return &order, nil
}

// SourceFiles returns the chapter's resolved absolute source paths in book
// order.
func (c *Chapter) SourceFiles() []string {
	return c.resolved
}
