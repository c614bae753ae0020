package bookbinder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const cacheIndexName = "index.json"

type cacheEntry struct {
	PDFPath string `json:"pdfPath"`
	// ModTime is the source's modification time (unix nanoseconds) at the
	// last successful conversion. Freshness requires an exact match, so
	// any touch of the source forces reconversion.
	ModTime int64 `json:"modTime"`
}

// ConversionCache decides whether a markdown source needs reconversion. The
// index persists as JSON under the output directory so repeated builds skip
// unchanged files. Not safe for concurrent builds against the same output
// directory.
type ConversionCache struct {
	path    string
	entries map[string]cacheEntry
}

// OpenCache loads the cache index from outputDir. A missing, unreadable or
// corrupt index degrades to an empty cache, never an error.
func OpenCache(outputDir string) *ConversionCache {
	c := &ConversionCache{
		path:    filepath.Join(outputDir, cacheIndexName),
		entries: make(map[string]cacheEntry),
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return c
	}
	var entries map[string]cacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return c
	}
	if entries != nil {
		c.entries = entries
	}
	return c
}

// NeedsConvert reports whether src must be (re)converted. With force set it
// always returns true; the cache is bypassed for reads but still updated on
// success. Any inconsistency is a miss, never an error.
func (c *ConversionCache) NeedsConvert(src string, force bool) bool {
	if force {
		return true
	}
	entry, ok := c.entries[src]
	if !ok {
		return true
	}
	info, err := os.Stat(src)
	if err != nil {
		return true
	}
	if info.ModTime().UnixNano() != entry.ModTime {
		return true
	}
	return !fileExists(entry.PDFPath)
}

// Lookup returns the cached PDF path for src, if any.
func (c *ConversionCache) Lookup(src string) (string, bool) {
	entry, ok := c.entries[src]
	if !ok {
		return "", false
	}
	return entry.PDFPath, true
}

// RecordSuccess replaces the entry for src after a successful conversion.
func (c *ConversionCache) RecordSuccess(src, pdfPath string, modTime time.Time) {
	c.entries[src] = cacheEntry{PDFPath: pdfPath, ModTime: modTime.UnixNano()}
}

// Save writes the index atomically: into a temp file in the same directory,
// then renamed, so readers never observe a partial index.
func (c *ConversionCache) Save() error {
	if err := ensureDir(filepath.Dir(c.path)); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(c.path), ".tmp-"+cacheIndexName+"-")
	if err != nil {
		return err
	}
	tmp := f.Name()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.entries); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, c.path)
}
