package bookbinder

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func statModTime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return info.ModTime()
}

func TestCacheMissOnColdStart(t *testing.T) {
	out := t.TempDir()
	c := OpenCache(out)
	if !c.NeedsConvert("/some/file.md", false) {
		t.Error("cold cache must report a miss")
	}
	if _, ok := c.Lookup("/some/file.md"); ok {
		t.Error("cold cache must have no entries")
	}
}

func TestCacheHitRequiresExactModTime(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	src := filepath.Join(root, "doc.md")
	pdf := filepath.Join(out, "doc.pdf")
	writeFile(t, src, "# Doc")
	writeFile(t, pdf, "%PDF-1.4")

	c := OpenCache(out)
	c.RecordSuccess(src, pdf, statModTime(t, src))

	if c.NeedsConvert(src, false) {
		t.Error("unchanged source must be a cache hit")
	}

	// A touch alone forces reconversion, even backwards in time: the
	// policy is exact equality, not newer-than.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(src, past, past); err != nil {
		t.Fatal(err)
	}
	if !c.NeedsConvert(src, false) {
		t.Error("touched source must be a cache miss")
	}
}

func TestCacheMissWhenOutputRemoved(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	src := filepath.Join(root, "doc.md")
	pdf := filepath.Join(out, "doc.pdf")
	writeFile(t, src, "# Doc")
	writeFile(t, pdf, "%PDF-1.4")

	c := OpenCache(out)
	c.RecordSuccess(src, pdf, statModTime(t, src))
	if err := os.Remove(pdf); err != nil {
		t.Fatal(err)
	}
	if !c.NeedsConvert(src, false) {
		t.Error("missing cached output must be a cache miss")
	}
}

func TestCacheForceBypassesReads(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	src := filepath.Join(root, "doc.md")
	pdf := filepath.Join(out, "doc.pdf")
	writeFile(t, src, "# Doc")
	writeFile(t, pdf, "%PDF-1.4")

	c := OpenCache(out)
	c.RecordSuccess(src, pdf, statModTime(t, src))
	if !c.NeedsConvert(src, true) {
		t.Error("force must always reconvert")
	}
}

func TestCachePersistsAcrossOpens(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	src := filepath.Join(root, "doc.md")
	pdf := filepath.Join(out, "doc.pdf")
	writeFile(t, src, "# Doc")
	writeFile(t, pdf, "%PDF-1.4")

	c := OpenCache(out)
	c.RecordSuccess(src, pdf, statModTime(t, src))
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	again := OpenCache(out)
	if again.NeedsConvert(src, false) {
		t.Error("persisted entry must survive reopen")
	}
	if got, ok := again.Lookup(src); !ok || got != pdf {
		t.Errorf("Lookup = %q, %v; want %q", got, ok, pdf)
	}
}

func TestCacheCorruptIndexDegradesToMiss(t *testing.T) {
	out := t.TempDir()
	writeFile(t, filepath.Join(out, cacheIndexName), "{corrupt")

	c := OpenCache(out)
	if !c.NeedsConvert("/any.md", false) {
		t.Error("corrupt index must behave as a cold cache")
	}
}
