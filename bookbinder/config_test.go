package bookbinder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func strPtr(s string) *string { return &s }

func TestResolveSettingsDefaultsOnly(t *testing.T) {
	s, err := ResolveSettings("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Page.Header != "{title}" {
		t.Errorf("default header = %q, want {title}", s.Page.Header)
	}
	if s.TOC.SubtitleText != "Table of Contents" {
		t.Errorf("default subtitle = %q", s.TOC.SubtitleText)
	}
	if s.Defaults.OutputFilename != "book.pdf" {
		t.Errorf("default output = %q", s.Defaults.OutputFilename)
	}
}

func TestResolveSettingsLayering(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.json")
	writeFile(t, config, `{
		"pageSettings": {"header": "from-config", "footerRight": "Acme"},
		"tocSettings": {"subtitleText": "Contents", "entryFontSize": 13}
	}`)

	patch := &PagePatch{Header: strPtr("from-manifest")}
	s, err := ResolveSettings(config, patch)
	if err != nil {
		t.Fatal(err)
	}

	// Rightmost layer wins per key.
	if s.Page.Header != "from-manifest" {
		t.Errorf("header = %q, want from-manifest", s.Page.Header)
	}
	// Config file beats defaults where the manifest is silent.
	if s.Page.FooterRight != "Acme" {
		t.Errorf("footerRight = %q, want Acme", s.Page.FooterRight)
	}
	if s.TOC.SubtitleText != "Contents" || s.TOC.EntryFontSize != 13 {
		t.Errorf("toc settings not applied: %+v", s.TOC)
	}
	// Absent keys fall through to defaults.
	if s.Page.FooterLeft != "{date}" {
		t.Errorf("footerLeft = %q, want default", s.Page.FooterLeft)
	}
	if s.TOC.TitleFontSize != 24 {
		t.Errorf("titleFontSize = %v, want default 24", s.TOC.TitleFontSize)
	}
}

func TestResolveSettingsBadConfig(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.json")
	writeFile(t, config, `{not json`)

	if _, err := ResolveSettings(config, nil); !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
	if _, err := ResolveSettings(filepath.Join(dir, "missing.json"), nil); !errors.Is(err, ErrConfig) {
		t.Fatalf("missing config err = %v, want ErrConfig", err)
	}
}
