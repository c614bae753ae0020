package bookbinder

import (
	"encoding/json"
	"fmt"
	"os"
)

// PageSettings controls the header and footer of rendered markdown pages.
// Template strings may contain {title}, {filename}, {date}, {bookTitle},
// {page} and {pages} placeholders.
type PageSettings struct {
	Header         string
	FooterLeft     string
	FooterCenter   string
	FooterRight    string
	HeaderFallback string
	DateFormat     string
}

// StyleSettings controls fonts and sizes of rendered markdown content.
type StyleSettings struct {
	HeadingFont string
	TextFont    string
	CodeFont    string
	TextSize    float64
	CodeSize    float64
}

// TOCSettings controls the generated table of contents page.
type TOCSettings struct {
	TitleFontSize    float64
	SubtitleFontSize float64
	SubtitleText     string
	EntryFontSize    float64
	FooterFontSize   float64
	LineColor        string
	EntryColor       string
	FooterColor      string
}

// Defaults supplies fallback values for fields the order manifest may omit.
type Defaults struct {
	BookTitle      string
	OutputFilename string
}

// Settings is the effective configuration of one build: built-in defaults
// layered with an optional config file and the manifest's own overrides.
// Immutable once resolved.
type Settings struct {
	Page     PageSettings
	Style    StyleSettings
	TOC      TOCSettings
	Defaults Defaults
}

// Patch types mirror the settings structs with pointer fields so that a
// layer can override individual keys while absent keys fall through.

type PagePatch struct {
	Header         *string `json:"header,omitempty"`
	FooterLeft     *string `json:"footerLeft,omitempty"`
	FooterCenter   *string `json:"footerCenter,omitempty"`
	FooterRight    *string `json:"footerRight,omitempty"`
	HeaderFallback *string `json:"headerFallback,omitempty"`
	DateFormat     *string `json:"dateFormat,omitempty"`
}

type StylePatch struct {
	HeadingFont *string  `json:"headingFont,omitempty"`
	TextFont    *string  `json:"textFont,omitempty"`
	CodeFont    *string  `json:"codeFont,omitempty"`
	TextSize    *float64 `json:"textSize,omitempty"`
	CodeSize    *float64 `json:"codeSize,omitempty"`
}

type TOCPatch struct {
	TitleFontSize    *float64 `json:"titleFontSize,omitempty"`
	SubtitleFontSize *float64 `json:"subtitleFontSize,omitempty"`
	SubtitleText     *string  `json:"subtitleText,omitempty"`
	EntryFontSize    *float64 `json:"entryFontSize,omitempty"`
	FooterFontSize   *float64 `json:"footerFontSize,omitempty"`
	LineColor        *string  `json:"lineColor,omitempty"`
	EntryColor       *string  `json:"entryColor,omitempty"`
	FooterColor      *string  `json:"footerColor,omitempty"`
}

type DefaultsPatch struct {
	BookTitle      *string `json:"bookTitle,omitempty"`
	OutputFilename *string `json:"outputFilename,omitempty"`
}

// ConfigFile is the on-disk config format: every section optional, every key
// optional.
type ConfigFile struct {
	PageSettings  *PagePatch     `json:"pageSettings,omitempty"`
	StyleSettings *StylePatch    `json:"styleSettings,omitempty"`
	TOCSettings   *TOCPatch      `json:"tocSettings,omitempty"`
	Defaults      *DefaultsPatch `json:"defaults,omitempty"`
}

// DefaultSettings returns the built-in base layer.
func DefaultSettings() Settings {
	return Settings{
		Page: PageSettings{
			Header:         "{title}",
			FooterLeft:     "{date}",
			FooterCenter:   "Page {page} of {pages}",
			FooterRight:    "{bookTitle}",
			HeaderFallback: "{bookTitle}",
			DateFormat:     "January 2, 2006",
		},
		Style: StyleSettings{
			HeadingFont: "Arial",
			TextFont:    "Times",
			CodeFont:    "Courier",
			TextSize:    12,
			CodeSize:    10,
		},
		TOC: TOCSettings{
			TitleFontSize:    24,
			SubtitleFontSize: 14,
			SubtitleText:     "Table of Contents",
			EntryFontSize:    11,
			FooterFontSize:   9,
			LineColor:        "#0066CC",
			EntryColor:       "#0066CC",
			FooterColor:      "#666666",
		},
		Defaults: Defaults{
			BookTitle:      "Untitled Book",
			OutputFilename: "book.pdf",
		},
	}
}

// ResolveSettings layers the built-in defaults, an optional config file and
// the manifest's pageSettings override into one effective settings value.
// A later layer wins per key; absent keys fall through. Pure apart from
// reading the config file.
func ResolveSettings(configPath string, manifestPage *PagePatch) (Settings, error) {
	s := DefaultSettings()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %v", ErrConfig, configPath, err)
		}
		var cf ConfigFile
		if err := json.Unmarshal(data, &cf); err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %v", ErrConfig, configPath, err)
		}
		s.apply(&cf)
	}

	s.Page.apply(manifestPage)
	return s, nil
}

func (s *Settings) apply(cf *ConfigFile) {
	if cf == nil {
		return
	}
	s.Page.apply(cf.PageSettings)
	s.Style.apply(cf.StyleSettings)
	s.TOC.apply(cf.TOCSettings)
	s.Defaults.apply(cf.Defaults)
}

func (p *PageSettings) apply(patch *PagePatch) {
	if patch == nil {
		return
	}
	setStr(&p.Header, patch.Header)
	setStr(&p.FooterLeft, patch.FooterLeft)
	setStr(&p.FooterCenter, patch.FooterCenter)
	setStr(&p.FooterRight, patch.FooterRight)
	setStr(&p.HeaderFallback, patch.HeaderFallback)
	setStr(&p.DateFormat, patch.DateFormat)
}

func (s *StyleSettings) apply(patch *StylePatch) {
	if patch == nil {
		return
	}
	setStr(&s.HeadingFont, patch.HeadingFont)
	setStr(&s.TextFont, patch.TextFont)
	setStr(&s.CodeFont, patch.CodeFont)
	setFloat(&s.TextSize, patch.TextSize)
	setFloat(&s.CodeSize, patch.CodeSize)
}

func (t *TOCSettings) apply(patch *TOCPatch) {
	if patch == nil {
		return
	}
	setFloat(&t.TitleFontSize, patch.TitleFontSize)
	setFloat(&t.SubtitleFontSize, patch.SubtitleFontSize)
	setStr(&t.SubtitleText, patch.SubtitleText)
	setFloat(&t.EntryFontSize, patch.EntryFontSize)
	setFloat(&t.FooterFontSize, patch.FooterFontSize)
	setStr(&t.LineColor, patch.LineColor)
	setStr(&t.EntryColor, patch.EntryColor)
	setStr(&t.FooterColor, patch.FooterColor)
}

func (d *Defaults) apply(patch *DefaultsPatch) {
	if patch == nil {
		return
	}
	setStr(&d.BookTitle, patch.BookTitle)
	setStr(&d.OutputFilename, patch.OutputFilename)
}

func setStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
