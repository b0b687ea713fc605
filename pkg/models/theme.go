package models

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// SwitchStyle selects the skin used to draw switch widgets
type SwitchStyle string

const (
	SwitchStyleModern     SwitchStyle = "modern"
	SwitchStyleClassic    SwitchStyle = "classic"
	SwitchStyleIndustrial SwitchStyle = "industrial"
	SwitchStyleMinimal    SwitchStyle = "minimal"
)

// Valid reports whether s is a known switch style
func (s SwitchStyle) Valid() bool {
	switch s {
	case SwitchStyleModern, SwitchStyleClassic, SwitchStyleIndustrial, SwitchStyleMinimal:
		return true
	}
	return false
}

// ColorScheme selects one of the built-in palettes or the custom triple
type ColorScheme string

const (
	ColorSchemeBlue   ColorScheme = "blue"
	ColorSchemeGreen  ColorScheme = "green"
	ColorSchemePurple ColorScheme = "purple"
	ColorSchemeRed    ColorScheme = "red"
	ColorSchemeCustom ColorScheme = "custom"
)

// Valid reports whether c is a known color scheme
func (c ColorScheme) Valid() bool {
	switch c {
	case ColorSchemeBlue, ColorSchemeGreen, ColorSchemePurple, ColorSchemeRed, ColorSchemeCustom:
		return true
	}
	return false
}

// DefaultBackgroundColor is the dashboard background of a fresh install
const DefaultBackgroundColor = "#111827"

// CustomColors is the user-picked palette, used only with ColorSchemeCustom
type CustomColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// ThemeConfig is the single process-wide visual configuration
type ThemeConfig struct {
	SwitchStyle     SwitchStyle   `json:"switchStyle"`
	ColorScheme     ColorScheme   `json:"colorScheme"`
	BackgroundColor string        `json:"backgroundColor"`
	CustomColors    *CustomColors `json:"customColors,omitempty"`
}

// ThemePatch carries a partial theme update; nil fields are left unchanged
type ThemePatch struct {
	SwitchStyle     *SwitchStyle  `json:"switchStyle,omitempty"`
	ColorScheme     *ColorScheme  `json:"colorScheme,omitempty"`
	BackgroundColor *string       `json:"backgroundColor,omitempty"`
	CustomColors    *CustomColors `json:"customColors,omitempty"`
}

// Palette is the resolved set of colors a renderer should draw with
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
}

var schemePalettes = map[ColorScheme]Palette{
	ColorSchemeBlue:   {Primary: "#3b82f6", Secondary: "#1d4ed8", Accent: "#60a5fa"},
	ColorSchemeGreen:  {Primary: "#22c55e", Secondary: "#15803d", Accent: "#4ade80"},
	ColorSchemePurple: {Primary: "#a855f7", Secondary: "#7e22ce", Accent: "#c084fc"},
	ColorSchemeRed:    {Primary: "#ef4444", Secondary: "#b91c1c", Accent: "#f87171"},
}

// DefaultTheme returns the theme of a fresh install
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		SwitchStyle:     SwitchStyleModern,
		ColorScheme:     ColorSchemeBlue,
		BackgroundColor: DefaultBackgroundColor,
	}
}

// Clone returns a copy that shares no pointers with t
func (t ThemeConfig) Clone() ThemeConfig {
	if t.CustomColors != nil {
		cc := *t.CustomColors
		t.CustomColors = &cc
	}
	return t
}

// Merge applies the non-nil fields of patch over t and returns the result
func (t ThemeConfig) Merge(patch ThemePatch) ThemeConfig {
	out := t.Clone()
	if patch.SwitchStyle != nil {
		out.SwitchStyle = *patch.SwitchStyle
	}
	if patch.ColorScheme != nil {
		out.ColorScheme = *patch.ColorScheme
	}
	if patch.BackgroundColor != nil {
		out.BackgroundColor = *patch.BackgroundColor
	}
	if patch.CustomColors != nil {
		cc := *patch.CustomColors
		out.CustomColors = &cc
	}
	return out
}

// Palette resolves the effective colors for the theme. Custom colors that do
// not parse as hex fall back to the blue scheme, and so does an unknown scheme.
func (t ThemeConfig) Palette() Palette {
	base := schemePalettes[ColorSchemeBlue]
	p, ok := schemePalettes[t.ColorScheme]
	if !ok {
		p = base
	}

	if t.ColorScheme == ColorSchemeCustom && t.CustomColors != nil {
		p = Palette{
			Primary:   normalizeHex(t.CustomColors.Primary, base.Primary),
			Secondary: normalizeHex(t.CustomColors.Secondary, base.Secondary),
			Accent:    normalizeHex(t.CustomColors.Accent, base.Accent),
		}
	}

	p.Background = normalizeHex(t.BackgroundColor, DefaultBackgroundColor)
	return p
}

// IsDarkBackground reports whether light text should be drawn on the background
func (t ThemeConfig) IsDarkBackground() bool {
	c, err := colorful.Hex(t.Palette().Background)
	if err != nil {
		return true
	}
	l, _, _ := c.Lab()
	return l < 0.5
}

func normalizeHex(value, fallback string) string {
	c, err := colorful.Hex(value)
	if err != nil || !c.IsValid() {
		return fallback
	}
	return c.Hex()
}
