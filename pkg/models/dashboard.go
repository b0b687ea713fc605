package models

// Layout is a read-only snapshot of everything the customizer persists
type Layout struct {
	Widgets  []Widget      `json:"widgets"`
	Theme    ThemeConfig   `json:"theme"`
	Patterns []PatternBank `json:"patterns"`
}

// EmptyLayout returns the layout of a fresh install
func EmptyLayout() Layout {
	return Layout{
		Widgets:  []Widget{},
		Theme:    DefaultTheme(),
		Patterns: []PatternBank{},
	}
}
