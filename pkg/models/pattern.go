package models

// DefaultPatternColor is the header color used for banks saved without one
const DefaultPatternColor = "#3b82f6"

// PatternBank is a named group of switches that can be activated together
type PatternBank struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Switches []string `json:"switches"`
	Color    string   `json:"color,omitempty"`
}

// PatternBankPatch carries a partial update; nil fields are left unchanged
type PatternBankPatch struct {
	Name     *string  `json:"name,omitempty"`
	Switches []string `json:"switches,omitempty"`
	Color    *string  `json:"color,omitempty"`
}

// DisplayColor returns the bank color, falling back to the default
func (b PatternBank) DisplayColor() string {
	if b.Color == "" {
		return DefaultPatternColor
	}
	return b.Color
}

// Clone returns a copy that shares no slices with b
func (b PatternBank) Clone() PatternBank {
	b.Switches = append([]string(nil), b.Switches...)
	return b
}

// Contains reports whether the bank references the given switch
func (b PatternBank) Contains(switchID string) bool {
	for _, id := range b.Switches {
		if id == switchID {
			return true
		}
	}
	return false
}
