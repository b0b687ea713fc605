package layout

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sguter90/switchmaestro/pkg/models"
)

// SwitchRegistry is the externally owned source of truth for switch state
type SwitchRegistry interface {
	ListSwitches() []models.Switch
	ActivateSwitch(id string) error
}

// ActivationResult reports what a pattern activation asked the registry to do
type ActivationResult struct {
	Requested []string          `json:"requested"`
	Skipped   []string          `json:"skipped"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// CustomizeStore holds the single theme and the ordered pattern banks
type CustomizeStore struct {
	mu       sync.RWMutex
	theme    models.ThemeConfig
	patterns []models.PatternBank
	newID    func() string
}

// NewCustomizeStore creates a store with the default theme and no patterns
func NewCustomizeStore() *CustomizeStore {
	return &CustomizeStore{
		theme:    models.DefaultTheme(),
		patterns: []models.PatternBank{},
		newID:    uuid.NewString,
	}
}

// Theme returns a copy of the current theme
func (s *CustomizeStore) Theme() models.ThemeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme.Clone()
}

// UpdateTheme merges patch over the current theme and returns the result
func (s *CustomizeStore) UpdateTheme(patch models.ThemePatch) models.ThemeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = s.theme.Merge(patch)
	return s.theme.Clone()
}

// ReplaceTheme overwrites the theme wholesale
func (s *CustomizeStore) ReplaceTheme(theme models.ThemeConfig) {
	s.mu.Lock()
	s.theme = theme.Clone()
	s.mu.Unlock()
}

// AddPatternBank validates and appends a new bank. A rejected bank leaves
// the collection untouched.
func (s *CustomizeStore) AddPatternBank(name string, switches []string, color string) (models.PatternBank, error) {
	if err := validatePatternName(name); err != nil {
		return models.PatternBank{}, err
	}
	if err := validatePatternSwitches(switches); err != nil {
		return models.PatternBank{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bank := models.PatternBank{
		ID:       s.newID(),
		Name:     name,
		Switches: append([]string(nil), switches...),
		Color:    color,
	}
	s.patterns = append(s.patterns, bank)
	return bank.Clone(), nil
}

// UpdatePatternBank applies patch to the bank with the given id. Unknown ids
// are ignored; a patch that would blank the name or empty the switch list is
// rejected without changes.
func (s *CustomizeStore) UpdatePatternBank(id string, patch models.PatternBankPatch) (bool, error) {
	if patch.Name != nil {
		if err := validatePatternName(*patch.Name); err != nil {
			return false, err
		}
	}
	if patch.Switches != nil {
		if err := validatePatternSwitches(patch.Switches); err != nil {
			return false, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	bank := &s.patterns[idx]
	if patch.Name != nil {
		bank.Name = *patch.Name
	}
	if patch.Switches != nil {
		bank.Switches = append([]string(nil), patch.Switches...)
	}
	if patch.Color != nil {
		bank.Color = *patch.Color
	}
	return true, nil
}

// RemovePatternBank deletes a bank. Unknown ids are ignored.
func (s *CustomizeStore) RemovePatternBank(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.patterns = append(s.patterns[:idx], s.patterns[idx+1:]...)
	return true
}

// PatternBanks returns a copy of the banks in creation order
func (s *CustomizeStore) PatternBanks() []models.PatternBank {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PatternBank, len(s.patterns))
	for i, b := range s.patterns {
		out[i] = b.Clone()
	}
	return out
}

// PatternBank returns a copy of a single bank
func (s *CustomizeStore) PatternBank(id string) (models.PatternBank, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.PatternBank{}, false
	}
	return s.patterns[idx].Clone(), true
}

// ReplacePatternBanks swaps the whole collection, keeping ids as given
func (s *CustomizeStore) ReplacePatternBanks(banks []models.PatternBank) {
	next := make([]models.PatternBank, len(banks))
	for i, b := range banks {
		next[i] = b.Clone()
	}

	s.mu.Lock()
	s.patterns = next
	s.mu.Unlock()
}

func (s *CustomizeStore) indexOf(id string) int {
	for i := range s.patterns {
		if s.patterns[i].ID == id {
			return i
		}
	}
	return -1
}

// ActivatePattern asks the registry to turn on every switch of the bank that
// is currently off, enabled and fault free. Each request stands alone: a
// refusal is recorded and the remaining switches are still attempted.
func ActivatePattern(bank models.PatternBank, registry SwitchRegistry) ActivationResult {
	result := ActivationResult{
		Requested: []string{},
		Skipped:   []string{},
	}

	known := make(map[string]models.Switch)
	for _, sw := range registry.ListSwitches() {
		known[sw.ID] = sw
	}

	for _, id := range bank.Switches {
		sw, ok := known[id]
		if !ok || !sw.Activatable() {
			result.Skipped = append(result.Skipped, id)
			continue
		}

		result.Requested = append(result.Requested, id)
		if err := registry.ActivateSwitch(id); err != nil {
			if result.Failed == nil {
				result.Failed = make(map[string]string)
			}
			result.Failed[id] = err.Error()
		}
	}

	return result
}

func validatePatternName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "pattern bank name is required"}
	}
	return nil
}

func validatePatternSwitches(switches []string) error {
	if len(switches) == 0 {
		return &ValidationError{Field: "switches", Message: "select at least one switch"}
	}
	return nil
}
