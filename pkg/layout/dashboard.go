package layout

import "github.com/sguter90/switchmaestro/pkg/models"

// Dashboard wires the customization stores together. It is built once at
// start-up and handed to whatever needs it.
type Dashboard struct {
	Widgets   *WidgetStore
	Customize *CustomizeStore
	Resize    *ResizeEngine
	Pointer   *PointerBus
	Switches  SwitchRegistry
}

// NewDashboard creates empty stores bound to the given switch registry
func NewDashboard(switches SwitchRegistry, opts ...WidgetStoreOption) *Dashboard {
	widgets := NewWidgetStore(opts...)
	pointer := NewPointerBus()
	return &Dashboard{
		Widgets:   widgets,
		Customize: NewCustomizeStore(),
		Resize:    NewResizeEngine(widgets, pointer),
		Pointer:   pointer,
		Switches:  switches,
	}
}

// DropWidget moves a dragged widget to the cell under the pointer
func (d *Dashboard) DropWidget(id string, p Point, container Rect) (Cell, bool) {
	cell := ResolveCell(p, container)
	return cell, d.Widgets.MoveWidget(id, cell.X, cell.Y)
}

// AddWidgetAt adds a widget whose origin is the cell under the pointer
func (d *Dashboard) AddWidgetAt(spec models.WidgetSpec, p Point, container Rect) (string, Cell) {
	cell := ResolveCell(p, container)
	spec.X = cell.X
	spec.Y = cell.Y
	return d.Widgets.AddWidget(spec), cell
}

// ActivatePattern activates a stored bank by id
func (d *Dashboard) ActivatePattern(id string) (ActivationResult, bool) {
	bank, ok := d.Customize.PatternBank(id)
	if !ok {
		return ActivationResult{}, false
	}
	return ActivatePattern(bank, d.Switches), true
}

// Snapshot returns a copy of the full customizable state
func (d *Dashboard) Snapshot() models.Layout {
	return models.Layout{
		Widgets:  d.Widgets.ListWidgets(),
		Theme:    d.Customize.Theme(),
		Patterns: d.Customize.PatternBanks(),
	}
}

// Restore replaces the full customizable state
func (d *Dashboard) Restore(l models.Layout) {
	d.Widgets.Replace(l.Widgets)
	d.Customize.ReplaceTheme(l.Theme)
	d.Customize.ReplacePatternBanks(l.Patterns)
}
