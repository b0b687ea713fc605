package models

import "time"

// Switch is a single output channel of a power distribution module
type Switch struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ModuleID      string  `json:"moduleId"`
	Channel       int     `json:"channel"`
	Active        bool    `json:"active"`
	Disabled      bool    `json:"disabled"`
	Current       float64 `json:"current"` // amps
	Fault         bool    `json:"fault"`
	EquipmentType string  `json:"equipmentType,omitempty"`
}

// Activatable reports whether an activation request could turn the switch on
func (s Switch) Activatable() bool {
	return !s.Active && !s.Disabled && !s.Fault
}

// Module is a controller or expansion board hosting switches
type Module struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"` // primary, expansion or led
	Connected   bool    `json:"connected"`
	Temperature float64 `json:"temperature"` // celsius
	Channels    int     `json:"channels"`
	Fault       bool    `json:"fault"`
}

// FaultType classifies a system fault
type FaultType string

const (
	FaultConnection  FaultType = "connection"
	FaultOverload    FaultType = "overload"
	FaultTemperature FaultType = "temperature"
	FaultWatchdog    FaultType = "watchdog"
	FaultOther       FaultType = "other"
)

// SystemFault is an entry in the fault list
type SystemFault struct {
	ID        string    `json:"id"`
	ModuleID  *string   `json:"moduleId"`
	Type      FaultType `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Resolved  bool      `json:"resolved"`
}

// SystemStatus summarises the connection and safety state of the controller
type SystemStatus struct {
	Connected      bool          `json:"connected"`
	ControlMode    string        `json:"controlMode"` // primary or monitor
	SafeState      bool          `json:"safeState"`
	WatchdogActive bool          `json:"watchdogActive"`
	Faults         []SystemFault `json:"faults"`
	Modules        []Module      `json:"modules"`
}

// DiagnosticsSample is one point of the power/temperature charts
type DiagnosticsSample struct {
	Timestamp      time.Time `json:"timestamp"`
	TotalCurrent   float64   `json:"totalCurrent"`
	ActiveSwitches int       `json:"activeSwitches"`
	Temperature    float64   `json:"temperature"`
}
