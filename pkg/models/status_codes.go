package models

// StatusCode is the single-glyph marker shown next to per-item results.
type StatusCode string

const (
	StatusSucceeded StatusCode = "✅"
	StatusFailed    StatusCode = "❌"
	StatusRunning   StatusCode = "🕕"
	StatusUnknown   StatusCode = "❓"
)

// Power states as reported in the display status of a VM instance view.
const (
	PowerStateRunning      = "VM running"
	PowerStateStarting     = "VM starting"
	PowerStateStopping     = "VM stopping"
	PowerStateStopped      = "VM stopped"
	PowerStateDeallocating = "VM deallocating"
	PowerStateDeallocated  = "VM deallocated"
	PowerStateUnknown      = "Unknown"
)
