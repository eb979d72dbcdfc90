package alarm

// Status is the displayed arm state of the device.
type Status int

const (
	// StatusUnknown is the initial status before any status-bearing response.
	StatusUnknown Status = iota
	// StatusActive means the device reports the alarm as armed or sounding.
	StatusActive
	// StatusInactive means the device reports the alarm as disarmed.
	StatusInactive
)

// StatusFromActive maps the backend active flag to a Status.
func StatusFromActive(active bool) Status {
	if active {
		return StatusActive
	}

	return StatusInactive
}

// Known reports whether the status has been set from a backend response.
func (s Status) Known() bool {
	return s == StatusActive || s == StatusInactive
}

// String returns a lowercase label suitable for logs and metrics.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}
