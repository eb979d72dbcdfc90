package alarm

const (
	// VerdictAccepted is the exact status string the backend sends for a valid code.
	VerdictAccepted = "Code Accepted"
	// VerdictRejected is the exact status string the backend sends for an invalid code.
	VerdictRejected = "Code Rejected"
)

// Outcome classifies a verdict for the reducer and for logging.
type Outcome int

const (
	// OutcomeUnrecognized covers status strings that are neither accepted nor rejected.
	OutcomeUnrecognized Outcome = iota
	// OutcomeAccepted is an accepted code with the device reported inactive.
	OutcomeAccepted
	// OutcomeRejected is a rejected code regardless of the active flag.
	OutcomeRejected
	// OutcomeStillActive is an accepted code while the device still reports active.
	OutcomeStillActive
)

// String returns a lowercase label suitable for logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeStillActive:
		return "still_active"
	default:
		return "unrecognized"
	}
}

// Verdict is the backend's answer to one code submission.
type Verdict struct {
	// Status is the raw status string, compared by exact match.
	Status string `json:"status"`
	// Attempt echoes the submitted code.
	Attempt string `json:"attempt"`
	// Timestamp is the server time of the evaluation, kept verbatim.
	Timestamp string `json:"timestamp"`
	// Active is the device state after evaluating the code.
	Active bool `json:"active"`
}

// Outcome classifies the verdict.
func (v *Verdict) Outcome() Outcome {
	switch {
	case v.Status == VerdictAccepted && !v.Active:
		return OutcomeAccepted
	case v.Status == VerdictRejected:
		return OutcomeRejected
	case v.Status == VerdictAccepted:
		return OutcomeStillActive
	default:
		return OutcomeUnrecognized
	}
}

// Clone returns a copy of the verdict.
func (v *Verdict) Clone() *Verdict {
	if v == nil {
		return nil
	}

	cloned := *v

	return &cloned
}
