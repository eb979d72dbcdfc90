package alarm

const (
	// MessageDisarmed is shown after an accepted code.
	MessageDisarmed = "Alarm disarmed successfully."
	// MessageRejected is shown after a rejected code.
	MessageRejected = "Invalid code. Try again."
	// MessageStillActive is shown when the alarm stays active after a submission.
	MessageStillActive = "Alarm is still active."
	// MessageFailure is shown when the code could not be verified.
	MessageFailure = "An error occurred. Please try again."
)

// State is everything the operator sees on the panel.
type State struct {
	// LastVerdict is the most recent verdict, nil before any or after a transport failure.
	LastVerdict *Verdict
	// Feedback describes the outcome of the most recent submission.
	Feedback string
	// Status is the displayed arm state.
	Status Status
	// Revision counts applied events.
	Revision uint64
}

// Clone returns a copy of the state to avoid leaking internal references.
func (s *State) Clone() *State {
	return &State{
		LastVerdict: s.LastVerdict.Clone(),
		Feedback:    s.Feedback,
		Status:      s.Status,
		Revision:    s.Revision,
	}
}
