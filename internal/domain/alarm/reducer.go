package alarm

// Reduce applies one event to the state and returns the next state.
// It never modifies its input. Unknown event kinds leave the state as is.
//
// Rejections and transport errors keep the status; only verdicts that carry
// a trusted device flag and polls overwrite it. Polls never touch Feedback.
func Reduce(state State, event Event) State {
	next := *state.Clone()

	switch event.Kind {
	case EventSubmissionAccepted:
		next.Feedback = MessageDisarmed
		next.Status = StatusInactive
		next.LastVerdict = event.Verdict.Clone()
	case EventSubmissionRejected:
		next.Feedback = MessageRejected
		next.LastVerdict = event.Verdict.Clone()
	case EventSubmissionAmbiguous:
		next.Feedback = MessageStillActive
		next.LastVerdict = event.Verdict.Clone()

		if event.Verdict != nil {
			next.Status = StatusFromActive(event.Verdict.Active)
		}
	case EventTransportError:
		next.Feedback = MessageFailure
		next.LastVerdict = nil
	case EventPollSucceeded:
		next.Status = StatusFromActive(event.Active)
	default:
		return next
	}

	next.Revision++

	return next
}
