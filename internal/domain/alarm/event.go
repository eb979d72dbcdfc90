package alarm

// EventKind tags an Event.
type EventKind int

const (
	// EventSubmissionAccepted follows an accepted code with the device inactive.
	EventSubmissionAccepted EventKind = iota + 1
	// EventSubmissionRejected follows a rejected code.
	EventSubmissionRejected
	// EventSubmissionAmbiguous follows any other verdict, including a still active device.
	EventSubmissionAmbiguous
	// EventTransportError follows a failed code verification request.
	EventTransportError
	// EventPollSucceeded follows a successful status poll.
	EventPollSucceeded
)

// String returns a lowercase label suitable for logs.
func (k EventKind) String() string {
	switch k {
	case EventSubmissionAccepted:
		return "submission_accepted"
	case EventSubmissionRejected:
		return "submission_rejected"
	case EventSubmissionAmbiguous:
		return "submission_ambiguous"
	case EventTransportError:
		return "transport_error"
	case EventPollSucceeded:
		return "poll_succeeded"
	default:
		return "unknown"
	}
}

// Event is one input to Reduce.
type Event struct {
	// Kind selects the transition.
	Kind EventKind
	// Verdict is set for the three submission events.
	Verdict *Verdict
	// Active is the polled flag for EventPollSucceeded.
	Active bool
	// Err is the cause of EventTransportError.
	Err error
}

// EventFromVerdict builds the submission event matching the verdict.
func EventFromVerdict(v *Verdict) Event {
	kind := EventSubmissionAmbiguous

	switch v.Outcome() {
	case OutcomeAccepted:
		kind = EventSubmissionAccepted
	case OutcomeRejected:
		kind = EventSubmissionRejected
	case OutcomeStillActive, OutcomeUnrecognized:
	}

	return Event{
		Kind:    kind,
		Verdict: v.Clone(),
	}
}

// TransportErrorEvent builds an EventTransportError.
func TransportErrorEvent(err error) Event {
	return Event{
		Kind: EventTransportError,
		Err:  err,
	}
}

// PollEvent builds an EventPollSucceeded.
func PollEvent(active bool) Event {
	return Event{
		Kind:   EventPollSucceeded,
		Active: active,
	}
}
