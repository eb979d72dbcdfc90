package panel

import (
	"fmt"
	"io"

	domain "github.com/oshokin/security-panel/internal/domain/alarm"
)

const (
	// bannerLine is printed once when the panel starts.
	bannerLine = "Security Panel: type a code and press Enter to disarm."
	// activeLine is printed when the alarm becomes active.
	activeLine = "Alarm is ACTIVE"
	// inactiveLine is printed when the alarm becomes inactive.
	inactiveLine = "Alarm is INACTIVE"
)

// Renderer prints state transitions as console lines.
type Renderer struct {
	// out receives the rendered lines.
	out io.Writer
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out: out,
	}
}

// Banner prints the panel title.
func (r *Renderer) Banner() {
	_, _ = fmt.Fprintln(r.out, bannerLine)
}

// Render is a store listener. It prints the status only when it changes to a
// known value, and the feedback after every submission event.
func (r *Renderer) Render(prev, next domain.State, event domain.Event) {
	if next.Status != prev.Status && next.Status.Known() {
		_, _ = fmt.Fprintln(r.out, statusLine(next.Status))
	}

	if event.Kind == domain.EventPollSucceeded || next.Feedback == "" {
		return
	}

	if next.LastVerdict != nil && next.LastVerdict.Timestamp != "" {
		_, _ = fmt.Fprintf(r.out, "[%s] %s\n", next.LastVerdict.Timestamp, next.Feedback)
		return
	}

	_, _ = fmt.Fprintln(r.out, next.Feedback)
}

// statusLine returns the display line for a known status.
func statusLine(status domain.Status) string {
	if status == domain.StatusActive {
		return activeLine
	}

	return inactiveLine
}
