package panel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/security-panel/internal/domain/alarm"
	"github.com/oshokin/security-panel/internal/service/common"
)

// TestRenderer_Transitions drives a store and checks the printed lines.
func TestRenderer_Transitions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	store := common.NewStore()
	store.Subscribe(NewRenderer(&buf).Render)

	ctx := context.Background()

	// First poll: status line only.
	store.Dispatch(ctx, domain.PollEvent(true))
	// Same status again: nothing.
	store.Dispatch(ctx, domain.PollEvent(true))
	// Rejection keeps the status: feedback only, with the server timestamp.
	store.Dispatch(ctx, domain.EventFromVerdict(&domain.Verdict{
		Status:    domain.VerdictRejected,
		Timestamp: "2025-10-18T10:00:00",
		Active:    true,
	}))
	// Accepted: status change and feedback.
	store.Dispatch(ctx, domain.EventFromVerdict(&domain.Verdict{Status: domain.VerdictAccepted}))
	// Transport error: feedback without timestamp.
	store.Dispatch(ctx, domain.TransportErrorEvent(context.DeadlineExceeded))

	want := "" +
		"Alarm is ACTIVE\n" +
		"[2025-10-18T10:00:00] Invalid code. Try again.\n" +
		"Alarm is INACTIVE\n" +
		"Alarm disarmed successfully.\n" +
		"An error occurred. Please try again.\n"

	require.Equal(t, want, buf.String())
}

// TestRenderer_UnknownStatusIsNotShown mirrors the page hiding the status until it is known.
func TestRenderer_UnknownStatusIsNotShown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	r := NewRenderer(&buf)
	r.Render(domain.State{}, domain.Reduce(domain.State{}, domain.EventFromVerdict(&domain.Verdict{
		Status: domain.VerdictRejected,
	})), domain.EventFromVerdict(&domain.Verdict{Status: domain.VerdictRejected}))

	require.Equal(t, domain.MessageRejected+"\n", buf.String())

	buf.Reset()
	r.Banner()
	require.Contains(t, buf.String(), "Security Panel")
}
