package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/security-panel/internal/domain/alarm"
	"github.com/oshokin/security-panel/internal/service/common"
)

const testInterval = 5 * time.Second

var errTestPoll = errors.New("connection reset by peer")

// reading is one canned poll answer.
type reading struct {
	// active is the returned flag.
	active bool
	// err fails the poll when set.
	err error
}

// fakeSource replays readings; the last one repeats forever.
type fakeSource struct {
	// readings are consumed in order.
	readings []reading
	// calls counts GetAlarmStatus invocations.
	calls int

	mu sync.Mutex
}

// GetAlarmStatus returns the next reading.
func (f *fakeSource) GetAlarmStatus(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	r := f.readings[0]
	if len(f.readings) > 1 {
		f.readings = f.readings[1:]
	}

	return r.active, r.err
}

// count returns the number of polls made so far.
func (f *fakeSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

// TestPoller_ImmediateThenEveryInterval checks the schedule: one poll on start, one per tick.
func TestPoller_ImmediateThenEveryInterval(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		src := &fakeSource{readings: []reading{{active: true}}}

		handle := New(src, common.NewStore(), WithInterval(testInterval)).Start(context.Background())
		synctest.Wait()
		require.Equal(t, 1, src.count())

		time.Sleep(testInterval - time.Millisecond)
		synctest.Wait()
		require.Equal(t, 1, src.count())

		time.Sleep(time.Millisecond)
		synctest.Wait()
		require.Equal(t, 2, src.count())

		time.Sleep(2 * testInterval)
		synctest.Wait()
		require.Equal(t, 4, src.count())

		handle.Cancel()
	})
}

// TestPoller_ScenarioE walks Active then Inactive without touching feedback.
func TestPoller_ScenarioE(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		store := common.NewStore()
		store.Dispatch(context.Background(), domain.EventFromVerdict(&domain.Verdict{Status: domain.VerdictRejected}))

		src := &fakeSource{readings: []reading{{active: true}, {active: false}}}

		handle := New(src, store, WithInterval(testInterval)).Start(context.Background())
		defer handle.Cancel()

		synctest.Wait()
		require.Equal(t, domain.StatusActive, store.Snapshot().Status)
		require.Equal(t, domain.MessageRejected, store.Snapshot().Feedback)

		time.Sleep(testInterval)
		synctest.Wait()
		require.Equal(t, domain.StatusInactive, store.Snapshot().Status)
		require.Equal(t, domain.MessageRejected, store.Snapshot().Feedback)
	})
}

// TestPoller_IdempotentReadings verifies unchanged readings leave the visible state unchanged.
func TestPoller_IdempotentReadings(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		store := common.NewStore()
		src := &fakeSource{readings: []reading{{active: false}}}

		handle := New(src, store, WithInterval(testInterval)).Start(context.Background())
		defer handle.Cancel()

		synctest.Wait()
		first := store.Snapshot()

		time.Sleep(testInterval)
		synctest.Wait()
		second := store.Snapshot()

		require.Equal(t, domain.StatusInactive, second.Status)
		require.Equal(t, first.Status, second.Status)
		require.Equal(t, first.Feedback, second.Feedback)
		require.Empty(t, second.Feedback)
	})
}

// TestPoller_FailuresAreIgnored keeps the state as is until the next good tick.
func TestPoller_FailuresAreIgnored(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		store := common.NewStore()
		src := &fakeSource{readings: []reading{{err: errTestPoll}, {err: errTestPoll}, {active: true}}}

		handle := New(src, store, WithInterval(testInterval)).Start(context.Background())
		defer handle.Cancel()

		synctest.Wait()
		require.Equal(t, domain.StatusUnknown, store.Snapshot().Status)
		require.Zero(t, store.Snapshot().Revision)

		time.Sleep(testInterval)
		synctest.Wait()
		require.Equal(t, domain.StatusUnknown, store.Snapshot().Status)
		require.Empty(t, store.Snapshot().Feedback)

		time.Sleep(testInterval)
		synctest.Wait()
		require.Equal(t, domain.StatusActive, store.Snapshot().Status)
		require.Empty(t, store.Snapshot().Feedback)
	})
}

// TestPoller_CancelStopsPolling verifies Cancel is final and idempotent.
func TestPoller_CancelStopsPolling(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		src := &fakeSource{readings: []reading{{active: true}}}

		handle := New(src, common.NewStore(), WithInterval(testInterval)).Start(context.Background())
		synctest.Wait()

		handle.Cancel()
		handle.Cancel()

		time.Sleep(10 * testInterval)
		synctest.Wait()
		require.Equal(t, 1, src.count())

		select {
		case <-handle.Done():
		default:
			t.Fatal("loop still running after Cancel")
		}
	})
}

// TestPoller_ParentContextStopsPolling checks that ending the parent context ends the loop.
func TestPoller_ParentContextStopsPolling(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		src := &fakeSource{readings: []reading{{active: false}}}

		handle := New(src, common.NewStore(), WithInterval(testInterval)).Start(ctx)
		synctest.Wait()

		cancel()
		<-handle.Done()

		// Cancel after the loop ended still returns.
		handle.Cancel()
	})
}

// TestNew_DefaultInterval keeps the 5 second default when no valid override is given.
func TestNew_DefaultInterval(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultPollInterval, New(nil, nil).interval)
	require.Equal(t, DefaultPollInterval, New(nil, nil, WithInterval(0)).interval)
	require.Equal(t, time.Second, New(nil, nil, WithInterval(time.Second)).interval)
}
