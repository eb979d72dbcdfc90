package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	domain "github.com/oshokin/security-panel/internal/domain/alarm"
)

// secretCode is the code the fake controller accepts.
const secretCode = "1738"

// fakeController mimics the alarm controller: a single active flag, a secret
// code, and counters for the calls it has served.
type fakeController struct {
	// active is the device flag.
	active bool
	// verdictStatus, when set, replaces the computed verdict status.
	verdictStatus string
	// failCode makes POST /code answer 503.
	failCode bool
	// disarmCalls counts POST /disarm.
	disarmCalls int
	// statusCalls counts GET /alarm-status.
	statusCalls int

	mu sync.Mutex
}

// newFakeController serves the controller on an httptest server and returns its URL.
func newFakeController(t *testing.T, active bool) (*fakeController, string) {
	t.Helper()

	fc := &fakeController{active: active}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /code", fc.handleCode)
	mux.HandleFunc("POST /disarm", fc.handleDisarm)
	mux.HandleFunc("GET /alarm-status", fc.handleStatus)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return fc, srv.URL
}

// handleCode evaluates a code like the real controller does.
func (fc *fakeController) handleCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusUnprocessableEntity)
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.failCode {
		http.Error(w, "controller busy", http.StatusServiceUnavailable)
		return
	}

	status := domain.VerdictRejected
	if strings.TrimSpace(req.Code) == secretCode {
		fc.active = false
		status = domain.VerdictAccepted
	}

	if fc.verdictStatus != "" {
		status = fc.verdictStatus
	}

	writeJSON(w, map[string]any{
		"status":    status,
		"attempt":   req.Code,
		"timestamp": time.Now().Format("2006-01-02T15:04:05"),
		"active":    fc.active,
	})
}

// handleDisarm silences the device.
func (fc *fakeController) handleDisarm(w http.ResponseWriter, _ *http.Request) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.disarmCalls++
	fc.active = false

	writeJSON(w, map[string]any{"status": "Alarm disarmed"})
}

// handleStatus reports the device flag.
func (fc *fakeController) handleStatus(w http.ResponseWriter, _ *http.Request) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.statusCalls++

	writeJSON(w, map[string]any{"active": fc.active})
}

// arm sets the device flag, as a motion sensor would.
func (fc *fakeController) arm() {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.active = true
}

// set changes controller behaviour under the lock.
func (fc *fakeController) set(fn func(fc *fakeController)) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fn(fc)
}

// disarms returns the number of disarm commands served.
func (fc *fakeController) disarms() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	return fc.disarmCalls
}

// polls returns the number of status requests served.
func (fc *fakeController) polls() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	return fc.statusCalls
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// syncBuffer is a bytes.Buffer safe for one writer and concurrent readers.
type syncBuffer struct {
	// buf holds the written bytes.
	buf bytes.Buffer

	mu sync.Mutex
}

// Write appends p.
func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

// String returns the contents so far.
func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
