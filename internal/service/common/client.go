//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/oshokin/security-panel/internal/config"
	domain "github.com/oshokin/security-panel/internal/domain/alarm"
	"github.com/oshokin/security-panel/internal/logger"
	"github.com/oshokin/security-panel/internal/metrics"
)

const (
	// PathCode verifies a code.
	PathCode = "/code"
	// PathDisarm silences the device.
	PathDisarm = "/disarm"
	// PathAlarmStatus returns the live device state.
	PathAlarmStatus = "/alarm-status"

	// jsonContentType forces JSON decoding whatever the backend claims, so a
	// malformed body surfaces as an error instead of a zero value.
	jsonContentType = "application/json"
)

// Client wraps a resty client bound to the alarm controller.
type Client struct {
	// http is the underlying resty client with the base URL set.
	http *resty.Client

	// callTimeout is the default timeout for individual requests.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for backend calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

var (
	// ErrTransport wraps every failure to obtain a usable backend response.
	ErrTransport = errors.New("backend transport failure")
	// ErrUnexpectedStatus marks a non-2xx backend response.
	ErrUnexpectedStatus = errors.New("unexpected backend status")

	// errBaseURLRequired is returned when the backend URL is missing.
	errBaseURLRequired = errors.New("backend URL must be provided")
)

// codeRequest is the body of POST /code.
type codeRequest struct {
	Code string `json:"code"`
}

// statusResponse is the body of GET /alarm-status.
type statusResponse struct {
	Active bool `json:"active"`
}

// NewClient prepares a client for the controller at baseURL.
// No authentication, retry or idempotency headers are sent.
func NewClient(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	r := resty.New()
	r.SetBaseURL(baseURL)
	r.SetHeader("Content-Type", jsonContentType)
	r.SetHeader("Accept", jsonContentType)
	r.SetLogger(logger.FromContext(ctx))

	client := &Client{
		http:        r,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// VerifyCode submits a code and returns the backend verdict.
func (c *Client) VerifyCode(ctx context.Context, code string) (*domain.Verdict, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	var (
		verdict domain.Verdict
		started = time.Now()
	)

	resp, err := c.http.R().
		SetContext(callCtx).
		SetBody(codeRequest{Code: code}).
		SetResult(&verdict).
		ForceContentType(jsonContentType).
		Post(PathCode)

	err = checkResponse(resp, err)
	metrics.ObserveBackend(metrics.EndpointCode, metrics.Result(err), time.Since(started))

	if err != nil {
		return nil, fmt.Errorf("verify code: %w", err)
	}

	return &verdict, nil
}

// Disarm sends the physical silence command and returns the raw response body.
func (c *Client) Disarm(ctx context.Context) (string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	started := time.Now()

	resp, err := c.http.R().
		SetContext(callCtx).
		Post(PathDisarm)

	err = checkResponse(resp, err)
	metrics.ObserveBackend(metrics.EndpointDisarm, metrics.Result(err), time.Since(started))

	if err != nil {
		return "", fmt.Errorf("disarm: %w", err)
	}

	return resp.String(), nil
}

// GetAlarmStatus returns the authoritative device active flag.
func (c *Client) GetAlarmStatus(ctx context.Context) (bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	var (
		status  statusResponse
		started = time.Now()
	)

	resp, err := c.http.R().
		SetContext(callCtx).
		SetResult(&status).
		ForceContentType(jsonContentType).
		Get(PathAlarmStatus)

	err = checkResponse(resp, err)
	metrics.ObserveBackend(metrics.EndpointAlarmStatus, metrics.Result(err), time.Since(started))

	if err != nil {
		return false, fmt.Errorf("get alarm status: %w", err)
	}

	return status.Active, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// checkResponse folds request errors and non-2xx statuses into ErrTransport.
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("%w: %w: %s", ErrTransport, ErrUnexpectedStatus, resp.Status())
	}

	return nil
}
