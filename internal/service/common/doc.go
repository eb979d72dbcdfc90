// Package common holds helpers shared by the submitter, the poller and the panel.
//
// It provides a lightweight HTTP client for the alarm controller with
// timeouts and the Store that owns the operator-visible alarm.State.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
