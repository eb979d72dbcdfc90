// Package alarm contains core domain types for the security panel.
//
// It defines Status (the tri-state alarm reading), Verdict (the backend's
// answer to one submitted code), State (what the operator sees) and the pure
// Reduce function that applies an Event to a State.
package alarm
