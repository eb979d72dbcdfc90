// Package poller keeps the displayed alarm status in line with the backend.
//
// It fetches the status once on start and then on every tick of a fixed
// interval, overwriting whatever status the submitter wrote last. Failed
// polls are ignored until the next tick.
package poller
