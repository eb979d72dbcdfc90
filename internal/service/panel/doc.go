// Package panel wires the security panel together: configuration, backend
// client, state store, submitter, poller, console renderer and the optional
// metrics endpoint.
package panel
