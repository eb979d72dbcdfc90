// Package submitter implements the code submission flow of the panel.
//
// One attempt sends the code, turns the verdict into a state event and, for
// an accepted code, fires a detached disarm command whose result is only
// logged.
package submitter
