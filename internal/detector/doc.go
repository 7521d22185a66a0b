// Package detector polls a repository for HEAD changes and hands each new
// commit to the review pipeline.
//
// One goroutine runs the poll loop: refresh remote tracking refs (failures
// are a warning, local-only detection continues), read HEAD, and compare it
// against the last seen hash. On a change the diff payload is extracted and
// enqueued fire-and-forget; the loop never waits for a review to finish, and
// the last seen hash advances at hand-off so a slow or failed review cannot
// re-trigger detection of the same commit.
//
// A fatal repository error (path removed, HEAD unreadable) is surfaced
// through the status callback and ends the loop. Stopping is cooperative:
// the stop signal is observed at the next tick boundary and in-flight
// dispatch is not cancelled.
package detector
