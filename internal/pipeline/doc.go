// Package pipeline runs queued review work without blocking the detector.
//
// Submitted payloads flow through a buffered channel to one or more worker
// goroutines. Each worker builds the prompt, calls the review service under a
// per-call timeout, and delivers a [Result] to the submission's callback
// exactly once — service failures become failed results, never worker
// crashes. With a single worker (the default) results are delivered in
// submission order.
//
// [Pipeline.Close] stops accepting submissions, lets in-flight calls finish,
// and reports anything still queued as a shutdown failure; nothing is
// silently dropped.
package pipeline
