// Package pipeline sequences one content pass: load the mandatory document
// with retries, validate advisorily, wait for template readiness, and render
// every composite into the page surface.
//
// A pass is atomic from the caller's point of view: it ends in ready or
// failed, never part-way. Retry replays the whole sequence from scratch with
// fresh fetches and a fresh surface; nothing is cached between passes.
package pipeline
