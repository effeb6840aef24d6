// Package memory implements session-scoped conversation memory: an ordered,
// append-only log of completed turns per session, surfaced to the reasoning
// loop as context for follow-up queries.
package memory
