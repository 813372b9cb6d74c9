// Package persistence provides durable storage for per-role deliberation
// transcripts. The negotiation core itself keeps each role's memory
// in-process; a TranscriptStore additionally records every committed
// exchange so a negotiation can be audited after the fact.
//
// Two implementations are provided: an in-memory store for tests and
// single-process runs, and a Redis-backed store for deployments that need
// transcripts to survive the process.
package persistence
