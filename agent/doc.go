// Package agent implements the collaborator boundary of the negotiation
// protocol: per-role agent groups that can propose improved proposals and
// declare a stance on someone else's proposal, each with a private,
// independently-owned deliberation memory.
//
// The negotiation core only depends on the Collaborator interface; the
// LLM-backed implementation in this package is one provider of it.
package agent
