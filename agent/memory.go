package agent

import (
	"github.com/BaSui01/macd/llm"
	"github.com/BaSui01/macd/types"
)

// Memory is the private deliberation history of one sub-agent. Each invoke
// stages the exchange (the invocation message and the agent's reply); only a
// commit moves the staged exchange into the durable history. Different
// sub-agents commit under different conditions, which is why staging and
// committing are separate steps.
//
// A Memory is owned by exactly one sub-agent and is never shared across
// roles.
type Memory struct {
	history []llm.Message
	staged  []llm.Message
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Stage records the most recent exchange, replacing any previously staged
// but uncommitted one.
func (m *Memory) Stage(input, response llm.Message) {
	m.staged = []llm.Message{input, response}
}

// Commit appends the staged exchange to the history and clears the staging
// area. Committing before any invoke is a precondition violation.
func (m *Memory) Commit() ([]llm.Message, error) {
	if m.staged == nil {
		return nil, types.NewError(types.ErrCommitBeforeInvoke, "no exchange staged: invoke before commit")
	}
	committed := m.staged
	m.history = append(m.history, committed...)
	m.staged = nil
	return committed, nil
}

// Messages returns the committed history in order.
func (m *Memory) Messages() []llm.Message {
	return m.history
}

// Len returns the number of committed messages.
func (m *Memory) Len() int {
	return len(m.history)
}
