// Package llm defines the unified LLM provider contract used by the
// collaborator layer: chat requests/responses, the structured error type and
// the Provider interface. Concrete adapters live under llm/providers.
package llm
