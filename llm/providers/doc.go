// Package providers contains shared helpers for concrete LLM provider
// adapters: HTTP error mapping, model selection and the OpenAI-compatible
// wire types.
package providers
