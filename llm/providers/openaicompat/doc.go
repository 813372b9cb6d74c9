// Package openaicompat implements llm.Provider against any endpoint that
// speaks the OpenAI chat completions protocol (OpenAI, DeepSeek, Qwen, GLM,
// local gateways). Configure a different BaseURL and model to target a
// different vendor; only headers and defaults differ between them.
package openaicompat
