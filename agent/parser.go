package agent

import (
	"encoding/json"
	"strings"

	"github.com/BaSui01/macd/types"
)

// ProposeResponse is the structured output of a propose call.
type ProposeResponse struct {
	Proposal string `json:"proposal"`
}

// DeclareResponse is the structured output of a declare call. A nil
// Objection means the role accepts the improved proposal.
type DeclareResponse struct {
	Objection *string `json:"objection"`
}

// ParseProposeResponse extracts a ProposeResponse from raw model output.
func ParseProposeResponse(content string) (ProposeResponse, error) {
	var resp ProposeResponse
	raw, err := extractJSON(content)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return resp, types.NewError(types.ErrAgentFailure, "malformed propose response").WithCause(err)
	}
	if strings.TrimSpace(resp.Proposal) == "" {
		return resp, types.NewError(types.ErrAgentFailure, "propose response missing proposal text")
	}
	return resp, nil
}

// ParseDeclareResponse extracts a DeclareResponse from raw model output.
func ParseDeclareResponse(content string) (DeclareResponse, error) {
	var resp DeclareResponse
	raw, err := extractJSON(content)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return resp, types.NewError(types.ErrAgentFailure, "malformed declare response").WithCause(err)
	}
	return resp, nil
}

// extractJSON finds the JSON object in model output. Models frequently wrap
// the object in markdown fences or surround it with prose, so take the
// outermost brace pair.
func extractJSON(content string) (string, error) {
	s := strings.TrimSpace(content)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", types.NewError(types.ErrAgentFailure, "no JSON object in model output")
	}
	return s[start : end+1], nil
}
