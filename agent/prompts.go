package agent

import (
	"fmt"

	"github.com/BaSui01/macd/llm"
	"github.com/BaSui01/macd/types"
)

// Prompt assembly for the propose and declare sub-agents. The message order
// mirrors the deliberation flow: system identity, task instruction, the
// role's committed memory, current user preferences, output format and the
// concrete invocation.

const systemTemplate = `You are an advisor who collaborates and debates with other advisors holding different positions, in order to better resolve the user's request.

The user's request:

%s

Your name:

%s

Your position on this request:

%s

Trust the validity of your own position. Never fully surrender it to the other advisors.`

const proposeInstruction = `Drawing on your past refinement experience and the user's preferences, propose a plan that better satisfies the user's request from your own position.

Think step by step, then give your answer. Keep the reasoning objective and brief.`

const declareInstruction = `Drawing on your past voting experience and the user's preferences, consider carefully: is this plan acceptable from your point of view? A plan is acceptable when:

- it does not damage the interests of your position, or may even benefit them;
- any damage it does to your position is limited and repairable by later refinement, not an irrecoverable loss.

Think step by step, then give your answer. Keep the reasoning objective and brief.`

const proposeFormat = `Answer with a single JSON object of the form {"proposal": "<your improved plan>"} and nothing else.`

const declareFormat = `Answer with a single JSON object of the form {"objection": "<why you reject the improved plan>"} to object, or {"objection": null} to accept, and nothing else.`

func systemMessage(role types.Role) llm.Message {
	return llm.Message{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf(systemTemplate, role.Topic, role.Name, role.Position),
	}
}

func preferencesMessage(prefs types.Preferences) llm.Message {
	return llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("The plans the user currently prefers, with reasons:\n\n%s", prefs),
	}
}

func proposeInvocation(current *types.Proposal) llm.Message {
	text := "(no proposal yet)"
	if current != nil {
		text = current.String()
	}
	return llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("The current best plan:\n\n%s\n\nImproved plan:", text),
	}
}

func declareInvocation(original *types.Proposal, improved types.Proposal) llm.Message {
	origText := "(no proposal yet)"
	if original != nil {
		origText = original.String()
	}
	return llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("The original plan:\n\n%s\n\nThe improved plan:\n\n%s\n\nYour stance:", origText, improved),
	}
}

// proposeMessages assembles the full message list for one propose call.
func proposeMessages(role types.Role, mem *Memory, current *types.Proposal, prefs types.Preferences) ([]llm.Message, llm.Message) {
	invocation := proposeInvocation(current)
	msgs := make([]llm.Message, 0, len(mem.Messages())+5)
	msgs = append(msgs, systemMessage(role))
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: proposeInstruction})
	msgs = append(msgs, mem.Messages()...)
	msgs = append(msgs, preferencesMessage(prefs))
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: proposeFormat})
	msgs = append(msgs, invocation)
	return msgs, invocation
}

// declareMessages assembles the full message list for one declare call.
func declareMessages(role types.Role, mem *Memory, original *types.Proposal, improved types.Proposal, prefs types.Preferences) ([]llm.Message, llm.Message) {
	invocation := declareInvocation(original, improved)
	msgs := make([]llm.Message, 0, len(mem.Messages())+5)
	msgs = append(msgs, systemMessage(role))
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: declareInstruction})
	msgs = append(msgs, mem.Messages()...)
	msgs = append(msgs, preferencesMessage(prefs))
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: declareFormat})
	msgs = append(msgs, invocation)
	return msgs, invocation
}
