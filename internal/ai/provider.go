package ai

import "context"

// LLMProvider sends an instruction plus input text to an LLM and returns the
// raw JSON text of its answer.
// Used only by LLMSkillExtractor; not exported to the rest of the system.
type LLMProvider interface {
	Complete(ctx context.Context, instruction, input string) (string, error)
}
