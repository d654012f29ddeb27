package ai

import (
	"context"
	"errors"

	"github.com/amishk599/jobledger/internal/model"
)

// ErrDisabled is the reason reported by NopSkillExtractor.
var ErrDisabled = errors.New("skill fallback disabled")

// NopSkillExtractor is used when ai.enabled is false.
// Every call reports SkillsUnavailable with no network traffic.
type NopSkillExtractor struct{}

// NewNopSkillExtractor returns a NopSkillExtractor.
func NewNopSkillExtractor() *NopSkillExtractor {
	return &NopSkillExtractor{}
}

// ExtractSkills always reports the fallback as unavailable.
func (n *NopSkillExtractor) ExtractSkills(_ context.Context, _ string) model.SkillsOutcome {
	return model.Unavailable(ErrDisabled)
}
