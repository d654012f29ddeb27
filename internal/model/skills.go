package model

import "context"

// SkillsStatus tells whether the skill fallback produced an answer.
type SkillsStatus int

const (
	// SkillsUnavailable means the service timed out, failed or answered with
	// something unparseable. The record keeps no required_skills.
	SkillsUnavailable SkillsStatus = iota
	// SkillsExtracted means the service answered; Skills may still be empty.
	SkillsExtracted
)

func (s SkillsStatus) String() string {
	if s == SkillsExtracted {
		return "extracted"
	}
	return "unavailable"
}

// SkillsOutcome is the result of one fallback call. Callers branch on Status,
// never on len(Skills).
type SkillsOutcome struct {
	Status SkillsStatus
	Skills []string
	Err    error // set when Status is SkillsUnavailable because of a failure
}

// Unavailable builds an outcome for a failed call.
func Unavailable(err error) SkillsOutcome {
	return SkillsOutcome{Status: SkillsUnavailable, Err: err}
}

// Extracted builds an outcome for an answered call.
func Extracted(skills []string) SkillsOutcome {
	if skills == nil {
		skills = []string{}
	}
	return SkillsOutcome{Status: SkillsExtracted, Skills: skills}
}

// SkillExtractor asks an external text-understanding service for the
// required skills of a description. It never returns an error; failures are
// reported through the outcome.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, description string) SkillsOutcome
}
