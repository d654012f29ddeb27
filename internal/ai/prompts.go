package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/required_skills.md
var requiredSkillsPromptRaw string

// RequiredSkillsTemplate is the parsed instruction sent with every fallback call.
// Parsed once at package init.
var RequiredSkillsTemplate = template.Must(template.New("required_skills").Parse(requiredSkillsPromptRaw))
