package ai

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Template identifies a fixed prompt understood by every provider.
type Template string

const (
	RoleUnderstanding Template = "role_understanding"
	SkillSummary      Template = "skill_summary"
	TechnicalQuestion Template = "technical_question"
	Fallback          Template = "fallback"
)

// Templates lists all known templates.
var Templates = []Template{RoleUnderstanding, SkillSummary, TechnicalQuestion, Fallback}

// Valid reports whether the template is one of the known ones.
func (t Template) Valid() bool {
	for _, known := range Templates {
		if t == known {
			return true
		}
	}
	return false
}

// Fields are the named context values passed along with a template.
type Fields map[string]any

// Gateway asks a language model something and returns plain text. Implementations are
// stateless between calls and any error they return is treated as retryable.
type Gateway interface {
	Invoke(ctx context.Context, template Template, fields Fields) (string, error)
}

// RoleContext is the context of the RoleUnderstanding template.
type RoleContext struct {
	DesiredPositions string `mapstructure:"desired_positions"`
	YearsExperience  int    `mapstructure:"years_experience"`
}

// SkillContext is the context of the SkillSummary template.
type SkillContext struct {
	TechStack string `mapstructure:"tech_stack"`
}

// QuestionContext is the context of the TechnicalQuestion template.
type QuestionContext struct {
	FullName          string   `mapstructure:"full_name"`
	YearsExperience   int      `mapstructure:"years_experience"`
	SeniorityLabel    string   `mapstructure:"seniority_label"`
	RoleSummary       string   `mapstructure:"role_summary"`
	Category          string   `mapstructure:"category"`
	Skills            []string `mapstructure:"skills"`
	QuestionNumber    int      `mapstructure:"question_number"`
	PreviousQuestions []string `mapstructure:"previous_questions"`
	PreviousAnswers   []string `mapstructure:"previous_answers"`
	LastAnswer        string   `mapstructure:"last_answer"`
}

// FallbackContext is the context of the Fallback template.
type FallbackContext struct {
	Message string `mapstructure:"message"`
	Phase   string `mapstructure:"phase"`
}

// ToFields flattens a typed context into gateway fields.
func ToFields(v any) (Fields, error) {
	var fields Fields
	if err := mapstructure.Decode(v, &fields); err != nil {
		return nil, fmt.Errorf("encode gateway fields: %w", err)
	}
	return fields, nil
}

// DecodeFields fills a typed context from gateway fields. Loosely typed values such as
// numeric strings are accepted.
func DecodeFields(fields Fields, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]any(fields)); err != nil {
		return fmt.Errorf("decode gateway fields: %w", err)
	}
	return nil
}
