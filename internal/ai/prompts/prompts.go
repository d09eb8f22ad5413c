package prompts

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/ai"
)

//go:embed templates/*.md
var files embed.FS

const (
	maxSingleLineRunes = 300
	maxBlockRunes      = 2000
	none               = "none"
)

// Prompt is a rendered template ready to be sent to a provider.
type Prompt struct {
	Template    ai.Template
	System      string
	User        string
	Temperature float32
}

var temperatures = map[ai.Template]float32{
	ai.RoleUnderstanding: 0.2,
	ai.SkillSummary:      0.3,
	ai.TechnicalQuestion: 0.35,
	ai.Fallback:          0.4,
}

// Render builds the system instruction and the user message for the template.
func Render(template ai.Template, fields ai.Fields) (*Prompt, error) {
	if !template.Valid() {
		return nil, fmt.Errorf("unknown template %q", template)
	}

	system, err := load(template, "system")
	if err != nil {
		return nil, err
	}
	user, err := load(template, "user")
	if err != nil {
		return nil, err
	}

	replacements, err := placeholders(template, fields)
	if err != nil {
		return nil, err
	}

	pairs := make([]string, 0, len(replacements)*2)
	for key, value := range replacements {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	user = strings.NewReplacer(pairs...).Replace(user)

	return &Prompt{
		Template:    template,
		System:      strings.TrimSpace(system),
		User:        strings.TrimSpace(user),
		Temperature: temperatures[template],
	}, nil
}

func load(template ai.Template, kind string) (string, error) {
	data, err := files.ReadFile(fmt.Sprintf("templates/%s.%s.md", template, kind))
	if err != nil {
		return "", fmt.Errorf("load %s prompt for %s: %w", kind, template, err)
	}
	return string(data), nil
}

func placeholders(template ai.Template, fields ai.Fields) (map[string]string, error) {
	switch template {
	case ai.RoleUnderstanding:
		var c ai.RoleContext
		if err := ai.DecodeFields(fields, &c); err != nil {
			return nil, err
		}
		return map[string]string{
			"DESIRED_POSITIONS": orNone(sanitizeSingleLine(c.DesiredPositions, maxSingleLineRunes)),
			"YEARS_EXPERIENCE":  strconv.Itoa(c.YearsExperience),
		}, nil
	case ai.SkillSummary:
		var c ai.SkillContext
		if err := ai.DecodeFields(fields, &c); err != nil {
			return nil, err
		}
		return map[string]string{
			"TECH_STACK": orNone(sanitizeSingleLine(c.TechStack, maxSingleLineRunes)),
		}, nil
	case ai.TechnicalQuestion:
		var c ai.QuestionContext
		if err := ai.DecodeFields(fields, &c); err != nil {
			return nil, err
		}
		skills := make([]string, 0, len(c.Skills))
		for _, s := range c.Skills {
			if s = sanitizeSingleLine(s, maxSingleLineRunes); s != "" {
				skills = append(skills, s)
			}
		}
		return map[string]string{
			"FULL_NAME":          orDefault(sanitizeSingleLine(c.FullName, maxSingleLineRunes), "(not provided)"),
			"YEARS_EXPERIENCE":   strconv.Itoa(c.YearsExperience),
			"SENIORITY_LABEL":    orDefault(c.SeniorityLabel, "Unknown"),
			"ROLE_SUMMARY":       orDefault(sanitizeSingleLine(c.RoleSummary, maxBlockRunes), "(not available)"),
			"CATEGORY":           c.Category,
			"SKILLS":             orDefault(strings.Join(skills, ", "), "(no skills listed)"),
			"QUESTION_NUMBER":    strconv.Itoa(max(c.QuestionNumber, 1)),
			"PREVIOUS_QUESTIONS": bulletList(c.PreviousQuestions),
			"PREVIOUS_ANSWERS":   bulletList(c.PreviousAnswers),
			"LAST_ANSWER":        orNone(sanitizeBlock(c.LastAnswer, maxBlockRunes)),
		}, nil
	case ai.Fallback:
		var c ai.FallbackContext
		if err := ai.DecodeFields(fields, &c); err != nil {
			return nil, err
		}
		return map[string]string{
			"PHASE":   orDefault(c.Phase, "unknown"),
			"MESSAGE": orDefault(sanitizeSingleLine(c.Message, maxSingleLineRunes), "(empty message)"),
		}, nil
	default:
		return nil, fmt.Errorf("unknown template %q", template)
	}
}

// sanitizeSingleLine collapses whitespace, neutralises square brackets so candidate text
// cannot open a new prompt section, and caps the length.
func sanitizeSingleLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	return truncate(neutralize(s), limit)
}

// sanitizeBlock keeps line breaks but trims and neutralises every line.
func sanitizeBlock(s string, limit int) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		kept = append(kept, neutralize(line))
	}
	return truncate(strings.Join(kept, "\n"), limit)
}

func neutralize(s string) string {
	return strings.NewReplacer("[", "(", "]", ")").Replace(s)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		item = sanitizeSingleLine(item, maxBlockRunes)
		if item == "" {
			continue
		}
		lines = append(lines, "- "+item)
	}
	if len(lines) == 0 {
		return "- " + none
	}
	return strings.Join(lines, "\n")
}

func orNone(s string) string {
	return orDefault(s, none)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// CleanResponse strips code fences and wrapping quotes a model sometimes adds around
// a single sentence.
func CleanResponse(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```text")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}
	return raw
}
