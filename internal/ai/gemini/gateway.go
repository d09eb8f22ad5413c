package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/ai"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/ai/prompts"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/utils"
)

type contentGenerator interface {
	GenerateContentWithOptions(ctx context.Context, system, message string, opts Options) (string, error)
}

// Gateway renders screening templates and sends them to Gemini.
type Gateway struct {
	generator contentGenerator
	models    map[ai.Template]string
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Gateway = (*Gateway)(nil)

const defaultMaxLogLength = 200

// NewGateway builds a gateway. models optionally overrides the model per template.
func NewGateway(generator contentGenerator, models map[string]string, maxLogLength int, logger *zap.Logger) *Gateway {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	overrides := make(map[ai.Template]string, len(models))
	for name, model := range models {
		template := ai.Template(strings.ToLower(strings.TrimSpace(name)))
		if model = strings.TrimSpace(model); template.Valid() && model != "" {
			overrides[template] = model
		}
	}

	return &Gateway{
		generator: generator,
		models:    overrides,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Invoke renders the template with fields and returns Gemini's answer.
func (g *Gateway) Invoke(ctx context.Context, template ai.Template, fields ai.Fields) (string, error) {
	prompt, err := prompts.Render(template, fields)
	if err != nil {
		return "", err
	}

	temperature := prompt.Temperature
	opts := Options{Model: g.models[template], Temperature: &temperature}

	g.logger.Debug("gemini generate content request",
		zap.String("template", string(template)),
		zap.String("model_override", opts.Model),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt.User)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt.User, g.maxLogLen)),
	)

	raw, err := g.generator.GenerateContentWithOptions(ctx, prompt.System, prompt.User, opts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", template, err)
	}

	g.logger.Debug("gemini generate content response",
		zap.String("template", string(template)),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)

	return prompts.CleanResponse(raw), nil
}
