package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/ai"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/ai/gemini"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/ai/openai"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/logger"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/secrets"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"
)

func newGateway(ctx context.Context, cfg AIConfig, log *zap.Logger) (ai.Gateway, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", providerGemini:
		return newGeminiGateway(ctx, cfg.Gemini, log)
	case providerOpenAI:
		return newOpenAIGateway(cfg.OpenAI, log)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newGeminiGateway(ctx context.Context, cfg *GeminiConfig, log *zap.Logger) (ai.Gateway, error) {
	if cfg == nil {
		cfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithCommonFields(log, providerGemini, cfg.Model).With(
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewGateway(generator, cfg.Models, cfg.MaxLogLength, logger.WithCommonFields(log, providerGemini, generator.Model())), nil
}

func newOpenAIGateway(cfg *OpenAIConfig, log *zap.Logger) (ai.Gateway, error) {
	if cfg == nil {
		cfg = &OpenAIConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "openai api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   []string{"OPENAI_API_KEY"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
	}

	clientLogger := logger.WithCommonFields(log, providerOpenAI, cfg.Model).With(
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	client, err := openai.NewClient(openai.Config{
		Endpoint:   cfg.Endpoint,
		APIKey:     apiKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
		Timeout:    cfg.Timeout,
	}, nil, clientLogger)
	if err != nil {
		return nil, err
	}

	return openai.NewGateway(client, cfg.Models, cfg.MaxLogLength, logger.WithCommonFields(log, providerOpenAI, client.Model())), nil
}
