package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/records"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/screening"
)

const (
	app       = "skillscout"
	envPrefix = "SKILLSCOUT"
)

type Config struct {
	Screening ScreeningConfig `mapstructure:"screening"`
	AI        AIConfig        `mapstructure:"ai"`
	Store     records.Config  `mapstructure:"store"`
}

type ScreeningConfig struct {
	MaxTotalQuestions int    `mapstructure:"max-total-questions"`
	SoftCategoryCap   int    `mapstructure:"soft-category-cap"`
	ExitCommand       string `mapstructure:"exit-command"`
	QuestionHistory   int    `mapstructure:"question-history"`
	AnswerHistory     int    `mapstructure:"answer-history"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey       string            `mapstructure:"api-key"`
	APIKeyFile   string            `mapstructure:"api-key-file"`
	Model        string            `mapstructure:"model"`
	MaxRetries   int               `mapstructure:"max-retries"`
	MaxLogLength int               `mapstructure:"max-log-length"`
	Models       map[string]string `mapstructure:"models"`
}

type OpenAIConfig struct {
	APIKey       string            `mapstructure:"api-key"`
	APIKeyFile   string            `mapstructure:"api-key-file"`
	Endpoint     string            `mapstructure:"endpoint"`
	Model        string            `mapstructure:"model"`
	MaxRetries   int               `mapstructure:"max-retries"`
	Timeout      time.Duration     `mapstructure:"timeout"`
	MaxLogLength int               `mapstructure:"max-log-length"`
	Models       map[string]string `mapstructure:"models"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillscout runs a conversational technical screening in the terminal",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-output", "stderr", "where logs are written: stderr, stdout or a file path")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-output", rootCmd.PersistentFlags().Lookup("log-output"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("screening.max-total-questions", screening.DefaultMaxTotalQuestions)
	v.SetDefault("screening.soft-category-cap", screening.DefaultSoftCategoryCap)
	v.SetDefault("screening.exit-command", screening.DefaultExitCommand)
	v.SetDefault("screening.question-history", screening.DefaultQuestionHistory)
	v.SetDefault("screening.answer-history", screening.DefaultAnswerHistory)

	v.SetDefault("ai.provider", providerGemini)
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
	v.SetDefault("ai.openai.api-key", "")
	v.SetDefault("ai.openai.api-key-file", "")
	v.SetDefault("ai.openai.endpoint", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.max-retries", 3)
	v.SetDefault("ai.openai.timeout", 60*time.Second)
	v.SetDefault("ai.openai.max-log-length", 200)

	v.SetDefault("store.backend", records.BackendFile)
	v.SetDefault("store.file", records.DefaultFile)
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.postgres.dsn-file", "")
	v.SetDefault("store.postgres.table", records.DefaultPostgresTable)
	v.SetDefault("store.redis.url", "")
	v.SetDefault("store.redis.key", records.DefaultRedisKey)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// A .env file is optional; a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	// Config needed only for screen command. Other commands work without it.
	if screenCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// An explicitly given config must parse; the default one may be missing.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.OpenAI == nil {
		config.AI.OpenAI = &OpenAIConfig{}
	}
	return config, nil
}

func (c ScreeningConfig) options() []screening.Option {
	return []screening.Option{
		screening.WithLimits(screening.Limits{
			MaxTotalQuestions: c.MaxTotalQuestions,
			SoftCategoryCap:   c.SoftCategoryCap,
		}),
		screening.WithExitCommand(c.ExitCommand),
		screening.WithHistory(c.QuestionHistory, c.AnswerHistory),
	}
}
