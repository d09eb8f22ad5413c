package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/logger"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/records"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/screening"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run an interactive technical screening",
	Run: func(cmd *cobra.Command, _ []string) {
		screen(cmd)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().String("provider", "", "ai provider: gemini or openai")
	screenCmd.Flags().String("store", "", "record store backend: file, postgres, redis or none")
	screenCmd.Flags().Int("max-questions", 0, "maximum number of technical questions")

	viper.BindPFlag("ai.provider", screenCmd.Flags().Lookup("provider"))
	viper.BindPFlag("store.backend", screenCmd.Flags().Lookup("store"))
	viper.BindPFlag("screening.max-total-questions", screenCmd.Flags().Lookup("max-questions"))
}

// screen is the main command for the cli.
func screen(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), viper.GetString("log-output"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting skillscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config.Screening, "", "  ")
	logger.Debug(fmt.Sprintf("starting with screening config: \n %s", pretty))

	gateway, err := newGateway(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the reasoning gateway", zap.Error(err))
	}

	store, err := records.Open(ctx, config.Store, logger)
	if err != nil {
		logger.Fatal("opening the record store", zap.Error(err))
	}
	defer store.Close()

	machine := screening.NewMachine(gateway, store, logger, config.Screening.options()...)

	session := &chat{
		machine: machine,
		state:   screening.NewState(),
		out:     cmd.OutOrStdout(),
		logger:  logger,
		timeout: config.AI.Timeout,
		read:    promptRead,
		choose:  promptChoose,
	}

	if err := session.run(ctx); err != nil {
		logger.Error("screening stopped", zap.Error(err))
	}
}
