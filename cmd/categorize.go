package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/skills"
)

var categorizeCmd = &cobra.Command{
	Use:     "categorize <tech stack>",
	Short:   "Print the skill categories detected in a tech stack",
	Example: `  skillscout categorize "Python, Django, PostgreSQL, Docker"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(skills.Categorize(strings.Join(args, " ")))
	},
}

func init() {
	rootCmd.AddCommand(categorizeCmd)
}
