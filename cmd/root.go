package cmd

import (
	"github.com/abisha-thapa/simulate-students-genai/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studentsim",
	Short: "LLM-based student behavior simulation",
	Long: "Studentsim replays each student's problem sequence through an LLM simulating " +
		"a 7th-grade student, scores the model's self-assessments against ground truth, " +
		"and writes one result row per problem.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log (overrides STUDENTSIM_DB env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the event log path using --db flag (highest
// priority), then STUDENTSIM_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
