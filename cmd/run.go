package cmd

import (
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abisha-thapa/simulate-students-genai/internal/dataset"
	"github.com/abisha-thapa/simulate-students-genai/internal/llm"
	"github.com/abisha-thapa/simulate-students-genai/internal/pipeline"
	"github.com/abisha-thapa/simulate-students-genai/internal/results"
	"github.com/abisha-thapa/simulate-students-genai/internal/simulate"
	"github.com/abisha-thapa/simulate-students-genai/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation pipeline over an input table",
	Long: "Reads the student problem table, holds one growing conversation per student, " +
		"and appends one scored row per problem to the results CSV as it is computed. " +
		"A crash or a per-student failure never loses rows already written.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inputPath, _ := cmd.Flags().GetString("input")
		outputPath, _ := cmd.Flags().GetString("output")

		// Input malformation is fatal before any model call.
		records, err := dataset.LoadFile(inputPath)
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve event log path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer st.Close()

		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			if discovered, ok := llm.DiscoverConfig(); ok {
				cfg = discovered
			} else {
				return err
			}
		}

		runID := uuid.NewString()
		provider, err := llm.NewProvider(ctx, cfg, st.EventRepo(), runID)
		if err != nil {
			return err
		}

		sink, err := results.NewCSVWriter(outputPath)
		if err != nil {
			return err
		}
		defer sink.Close()

		fmt.Fprintf(os.Stderr, "run %s: provider=%s model=%s input=%s output=%s\n",
			runID, cfg.Provider, provider.ModelID(), inputPath, outputPath)

		ctx = llm.WithPurpose(ctx, "simulate")

		driver := pipeline.New(provider, simulate.Config{
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
		driver.Progress = os.Stderr

		res, runErr := driver.Run(ctx, records, sink)
		printRunSummary(res, outputPath)
		return runErr
	},
}

// printRunSummary renders the end-of-run footer. Called even when the run
// aborted: whatever was durably written is reported.
func printRunSummary(res *pipeline.RunResult, outputPath string) {
	fmt.Println()
	fmt.Println(titleStyle.Render("Simulation run complete"))

	completed := res.Students - len(res.Failures)
	fmt.Printf("%s %s\n", dimStyle.Render("students:"),
		okStyle.Render(fmt.Sprintf("%d/%d completed", completed, res.Students)))
	fmt.Printf("%s %d\n", dimStyle.Render("rows written:"), len(res.Rows))

	if len(res.Rows) > 0 {
		var strategy, unknown, answer int
		for _, row := range res.Rows {
			if row.StrategyMatch {
				strategy++
			}
			if row.UnknownMatch {
				unknown++
			}
			if row.AnswerMatch {
				answer++
			}
		}
		n := float64(len(res.Rows))
		fmt.Printf("%s strategy %.0f%% · unknown %.0f%% · answer %.0f%%\n",
			dimStyle.Render("match rates:"),
			100*float64(strategy)/n, 100*float64(unknown)/n, 100*float64(answer)/n)
	}

	for _, f := range res.Failures {
		fmt.Println(warnStyle.Render(fmt.Sprintf("student %s aborted: %v", f.StudentID, f.Err)))
	}

	fmt.Printf("%s %s\n", dimStyle.Render("results:"), outputPath)
}

func init() {
	runCmd.Flags().StringP("input", "i", "student_problem_info.csv", "Input CSV with per-student problems and ground truth")
	runCmd.Flags().StringP("output", "o", "evaluation_results.csv", "Destination CSV for result rows")
}
