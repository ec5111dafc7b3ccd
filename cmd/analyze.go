package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-explorer/internal/config"
	"github.com/naka-gawa/github-explorer/internal/domain"
	"github.com/naka-gawa/github-explorer/internal/store"
	"github.com/naka-gawa/github-explorer/internal/summary"
	"github.com/naka-gawa/github-explorer/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze OWNER/REPO",
	Short: "Scores the health of a repository",
	Long: `Fetches repository details, contributors, languages, commit activity,
open issues and open pull requests concurrently and derives a health score
with highlights and recommendations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		owner, repo, ok := splitRepoArg(args[0])
		if !ok {
			return fmt.Errorf("invalid repository %q, expected OWNER/REPO", args[0])
		}
		output, _ := cmd.Flags().GetString("output")
		if output != "json" && output != "table" {
			return fmt.Errorf("invalid --output %q, expected json or table", output)
		}
		save, _ := cmd.Flags().GetBool("save")
		summarize, _ := cmd.Flags().GetBool("summarize")

		githubGateway, cfg, logger, err := newGateway(cmd)
		if err != nil {
			return err
		}

		var snapshots usecase.SnapshotStore
		if save {
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			snapshots = db
		}

		var summarizer usecase.Summarizer
		if summarize {
			gemini, err := openSummarizer(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer gemini.Close()
			summarizer = gemini
		}

		reporter := usecase.NewReporter(usecase.NewAnalyzer(githubGateway, logger), snapshots, summarizer, logger)
		result, err := reporter.Report(ctx, owner, repo)
		if result == nil {
			return err
		}
		if err != nil {
			// The analysis itself succeeded; still show it.
			pterm.Warning.Println(err.Error())
		}

		if output == "table" {
			return renderAnalysis(result)
		}
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		fmt.Println(string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("output", "o", "json", "Output format: json or table")
	analyzeCmd.Flags().Bool("save", false, "Record the result in the analysis history")
	analyzeCmd.Flags().Bool("summarize", false, "Add a natural-language summary (requires "+config.EnvGeminiAPIKey+")")
}

func openStore(cfg *config.Config) (*store.Postgres, error) {
	if !cfg.HistoryEnabled() {
		return nil, fmt.Errorf("analysis history requires %s or --database-url", config.EnvDatabaseURL)
	}
	return store.NewPostgres(cfg.DatabaseURL)
}

func openSummarizer(ctx context.Context, cfg *config.Config, logger *log.Logger) (*summary.Gemini, error) {
	if !cfg.SummaryEnabled() {
		return nil, fmt.Errorf("summaries require %s", config.EnvGeminiAPIKey)
	}
	return summary.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
}

func renderAnalysis(result *domain.AnalysisResult) error {
	title := "Analysis"
	if result.Repository != nil {
		title = result.Repository.FullName
	}
	pterm.DefaultSection.Println(title)

	data := pterm.TableData{{"Metric", "Value"}}
	data = append(data, []string{"Health score", strconv.Itoa(result.Analysis.HealthScore)})
	if r := result.Repository; r != nil {
		data = append(data,
			[]string{"Stars", strconv.Itoa(r.StargazersCount)},
			[]string{"Forks", strconv.Itoa(r.ForksCount)},
			[]string{"Open issues", strconv.Itoa(r.OpenIssuesCount)},
		)
	}
	data = append(data,
		[]string{"Contributors", strconv.Itoa(len(result.Contributors))},
		[]string{"Languages", strconv.Itoa(len(result.Languages))},
	)
	if s := result.ActivityStats; s != nil {
		data = append(data,
			[]string{"Commits (last 4 weeks)", strconv.Itoa(s.RecentCommits)},
			[]string{"Weekly mean / median", fmt.Sprintf("%.2f / %.2f", s.Mean, s.Median)},
		)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.WithLevel(2).Println("Highlights")
	for _, h := range result.Analysis.Highlights {
		pterm.Success.Println(h)
	}
	pterm.DefaultSection.WithLevel(2).Println("Recommendations")
	for _, r := range result.Analysis.Recommendations {
		pterm.Info.Println(r)
	}
	if result.Summary != "" {
		pterm.DefaultSection.WithLevel(2).Println("Summary")
		pterm.Println(strings.TrimSpace(result.Summary))
	}
	return nil
}
