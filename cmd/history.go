package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-explorer/internal/usecase"
)

var historyCmd = &cobra.Command{
	Use:   "history OWNER/REPO",
	Short: "Shows recorded health scores of a repository",
	Long:  `Lists the analyses recorded with 'analyze --save', newest first.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		owner, repo, ok := splitRepoArg(args[0])
		if !ok {
			return fmt.Errorf("invalid repository %q, expected OWNER/REPO", args[0])
		}
		limit, _ := cmd.Flags().GetInt("limit")

		logger := newLogger(cmd)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		snapshots, err := usecase.NewReporter(nil, db, nil, logger).History(ctx, owner, repo, limit)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			pterm.Info.Printf("No recorded analyses of %s/%s\n", owner, repo)
			return nil
		}

		data := pterm.TableData{{"Recorded", "Score", "Stars", "Open issues", "Commits (4w)", "Recommendations"}}
		for _, s := range snapshots {
			data = append(data, []string{
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
				strconv.Itoa(s.HealthScore),
				strconv.Itoa(s.Stars),
				strconv.Itoa(s.OpenIssues),
				strconv.Itoa(s.RecentCommits),
				strings.Join(s.RecommendationList(), "; "),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 10, "Maximum number of analyses to show")
}
