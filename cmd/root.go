// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/naka-gawa/github-explorer/internal/config"
	"github.com/naka-gawa/github-explorer/internal/gateway"
)

var rootCmd = &cobra.Command{
	Use:   "github-explorer",
	Short: "A CLI tool to explore and analyze GitHub repositories.",
	Long: `github-explorer reads repositories, issues, pull requests, code and
workflow runs from the GitHub API, scores the health of a repository and
exposes every operation as a named tool that can be called with JSON
parameters.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

// addGlobalFlags defines the flags shared by every command.
func addGlobalFlags(flags *pflag.FlagSet) {
	// Add a persistent flag for verbose output, available to all commands.
	flags.BoolP("verbose", "v", false, "Enable verbose/debug logging")
	flags.String("token", "", "GitHub token (overrides "+config.EnvGithubToken+")")
	flags.Duration("timeout", 0, "Per-request timeout (overrides "+config.EnvTimeout+")")
	flags.String("api-url", "", "GitHub API base URL (overrides "+config.EnvAPIURL+")")
	flags.String("database-url", "", "Postgres DSN of the analysis history (overrides "+config.EnvDatabaseURL+")")
}

// newLogger discards all logs unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("token") {
		cfg.Token, _ = flags.GetString("token")
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("api-url") {
		cfg.APIBaseURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("database-url") {
		cfg.DatabaseURL, _ = flags.GetString("database-url")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newGateway builds the configured GitHub gateway.
func newGateway(cmd *cobra.Command) (*gateway.GitHubGateway, *config.Config, *log.Logger, error) {
	logger := newLogger(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	gw, err := gateway.NewGitHubGateway(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return gw, cfg, logger, nil
}

// splitRepoArg parses an "owner/repo" argument.
func splitRepoArg(arg string) (string, string, bool) {
	owner, repo, ok := strings.Cut(arg, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return owner, repo, true
}
