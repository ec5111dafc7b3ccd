package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-explorer/internal/usecase"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Lists and calls the named explorer tools",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every tool with its description",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := usecase.NewToolset(nil, newLogger(cmd)).Registry()

		data := pterm.TableData{{"Tool", "Description"}}
		for _, name := range usecase.ToolNames(registry) {
			data = append(data, []string{name, registry[name].Description})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var toolsCallCmd = &cobra.Command{
	Use:   "call NAME",
	Short: "Calls a tool with JSON parameters and prints the JSON result",
	Example: `  github-explorer tools call getRepository --params '{"owner":"octo","repo":"hello"}'
  github-explorer tools call read_code_file --params '{"owner":"octo","repo":"hello","path":"README.md"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		params, _ := cmd.Flags().GetString("params")

		githubGateway, _, logger, err := newGateway(cmd)
		if err != nil {
			return err
		}
		registry := usecase.NewToolset(githubGateway, logger).Registry()
		tool, ok := registry[args[0]]
		if !ok {
			return fmt.Errorf("unknown tool %q, run 'github-explorer tools list'", args[0])
		}

		result, err := tool.Invoke(ctx, json.RawMessage(params))
		if err != nil {
			return err
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
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsListCmd, toolsCallCmd)
	toolsCallCmd.Flags().StringP("params", "p", "{}", "Tool parameters as a JSON object")
}
