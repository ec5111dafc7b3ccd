// Package summary asks a Gemini model for a short prose summary of an analysis.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned no content")

// Gemini summarizes analysis results with a Gemini model.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *log.Logger
}

// NewGemini creates a client for the given model using an API key.
func NewGemini(ctx context.Context, apiKey, model string, logger *log.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.ResponseMIMEType = "text/plain"
	return &Gemini{client: client, model: m, logger: logger}, nil
}

// Summarize returns a few sentences describing the health of the analyzed repository.
func (g *Gemini) Summarize(ctx context.Context, result *domain.AnalysisResult) (string, error) {
	prompt := BuildPrompt(result)
	g.logger.Printf("Summary: requesting summary (%d prompt bytes)", len(prompt))

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	return responseText(resp)
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// BuildPrompt renders the analysis as a plain-text prompt.
func BuildPrompt(result *domain.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("You are reviewing the health of an open source GitHub repository.\n")
	b.WriteString("Write a summary of at most four sentences for a maintainer. Do not use Markdown.\n\n")

	if repo := result.Repository; repo != nil {
		fmt.Fprintf(&b, "Repository: %s\n", repo.FullName)
		if repo.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", repo.Description)
		}
		fmt.Fprintf(&b, "Stars: %d, forks: %d, open issues: %d\n", repo.StargazersCount, repo.ForksCount, repo.OpenIssuesCount)
	}
	fmt.Fprintf(&b, "Health score: %d/100\n", result.Analysis.HealthScore)
	fmt.Fprintf(&b, "Contributors listed: %d\n", len(result.Contributors))

	if langs := languageNames(result.Languages); len(langs) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(langs, ", "))
	}
	if stats := result.ActivityStats; stats != nil {
		fmt.Fprintf(&b, "Commits in the last 4 weeks: %d (weekly mean %.2f, median %.2f)\n", stats.RecentCommits, stats.Mean, stats.Median)
	}
	writeList(&b, "Highlights", result.Analysis.Highlights)
	writeList(&b, "Recommendations", result.Analysis.Recommendations)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

// languageNames orders languages by byte count, largest first.
func languageNames(langs domain.Languages) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
