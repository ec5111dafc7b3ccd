package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/naka-gawa/github-explorer/internal/domain"
)

// maxDiffCells bounds the LCS table once the common prefix and suffix are
// trimmed.
const maxDiffCells = 4_000_000

// ErrDiffTooLarge is returned when two texts differ in too many lines to diff.
var ErrDiffTooLarge = errors.New("files differ in too many lines to diff")

// LineDiff computes a line-based diff of original and updated using the
// longest common subsequence of their lines.
func LineDiff(original, updated string) ([]domain.DiffLine, error) {
	a, b := splitLines(original), splitLines(updated)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	midA, midB := a[prefix:len(a)-suffix], b[prefix:len(b)-suffix]
	if (len(midA)+1)*(len(midB)+1) > maxDiffCells {
		return nil, ErrDiffTooLarge
	}

	lines := make([]domain.DiffLine, 0, len(a)+len(b))
	for i := 0; i < prefix; i++ {
		lines = append(lines, domain.DiffLine{Op: domain.DiffEqual, Text: a[i], OldLine: i + 1, NewLine: i + 1})
	}
	lines = append(lines, lcsDiff(midA, midB, prefix, prefix)...)
	for i := 0; i < suffix; i++ {
		ai, bi := len(a)-suffix+i, len(b)-suffix+i
		lines = append(lines, domain.DiffLine{Op: domain.DiffEqual, Text: a[ai], OldLine: ai + 1, NewLine: bi + 1})
	}
	return lines, nil
}

// lcsDiff diffs a and b; offA and offB are the line offsets of their first
// elements in the full texts.
func lcsDiff(a, b []string, offA, offB int) []domain.DiffLine {
	n, m := len(a), len(b)
	// table[i][j] is the LCS length of a[i:] and b[j:].
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	var lines []domain.DiffLine
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			lines = append(lines, domain.DiffLine{Op: domain.DiffEqual, Text: a[i], OldLine: offA + i + 1, NewLine: offB + j + 1})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			lines = append(lines, domain.DiffLine{Op: domain.DiffDelete, Text: a[i], OldLine: offA + i + 1})
			i++
		default:
			lines = append(lines, domain.DiffLine{Op: domain.DiffInsert, Text: b[j], NewLine: offB + j + 1})
			j++
		}
	}
	for ; i < n; i++ {
		lines = append(lines, domain.DiffLine{Op: domain.DiffDelete, Text: a[i], OldLine: offA + i + 1})
	}
	for ; j < m; j++ {
		lines = append(lines, domain.DiffLine{Op: domain.DiffInsert, Text: b[j], NewLine: offB + j + 1})
	}
	return lines
}

// splitLines splits s into lines without their terminators. A trailing
// newline does not produce an empty last line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// NewFileDiff builds the diff of a proposed change to path.
func NewFileDiff(path, original, updated, explanation string) (*domain.FileDiff, error) {
	lines, err := LineDiff(original, updated)
	if err != nil {
		return nil, err
	}
	diff := &domain.FileDiff{
		FilePath:     path,
		OriginalCode: original,
		NewCode:      updated,
		Explanation:  explanation,
		Lines:        lines,
	}
	for _, l := range lines {
		switch l.Op {
		case domain.DiffInsert:
			diff.Additions++
		case domain.DiffDelete:
			diff.Deletions++
		}
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(updated),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render unified diff: %w", err)
	}
	diff.Unified = unified
	return diff, nil
}
