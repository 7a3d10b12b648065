package types

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// FormatAnswerSummary renders the answers given so far as a markdown table,
// one row per answered step.
func FormatAnswerSummary(steps []Step, answers AnswerSet) string {
	if len(answers) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("No", "Question", "Answer")
	for i, answer := range answers {
		if i >= len(steps) {
			break
		}
		_ = table.Append(strconv.Itoa(i+1), steps[i].Prompt, answer)
	}
	_ = table.Render()
	return buf.String()
}
