package render

import (
	"fmt"
	"strings"

	"github.com/tbxark/sobaguide/agent"
	"github.com/tbxark/sobaguide/types"
)

// Text renders responses for a terminal.
type Text struct {
	Palette Palette
	Color   bool
	// Steps, when set, enables the answer summary table on results.
	Steps []types.Step
}

func NewText(palette Palette, color bool, steps []types.Step) *Text {
	return &Text{Palette: palette, Color: color, Steps: steps}
}

func (t *Text) Response(resp *agent.Response) string {
	var sb strings.Builder
	if resp.Message != "" {
		sb.WriteString(resp.Message)
		sb.WriteString("\n")
	}
	if resp.Step != nil {
		sb.WriteString(t.Options(*resp.Step))
	}
	if len(resp.Blocks) > 0 {
		if resp.State != nil {
			if summary := types.FormatAnswerSummary(t.Steps, resp.State.Dialogue.Answers); summary != "" {
				sb.WriteString("\n")
				sb.WriteString(summary)
			}
		}
		sb.WriteString("\n")
		sb.WriteString(t.Blocks(resp.Blocks))
	}
	if hint := resp.Metadata["hint"]; hint != "" {
		sb.WriteString("\n")
		sb.WriteString(paint(hint, Gray, t.Color))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Options lists the choices of a closed-choice step, numbered from 1.
func (t *Text) Options(step types.Step) string {
	if step.Kind != types.StepClosedChoice || len(step.Options) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, option := range step.Options {
		fmt.Fprintf(&sb, "  %2d) %s\n", i+1, option)
	}
	return sb.String()
}

func (t *Text) Blocks(blocks []types.DisplayBlock) string {
	var sb strings.Builder
	for i, block := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch b := block.(type) {
		case *types.ErrorBlock:
			sb.WriteString(paint("⚠ "+b.Message, Red, t.Color))
			sb.WriteString("\n")
		case *types.SectionBlock:
			t.writeSection(&sb, b)
		}
	}
	return sb.String()
}

func (t *Text) writeSection(sb *strings.Builder, section *types.SectionBlock) {
	style := t.Palette.Style(section.Category)
	sb.WriteString(paint(style.Icon+" "+section.Title, style.Color, t.Color))
	sb.WriteString("\n")
	for _, item := range section.Items {
		var prefix string
		switch item.Kind {
		case types.ItemNumbered:
			prefix = item.Label + ". "
		case types.ItemBullet:
			prefix = "・"
		}
		indent := strings.Repeat(" ", len([]rune(prefix)))
		for j, para := range item.Paragraphs {
			if j == 0 {
				sb.WriteString("  " + prefix + para + "\n")
				continue
			}
			sb.WriteString("  " + indent + para + "\n")
		}
	}
}
