package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wuzhjian/compass/model"
)

// Column widths used for consistent alignment.
const (
	colKey      = 22 // vars key: "mapWastePercent:", ...
	maxBoxInner = 55 // max inner width for KV boxes
)

type kv struct {
	Key string
	Val string
}

// styledPad pads a styled string to the given visual width using spaces.
// Unlike fmt.Sprintf("%-Xs"), this accounts for ANSI escape codes.
func styledPad(styled string, width int) string {
	visW := lipgloss.Width(styled)
	if visW >= width {
		return styled
	}
	return styled + strings.Repeat(" ", width-visW)
}

// ─── BOX DRAWING HELPERS ─────────────────────────────────────────────────────

// boxTop renders the top border of a rounded box.
// Total visual width = innerW + 5 (1 indent + 1 corner + innerW+2 dashes + 1 corner).
func boxTop(innerW int) string {
	return " " + dimStyle.Render("╭"+strings.Repeat("─", innerW+2)+"╮")
}

// boxBot renders the bottom border of a rounded box.
func boxBot(innerW int) string {
	return " " + dimStyle.Render("╰"+strings.Repeat("─", innerW+2)+"╯")
}

// boxRow renders one content line inside a box, padded to innerW.
func boxRow(content string, innerW int) string {
	visW := lipgloss.Width(content)
	pad := innerW - visW
	if pad < 0 {
		pad = 0
	}
	return " " + dimStyle.Render("│") + " " + content + strings.Repeat(" ", pad) + " " + dimStyle.Render("│")
}

// renderKVBox renders key-value pairs inside a bordered box.
func renderKVBox(details []kv, innerW int) string {
	var sb strings.Builder
	sb.WriteString(boxTop(innerW) + "\n")
	for _, d := range details {
		key := d.Key
		if len(key) > colKey-2 {
			key = key[:colKey-2]
		}
		content := fmt.Sprintf("%s %s",
			styledPad(dimStyle.Render(key+":"), colKey),
			valueStyle.Render(d.Val))
		sb.WriteString(boxRow(content, innerW) + "\n")
	}
	sb.WriteString(boxBot(innerW) + "\n")
	return sb.String()
}

// sortedVars returns the artifact vars ordered by key.
func sortedVars(vars map[string]string) []kv {
	out := make([]kv, 0, len(vars))
	for k, v := range vars {
		out = append(out, kv{Key: k, Val: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// RenderEntry renders one report entry: verdict, vars, charts and the
// explanation, fitted to width.
func RenderEntry(e model.ReportEntry, width int) string {
	innerW := width - 6
	if innerW > maxBoxInner {
		innerW = maxBoxInner
	}
	if innerW < 20 {
		innerW = 20
	}

	abnormal := e.Artifact != nil && e.Artifact.Abnormal
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(e.ShortLabel))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  [%s, priority %d]  ", e.Category, e.Priority)))
	sb.WriteString(verdictStyle(abnormal).Render(verdictText(abnormal)))
	sb.WriteString("\n")

	if e.Artifact == nil {
		return sb.String()
	}
	if len(e.Artifact.Vars) > 0 {
		sb.WriteString(renderKVBox(sortedVars(e.Artifact.Vars), innerW))
	}
	for _, c := range e.Artifact.Charts {
		sb.WriteString("\n")
		sb.WriteString(stackedBars(c, width))
		sb.WriteString("\n")
	}
	if e.Explanation != "" {
		sb.WriteString("\n")
		sb.WriteString(helpStyle.Render(e.Explanation))
		sb.WriteString("\n")
	}
	return sb.String()
}
