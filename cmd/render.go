package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/wuzhjian/compass/model"
	"github.com/wuzhjian/compass/otlp"
	"github.com/wuzhjian/compass/ui"
)

const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatOTLP     = "otlp"
)

// ANSI escapes for the text report.
const (
	R = "\033[0m"
	B = "\033[1m"
	D = "\033[2m"

	FBRed = "\033[91m"
	FBGrn = "\033[92m"
	FBWht = "\033[97m"
	BBlu  = "\033[44m"
)

var now = time.Now

func validFormat(f string) bool {
	switch f {
	case formatText, formatMarkdown, formatJSON, formatOTLP:
		return true
	}
	return false
}

func render(w io.Writer, format string, r *model.Report) error {
	switch format {
	case formatMarkdown:
		_, err := io.WriteString(w, renderMarkdownReport(r))
		return err
	case formatJSON:
		return renderJSON(w, r)
	case formatOTLP:
		data, err := otlp.MarshalJSON(r, Version, now())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	renderText(w, r)
	return nil
}

// ── CLI Output ──────────────────────────────────────────────────────────────

func renderText(w io.Writer, r *model.Report) {
	fmt.Fprintf(w, "\n %s%s compass diagnose v%s %s — %s%s%s\n\n",
		B, BBlu+FBWht, Version, R,
		B, r.JobID, R)

	if len(r.Entries) == 0 {
		fmt.Fprintf(w, " %sNo diagnosis entries for this job%s\n\n", D, R)
		return
	}

	abnormal := 0
	for _, e := range r.Entries {
		fmt.Fprintln(w, ui.RenderEntry(e, 80))
		if e.Artifact != nil && e.Artifact.Abnormal {
			abnormal++
		}
	}

	fmt.Fprintln(w, "---")
	total := int64(len(r.Entries))
	if abnormal == 0 {
		fmt.Fprintf(w, " %s✓ No waste detected across %s categories%s\n", FBGrn, humanize.Comma(total), R)
	} else {
		fmt.Fprintf(w, " %s%s%d abnormal%s across %s categories\n", B, FBRed, abnormal, R, humanize.Comma(total))
	}
	fmt.Fprintln(w)
}

// ── JSON Output ─────────────────────────────────────────────────────────────

type jsonReport struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Abnormal  bool   `json:"abnormal"`
	*model.Report
}

func renderJSON(w io.Writer, r *model.Report) error {
	out := jsonReport{
		RunID:     uuid.NewString(),
		Timestamp: now().Format(time.RFC3339),
		Version:   Version,
		Abnormal:  r.Abnormal(),
		Report:    r,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ── Markdown Output ─────────────────────────────────────────────────────────

// renderMarkdownReport generates a ticket-friendly markdown diagnosis report.
func renderMarkdownReport(r *model.Report) string {
	var sb strings.Builder
	sb.WriteString("# compass Diagnosis Report\n\n")
	sb.WriteString(fmt.Sprintf("**Job:** %s  \n", r.JobID))
	sb.WriteString(fmt.Sprintf("**Time:** %s  \n", now().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Version:** %s\n\n", Version))

	if len(r.Entries) == 0 {
		sb.WriteString("No diagnosis entries.\n")
		return sb.String()
	}

	// Summary table
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Priority | Category | Status |\n")
	sb.WriteString("|----------|----------|--------|\n")
	for _, e := range r.Entries {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", e.Priority, e.ShortLabel, mdVerdict(e)))
	}
	sb.WriteString("\n")

	for _, e := range r.Entries {
		sb.WriteString(fmt.Sprintf("## %s — %s\n\n", e.ShortLabel, mdVerdict(e)))
		if e.Artifact == nil {
			continue
		}
		if len(e.Artifact.Vars) > 0 {
			keys := make([]string, 0, len(e.Artifact.Vars))
			for k := range e.Artifact.Vars {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				sb.WriteString(fmt.Sprintf("- **%s:** %s\n", k, e.Artifact.Vars[k]))
			}
			sb.WriteString("\n")
		}
		for _, c := range e.Artifact.Charts {
			sb.WriteString(mdChart(c))
		}
		if e.Explanation != "" {
			sb.WriteString("```\n" + e.Explanation + "\n```\n\n")
		}
	}

	sb.WriteString("---\n*Generated by compass*\n")
	return sb.String()
}

func mdVerdict(e model.ReportEntry) string {
	if e.Artifact != nil && e.Artifact.Abnormal {
		return "**[ABNORMAL]**"
	}
	return "[OK]"
}

func mdChart(c model.Chart) string {
	var sb strings.Builder
	keys := c.SeriesKeys()
	sb.WriteString(fmt.Sprintf("**%s** (%s)\n\n", c.Description, c.Unit))

	sb.WriteString("| " + c.XLabel)
	for _, k := range keys {
		sb.WriteString(" | " + c.Legend[k].Label)
	}
	sb.WriteString(" |\n|" + strings.Repeat("---|", len(keys)+1) + "\n")
	for _, p := range c.Points {
		sb.WriteString("| " + p.X)
		for _, k := range keys {
			if v, ok := p.Get(k); ok {
				sb.WriteString(fmt.Sprintf(" | %.2f", v))
			} else {
				sb.WriteString(" | -")
			}
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString("\n")
	return sb.String()
}
