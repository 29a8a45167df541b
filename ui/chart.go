package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/wuzhjian/compass/model"
)

// stackedBars renders a chart as one horizontal bar per point, each series
// stacked in legend order and scaled to the largest point total.
//
//	map task peak memory vs allocated memory (GB)
//	  1 │██████████░░░░░░░░░░░░░░░░░░░░  1.00 / 3.00
//	  2 │████████████████████░░░░░░░░░░  2.00 / 2.00
//	    ■ peak memory  ■ free memory   2 points
func stackedBars(c model.Chart, width int) string {
	keys := c.SeriesKeys()

	labelW := 1
	maxTotal := 0.0
	for _, p := range c.Points {
		if w := len(p.X); w > labelW {
			labelW = w
		}
		if t := pointTotal(p, keys); t > maxTotal {
			maxTotal = t
		}
	}

	barW := width - labelW - 22
	if barW < 10 {
		barW = 10
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(c.Description))
	if c.Unit != "" {
		sb.WriteString(dimStyle.Render(" (" + c.Unit + ")"))
	}
	sb.WriteString("\n")

	for _, p := range c.Points {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %*s ", labelW, p.X)))
		sb.WriteString(dimStyle.Render("│"))

		drawn := 0
		for i, k := range keys {
			v, _ := p.Get(k)
			cells := scaleCells(v, maxTotal, barW)
			if drawn+cells > barW {
				cells = barW - drawn
			}
			glyph := "█"
			if i > 0 {
				glyph = "░"
			}
			sb.WriteString(seriesStyle(c.Legend[k].Color).Render(strings.Repeat(glyph, cells)))
			drawn += cells
		}
		sb.WriteString(strings.Repeat(" ", barW-drawn))

		if len(keys) > 0 {
			first, _ := p.Get(keys[0])
			sb.WriteString(valueStyle.Render(fmt.Sprintf("  %.2f / %.2f", first, pointTotal(p, keys))))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat(" ", labelW+4))
	for _, k := range keys {
		info := c.Legend[k]
		sb.WriteString(seriesStyle(info.Color).Render("■"))
		sb.WriteString(" " + labelStyle.Render(info.Label) + "  ")
	}
	sb.WriteString(dimStyle.Render(fmt.Sprintf(" %s points", humanize.Comma(int64(len(c.Points))))))
	return sb.String()
}

// pointTotal sums the non-negative series values of p.
func pointTotal(p model.MetricPoint, keys []string) float64 {
	total := 0.0
	for _, k := range keys {
		if v, ok := p.Get(k); ok && v > 0 {
			total += v
		}
	}
	return total
}

// scaleCells maps v onto 0..width cells. Negative values draw nothing.
func scaleCells(v, maxVal float64, width int) int {
	if v <= 0 || maxVal <= 0 {
		return 0
	}
	n := int(v/maxVal*float64(width) + 0.5)
	if n > width {
		n = width
	}
	return n
}
