package model

import "sort"

// Series display colors shared by every chart.
const (
	ColorKey   = "#E15554" // the series the chart is about (peak, used)
	ColorPlain = "#3BB273" // the remainder (free, idle)
)

// SeriesInfo is the legend entry for one series.
type SeriesInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Value is one y value of a point, tagged with its series key.
type Value struct {
	Value  float64 `json:"value"`
	Series string  `json:"series"`
}

// MetricPoint is one x category with a value for every series present there.
type MetricPoint struct {
	X string  `json:"x"`
	Y []Value `json:"y"`
}

// Get returns the value of series at this point.
func (p MetricPoint) Get(series string) (float64, bool) {
	for _, v := range p.Y {
		if v.Series == series {
			return v.Value, true
		}
	}
	return 0, false
}

// Chart is a 2-D categorical chart with grouped y series.
type Chart struct {
	Description string                `json:"description"`
	Unit        string                `json:"unit"`
	XLabel      string                `json:"x_label"`
	YLabel      string                `json:"y_label"`
	Legend      map[string]SeriesInfo `json:"legend"`
	Points      []MetricPoint         `json:"points"`
}

// SeriesKeys returns the legend keys in a stable order: key color first.
func (c *Chart) SeriesKeys() []string {
	var key, rest []string
	for k, info := range c.Legend {
		if info.Color == ColorKey {
			key = append(key, k)
		} else {
			rest = append(rest, k)
		}
	}
	sort.Strings(key)
	sort.Strings(rest)
	return append(key, rest...)
}
