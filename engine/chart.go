package engine

import (
	"strconv"

	"github.com/wuzhjian/compass/model"
)

// Series keys used across analyzers.
const (
	seriesPeak = "peak"
	seriesFree = "free"
	seriesUsed = "used"
	seriesIdle = "idle"
)

// newChart returns a chart with a two-series legend: key is the series the
// chart is about, plain is the remainder.
func newChart(desc, unit, x, y string, key, keyLabel, plain, plainLabel string) model.Chart {
	return model.Chart{
		Description: desc,
		Unit:        unit,
		XLabel:      x,
		YLabel:      y,
		Legend: map[string]model.SeriesInfo{
			key:   {Label: keyLabel, Color: model.ColorKey},
			plain: {Label: plainLabel, Color: model.ColorPlain},
		},
	}
}

// memoryChart builds the peak vs free chart shared by the memory analyzers.
func memoryChart(desc string) model.Chart {
	return newChart(desc, "GB", "task id", "memory", seriesPeak, "peak memory", seriesFree, "free memory")
}

func point(x int64, values ...model.Value) model.MetricPoint {
	return model.MetricPoint{X: strconv.FormatInt(x, 10), Y: values}
}
