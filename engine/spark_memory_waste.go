package engine

import (
	"golang.org/x/text/message"

	"github.com/wuzhjian/compass/model"
	"github.com/wuzhjian/compass/util"
)

// driverPoint is the x value of the driver in the executor chart.
const driverPoint = "driver"

// SparkMemoryWaste visualizes executor memory waste of a Spark application.
type SparkMemoryWaste struct{}

func (SparkMemoryWaste) Category() model.Category       { return model.CategoryMemoryWaste }
func (SparkMemoryWaste) DisplayType() model.DisplayType { return model.DisplayMemoryChart }
func (SparkMemoryWaste) Priority() int                  { return 2 }
func (SparkMemoryWaste) ShortLabel() string             { return "Spark memory waste" }

func (a SparkMemoryWaste) Analyze(result model.DetectorResult, cfg model.DetectorConfig, _ string) *model.Artifact {
	f, err := decodeAs[*model.SparkMemoryWasteFinding](result, a.Category())
	if err != nil || len(f.ExecutorPeaks) == 0 {
		return nil
	}

	chart := memoryChart("executor peak memory vs allocated memory")
	chart.XLabel = "executor id"
	chart.Points = make([]model.MetricPoint, 0, len(f.ExecutorPeaks)+1)

	var executorPeak float64
	for i, p := range f.ExecutorPeaks {
		chart.Points = append(chart.Points, point(p.ExecutorID,
			model.Value{Value: util.MBToGB(p.PeakUsedMB), Series: seriesPeak},
			model.Value{Value: util.MBToGB(f.ExecutorMemoryMB - p.PeakUsedMB), Series: seriesFree},
		))
		if i == 0 || p.PeakUsedMB > executorPeak {
			executorPeak = p.PeakUsedMB
		}
	}
	if f.HasDriverPeak {
		chart.Points = append(chart.Points, model.MetricPoint{X: driverPoint, Y: []model.Value{
			{Value: util.MBToGB(f.DriverPeakMB), Series: seriesPeak},
			{Value: util.MBToGB(f.DriverMemoryMB - f.DriverPeakMB), Series: seriesFree},
		}})
	}

	art := model.NewArtifact()
	art.Abnormal = f.Abnormal
	art.Charts = append(art.Charts, chart)
	art.Vars["wastePercent"] = util.FormatPercent(f.WastePercent)
	art.Vars["threshold"] = util.FormatPercent(cfg.MemWaste.Threshold)
	art.Vars["executorMemory"] = util.FormatMBAsGB(f.ExecutorMemoryMB)
	art.Vars["driverMemory"] = util.FormatMBAsGB(f.DriverMemoryMB)
	art.Vars["executorPeak"] = util.FormatMBAsGB(executorPeak)
	art.Vars["totalMemoryTime"] = util.FormatGBHours(util.MBMillisToGBHours(f.TotalMemoryTime))
	art.Vars["usedMemoryTime"] = util.FormatGBHours(util.MBMillisToGBHours(f.UsedMemoryTime))
	return art
}

func (SparkMemoryWaste) Explain(a *model.Artifact, p *message.Printer) string {
	return printer(p).Sprintf(sparkMemoryWasteRule,
		a.Vars["threshold"], a.Vars["wastePercent"], a.Vars["totalMemoryTime"])
}
