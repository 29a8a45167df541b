package engine

import (
	"strconv"

	"golang.org/x/text/message"

	"github.com/wuzhjian/compass/model"
	"github.com/wuzhjian/compass/util"
)

// SparkCPUWaste visualizes idle executor cores of a Spark application, job by
// job.
type SparkCPUWaste struct{}

func (SparkCPUWaste) Category() model.Category       { return model.CategoryCPUWaste }
func (SparkCPUWaste) DisplayType() model.DisplayType { return model.DisplayCPUChart }
func (SparkCPUWaste) Priority() int                  { return 1 }
func (SparkCPUWaste) ShortLabel() string             { return "Spark CPU waste" }

func (a SparkCPUWaste) Analyze(result model.DetectorResult, cfg model.DetectorConfig, _ string) *model.Artifact {
	f, err := decodeAs[*model.CPUWasteFinding](result, a.Category())
	if err != nil || f.AvailableMillis <= 0 {
		return nil
	}

	art := model.NewArtifact()
	art.Abnormal = f.Abnormal

	if len(f.Jobs) > 0 {
		chart := newChart("used vs idle core-hours per job", "h", "job id", "core-hours",
			seriesUsed, "used compute", seriesIdle, "idle compute")
		chart.Points = make([]model.MetricPoint, 0, len(f.Jobs))
		for _, j := range f.Jobs {
			chart.Points = append(chart.Points, point(j.JobID,
				model.Value{Value: util.MillisToHours(j.UsedMillis), Series: seriesUsed},
				model.Value{Value: util.MillisToHours(util.Remaining(j.AvailableMillis, j.UsedMillis)), Series: seriesIdle},
			))
		}
		art.Charts = append(art.Charts, chart)
	}

	art.Vars["executorWastePercent"] = util.FormatPercent(f.ExecutorWastePercent)
	art.Vars["driverWastePercent"] = util.FormatPercent(f.DriverWastePercent)
	art.Vars["executorThreshold"] = util.FormatPercent(cfg.CPUWaste.ExecutorThreshold)
	art.Vars["driverThreshold"] = util.FormatPercent(cfg.CPUWaste.DriverThreshold)
	art.Vars["executorCores"] = strconv.Itoa(f.ExecutorCores)
	art.Vars["availableCoreHours"] = util.FormatHours(util.MillisToHours(f.AvailableMillis))
	art.Vars["usedCoreHours"] = util.FormatHours(util.MillisToHours(f.UsedMillis))
	art.Vars["usedPercent"] = util.FormatPercent(util.Percent(f.UsedMillis, f.AvailableMillis))
	return art
}

func (SparkCPUWaste) Explain(a *model.Artifact, p *message.Printer) string {
	return printer(p).Sprintf(cpuWasteRule,
		a.Vars["executorThreshold"], a.Vars["driverThreshold"],
		a.Vars["executorWastePercent"], a.Vars["driverWastePercent"])
}
