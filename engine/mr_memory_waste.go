package engine

import (
	"fmt"

	"golang.org/x/text/message"

	"github.com/wuzhjian/compass/model"
	"github.com/wuzhjian/compass/util"
)

// MRMemoryWaste visualizes memory waste of MapReduce map and reduce tasks:
// each task's peak memory against the container size of its family.
// The abnormal verdict and waste percentages come from upstream as-is.
type MRMemoryWaste struct{}

func (MRMemoryWaste) Category() model.Category       { return model.CategoryMRMemoryWaste }
func (MRMemoryWaste) DisplayType() model.DisplayType { return model.DisplayMemoryChart }
func (MRMemoryWaste) Priority() int                  { return 3 }
func (MRMemoryWaste) ShortLabel() string             { return "MapReduce memory waste" }

func (a MRMemoryWaste) Analyze(result model.DetectorResult, cfg model.DetectorConfig, _ string) *model.Artifact {
	f, err := decodeAs[*model.MRMemoryWasteFinding](result, a.Category())
	if err != nil {
		return nil
	}

	art := model.NewArtifact()
	for _, family := range []model.TaskFamily{model.FamilyMap, model.FamilyReduce} {
		peaks, allocatedMB := f.Peaks(family)
		chart, peakMB, ok := familyChart(family, peaks, allocatedMB)
		if !ok {
			continue
		}
		art.Charts = append(art.Charts, chart)
		art.Vars[string(family)+"Peak"] = util.FormatMBAsGB(peakMB)
	}
	if len(art.Charts) == 0 {
		return nil
	}

	art.Abnormal = f.Abnormal
	art.Vars["mapWastePercent"] = util.FormatPercent(f.MapWastePercent)
	art.Vars["reduceWastePercent"] = util.FormatPercent(f.ReduceWastePercent)
	art.Vars["mapMemory"] = util.FormatMBAsGB(f.MapMemoryMB)
	art.Vars["reduceMemory"] = util.FormatMBAsGB(f.ReduceMemoryMB)
	art.Vars["mapThreshold"] = util.FormatPercent(cfg.MRMemWaste.MapThreshold)
	art.Vars["reduceThreshold"] = util.FormatPercent(cfg.MRMemWaste.ReduceThreshold)
	return art
}

// familyChart builds one point per task with its peak and the free part of
// the family's allocation, and returns the family's maximum peak in MB.
// ok is false when the family ran no tasks.
func familyChart(family model.TaskFamily, peaks []model.TaskMemoryPeak, allocatedMB float64) (model.Chart, float64, bool) {
	if len(peaks) == 0 {
		return model.Chart{}, 0, false
	}
	chart := memoryChart(fmt.Sprintf("%s task peak memory vs allocated memory", family))
	chart.Points = make([]model.MetricPoint, 0, len(peaks))

	var familyPeak float64
	for i, p := range peaks {
		chart.Points = append(chart.Points, point(p.TaskID,
			model.Value{Value: util.MBToGB(p.PeakUsedMB), Series: seriesPeak},
			model.Value{Value: util.MBToGB(allocatedMB - p.PeakUsedMB), Series: seriesFree},
		))
		if i == 0 || p.PeakUsedMB > familyPeak {
			familyPeak = p.PeakUsedMB
		}
	}
	return chart, familyPeak, true
}

func (MRMemoryWaste) Explain(a *model.Artifact, p *message.Printer) string {
	return printer(p).Sprintf(mrMemoryWasteRule, a.Vars["mapThreshold"], a.Vars["reduceThreshold"])
}
