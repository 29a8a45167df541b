package model

import "fmt"

// TaskMemoryPeak is the peak memory one executed task instance used.
type TaskMemoryPeak struct {
	TaskID     int64   `json:"taskId"`
	PeakUsedMB float64 `json:"peakUsed"`
}

// MRMemoryWasteFinding is the mr_memory_waste payload. Allocations are the
// fixed per-task container size of each family, in MB.
type MRMemoryWasteFinding struct {
	MapTaskPeaks       []TaskMemoryPeak
	ReduceTaskPeaks    []TaskMemoryPeak
	MapMemoryMB        float64
	ReduceMemoryMB     float64
	MapWastePercent    float64
	ReduceWastePercent float64
	Abnormal           bool
}

func (MRMemoryWasteFinding) Category() Category { return CategoryMRMemoryWaste }

// Peaks returns the peak list and per-task allocation for one family.
func (f *MRMemoryWasteFinding) Peaks(family TaskFamily) ([]TaskMemoryPeak, float64) {
	if family == FamilyReduce {
		return f.ReduceTaskPeaks, f.ReduceMemoryMB
	}
	return f.MapTaskPeaks, f.MapMemoryMB
}

type taskPeakWire struct {
	TaskID   *int64   `json:"taskId"`
	PeakUsed *float64 `json:"peakUsed"`
}

type mrMemoryWasteWire struct {
	MapTaskMemPeakList    []taskPeakWire `json:"mapTaskMemPeakList"`
	ReduceTaskMemPeakList []taskPeakWire `json:"reduceTaskMemPeakList"`
	MapMemory             *float64       `json:"mapMemory"`
	ReduceMemory          *float64       `json:"reduceMemory"`
	MapWastePercent       *float64       `json:"mapWastePercent"`
	ReduceWastePercent    *float64       `json:"reduceWastePercent"`
	Abnormal              *bool          `json:"abnormal"`
}

func decodeMRMemoryWaste(data []byte) (Finding, error) {
	const c = CategoryMRMemoryWaste
	var w mrMemoryWasteWire
	if err := unmarshalPayload(c, data, &w); err != nil {
		return nil, err
	}
	switch {
	case w.MapMemory == nil:
		return nil, missing(c, "mapMemory")
	case w.ReduceMemory == nil:
		return nil, missing(c, "reduceMemory")
	case w.Abnormal == nil:
		return nil, missing(c, "abnormal")
	}

	mapPeaks, err := taskPeaks(w.MapTaskMemPeakList, "mapTaskMemPeakList")
	if err != nil {
		return nil, err
	}
	reducePeaks, err := taskPeaks(w.ReduceTaskMemPeakList, "reduceTaskMemPeakList")
	if err != nil {
		return nil, err
	}

	return &MRMemoryWasteFinding{
		MapTaskPeaks:       mapPeaks,
		ReduceTaskPeaks:    reducePeaks,
		MapMemoryMB:        *w.MapMemory,
		ReduceMemoryMB:     *w.ReduceMemory,
		MapWastePercent:    orZero(w.MapWastePercent),
		ReduceWastePercent: orZero(w.ReduceWastePercent),
		Abnormal:           *w.Abnormal,
	}, nil
}

func taskPeaks(in []taskPeakWire, field string) ([]TaskMemoryPeak, error) {
	out := make([]TaskMemoryPeak, 0, len(in))
	for i, p := range in {
		if p.TaskID == nil {
			return nil, missing(CategoryMRMemoryWaste, fmt.Sprintf("%s[%d].taskId", field, i))
		}
		if p.PeakUsed == nil {
			return nil, missing(CategoryMRMemoryWaste, fmt.Sprintf("%s[%d].peakUsed", field, i))
		}
		out = append(out, TaskMemoryPeak{TaskID: *p.TaskID, PeakUsedMB: *p.PeakUsed})
	}
	return out, nil
}
