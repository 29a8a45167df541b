package model

import "fmt"

// ExecutorMemoryPeak is the peak memory a Spark executor used, in MB.
type ExecutorMemoryPeak struct {
	ExecutorID int64   `json:"executorId"`
	PeakUsedMB float64 `json:"peakUsed"`
}

// SparkMemoryWasteFinding is the memory_waste payload for Spark applications.
// Memory-time totals are MB·ms as computed upstream.
type SparkMemoryWasteFinding struct {
	ExecutorPeaks    []ExecutorMemoryPeak
	DriverPeakMB     float64
	HasDriverPeak    bool
	ExecutorMemoryMB float64
	DriverMemoryMB   float64
	TotalMemoryTime  float64
	UsedMemoryTime   float64
	WastePercent     float64
	Abnormal         bool
}

func (SparkMemoryWasteFinding) Category() Category { return CategoryMemoryWaste }

type executorPeakWire struct {
	ExecutorID *int64   `json:"executorId"`
	PeakUsed   *float64 `json:"peakUsed"`
}

type sparkMemoryWasteWire struct {
	ExecutorPeakMemoryList []executorPeakWire `json:"executorPeakMemoryList"`
	DriverPeakMemory       *float64           `json:"driverPeakMemory"`
	ExecutorMemory         *float64           `json:"executorMemory"`
	DriverMemory           *float64           `json:"driverMemory"`
	TotalMemoryTime        *float64           `json:"totalMemoryTime"`
	TotalMemoryComputeTime *float64           `json:"totalMemoryComputeTime"`
	WastePercent           *float64           `json:"wastePercent"`
	Abnormal               *bool              `json:"abnormal"`
}

func decodeSparkMemoryWaste(data []byte) (Finding, error) {
	const c = CategoryMemoryWaste
	var w sparkMemoryWasteWire
	if err := unmarshalPayload(c, data, &w); err != nil {
		return nil, err
	}
	switch {
	case w.ExecutorMemory == nil:
		return nil, missing(c, "executorMemory")
	case w.Abnormal == nil:
		return nil, missing(c, "abnormal")
	}

	peaks := make([]ExecutorMemoryPeak, 0, len(w.ExecutorPeakMemoryList))
	for i, p := range w.ExecutorPeakMemoryList {
		if p.ExecutorID == nil || p.PeakUsed == nil {
			return nil, missing(c, fmt.Sprintf("executorPeakMemoryList[%d]", i))
		}
		peaks = append(peaks, ExecutorMemoryPeak{ExecutorID: *p.ExecutorID, PeakUsedMB: *p.PeakUsed})
	}

	return &SparkMemoryWasteFinding{
		ExecutorPeaks:    peaks,
		DriverPeakMB:     orZero(w.DriverPeakMemory),
		HasDriverPeak:    w.DriverPeakMemory != nil,
		ExecutorMemoryMB: *w.ExecutorMemory,
		DriverMemoryMB:   orZero(w.DriverMemory),
		TotalMemoryTime:  orZero(w.TotalMemoryTime),
		UsedMemoryTime:   orZero(w.TotalMemoryComputeTime),
		WastePercent:     orZero(w.WastePercent),
		Abnormal:         *w.Abnormal,
	}, nil
}

// JobCompute is the compute time one Spark job had available and used, in
// core-milliseconds.
type JobCompute struct {
	JobID           int64   `json:"jobId"`
	UsedMillis      float64 `json:"usedMillis"`
	AvailableMillis float64 `json:"availableMillis"`
}

// CPUWasteFinding is the cpu_waste payload for Spark applications.
type CPUWasteFinding struct {
	ExecutorCores        int
	AvailableMillis      float64
	UsedMillis           float64
	ExecutorWastePercent float64
	DriverWastePercent   float64
	Jobs                 []JobCompute
	Abnormal             bool
}

func (CPUWasteFinding) Category() Category { return CategoryCPUWaste }

type jobComputeWire struct {
	JobID           *int64   `json:"jobId"`
	UsedMillis      *float64 `json:"usedMillis"`
	AvailableMillis *float64 `json:"availableMillis"`
}

type cpuWasteWire struct {
	ExecutorCores               *int             `json:"executorCores"`
	InJobComputeMillisAvailable *float64         `json:"inJobComputeMillisAvailable"`
	InJobComputeMillisUsed      *float64         `json:"inJobComputeMillisUsed"`
	ExecutorWastePercent        *float64         `json:"executorWastePercent"`
	DriverWastePercent          *float64         `json:"driverWastePercent"`
	JobComputeList              []jobComputeWire `json:"jobComputeList"`
	Abnormal                    *bool            `json:"abnormal"`
}

func decodeCPUWaste(data []byte) (Finding, error) {
	const c = CategoryCPUWaste
	var w cpuWasteWire
	if err := unmarshalPayload(c, data, &w); err != nil {
		return nil, err
	}
	switch {
	case w.ExecutorCores == nil:
		return nil, missing(c, "executorCores")
	case w.InJobComputeMillisAvailable == nil:
		return nil, missing(c, "inJobComputeMillisAvailable")
	case w.Abnormal == nil:
		return nil, missing(c, "abnormal")
	}

	jobs := make([]JobCompute, 0, len(w.JobComputeList))
	for i, j := range w.JobComputeList {
		if j.JobID == nil {
			return nil, missing(c, fmt.Sprintf("jobComputeList[%d].jobId", i))
		}
		jobs = append(jobs, JobCompute{
			JobID:           *j.JobID,
			UsedMillis:      orZero(j.UsedMillis),
			AvailableMillis: orZero(j.AvailableMillis),
		})
	}

	return &CPUWasteFinding{
		ExecutorCores:        *w.ExecutorCores,
		AvailableMillis:      *w.InJobComputeMillisAvailable,
		UsedMillis:           orZero(w.InJobComputeMillisUsed),
		ExecutorWastePercent: orZero(w.ExecutorWastePercent),
		DriverWastePercent:   orZero(w.DriverWastePercent),
		Jobs:                 jobs,
		Abnormal:             *w.Abnormal,
	}, nil
}
