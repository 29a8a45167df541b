package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFindingMR(t *testing.T) {
	f, err := DecodeFinding(DetectorResult{
		Category: CategoryMRMemoryWaste,
		Data: json.RawMessage(`{
			"mapTaskMemPeakList": [{"taskId": 1, "peakUsed": 1024}, {"taskId": 2, "peakUsed": 2048}],
			"reduceTaskMemPeakList": null,
			"mapMemory": 4096,
			"reduceMemory": 8192,
			"mapWastePercent": 37.5,
			"reduceWastePercent": null,
			"abnormal": true
		}`),
	})
	require.NoError(t, err)

	mr, ok := f.(*MRMemoryWasteFinding)
	require.True(t, ok)
	assert.Equal(t, CategoryMRMemoryWaste, mr.Category())
	assert.Equal(t, []TaskMemoryPeak{{TaskID: 1, PeakUsedMB: 1024}, {TaskID: 2, PeakUsedMB: 2048}}, mr.MapTaskPeaks)
	assert.Empty(t, mr.ReduceTaskPeaks)
	assert.Equal(t, 37.5, mr.MapWastePercent)
	assert.Zero(t, mr.ReduceWastePercent)
	assert.True(t, mr.Abnormal)

	list, alloc := mr.Peaks(FamilyReduce)
	assert.Empty(t, list)
	assert.Equal(t, 8192.0, alloc)
	list, alloc = mr.Peaks(FamilyMap)
	assert.Len(t, list, 2)
	assert.Equal(t, 4096.0, alloc)
}

func TestDecodeFindingErrors(t *testing.T) {
	tests := []struct {
		name    string
		res     DetectorResult
		wantErr error
	}{
		{"empty payload", DetectorResult{Category: CategoryCPUWaste}, ErrMalformedPayload},
		{"unknown category", DetectorResult{Category: "gc_abnormal", Data: json.RawMessage(`{}`)}, ErrUnknownCategory},
		{"not json", DetectorResult{Category: CategoryMRMemoryWaste, Data: json.RawMessage(`{`)}, ErrMalformedPayload},
		{"wrong type", DetectorResult{
			Category: CategoryMRMemoryWaste,
			Data:     json.RawMessage(`{"mapMemory":"4G","reduceMemory":1,"abnormal":false}`),
		}, ErrMalformedPayload},
		{"mr missing abnormal", DetectorResult{
			Category: CategoryMRMemoryWaste,
			Data:     json.RawMessage(`{"mapMemory":1,"reduceMemory":1}`),
		}, ErrMissingField},
		{"mr null reduceMemory", DetectorResult{
			Category: CategoryMRMemoryWaste,
			Data:     json.RawMessage(`{"mapMemory":1,"reduceMemory":null,"abnormal":false}`),
		}, ErrMissingField},
		{"mr task without id", DetectorResult{
			Category: CategoryMRMemoryWaste,
			Data:     json.RawMessage(`{"reduceTaskMemPeakList":[{"peakUsed":1}],"mapMemory":1,"reduceMemory":1,"abnormal":false}`),
		}, ErrMissingField},
		{"spark executor without peak", DetectorResult{
			Category: CategoryMemoryWaste,
			Data:     json.RawMessage(`{"executorPeakMemoryList":[{"executorId":1}],"executorMemory":1,"abnormal":false}`),
		}, ErrMissingField},
		{"cpu job without id", DetectorResult{
			Category: CategoryCPUWaste,
			Data:     json.RawMessage(`{"executorCores":1,"inJobComputeMillisAvailable":1,"jobComputeList":[{"usedMillis":1}],"abnormal":false}`),
		}, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := DecodeFinding(tt.res)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, f)
		})
	}
}

func TestDecodeFindingSpark(t *testing.T) {
	f, err := DecodeFinding(DetectorResult{
		Category: CategoryMemoryWaste,
		Data:     json.RawMessage(`{"executorPeakMemoryList":[{"executorId":3,"peakUsed":10}],"executorMemory":1024,"driverPeakMemory":null,"abnormal":false}`),
	})
	require.NoError(t, err)
	mem := f.(*SparkMemoryWasteFinding)
	assert.False(t, mem.HasDriverPeak)
	assert.Zero(t, mem.DriverMemoryMB)
	assert.Equal(t, []ExecutorMemoryPeak{{ExecutorID: 3, PeakUsedMB: 10}}, mem.ExecutorPeaks)

	f, err = DecodeFinding(DetectorResult{
		Category: CategoryCPUWaste,
		Data:     json.RawMessage(`{"executorCores":8,"inJobComputeMillisAvailable":100,"jobComputeList":[{"jobId":4}],"abnormal":true}`),
	})
	require.NoError(t, err)
	cpu := f.(*CPUWasteFinding)
	assert.Equal(t, 8, cpu.ExecutorCores)
	assert.Zero(t, cpu.UsedMillis)
	assert.Equal(t, []JobCompute{{JobID: 4}}, cpu.Jobs)
}

func TestDetectorConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DetectorConfig)
		wantErr bool
	}{
		{"defaults", func(*DetectorConfig) {}, false},
		{"bounds inclusive", func(c *DetectorConfig) {
			c.MRMemWaste.MapThreshold = 0
			c.MRMemWaste.ReduceThreshold = 100
		}, false},
		{"negative", func(c *DetectorConfig) { c.MemWaste.Threshold = -1 }, true},
		{"above 100", func(c *DetectorConfig) { c.CPUWaste.DriverThreshold = 100.5 }, true},
		{"NaN", func(c *DetectorConfig) { c.CPUWaste.ExecutorThreshold = math.NaN() }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDetectorConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidThreshold)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDetectorConfigValidateCategory(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.CPUWaste.DriverThreshold = 150

	assert.NoError(t, cfg.ValidateCategory(CategoryMRMemoryWaste))
	assert.NoError(t, cfg.ValidateCategory(CategoryMemoryWaste))
	assert.NoError(t, cfg.ValidateCategory("gc_abnormal"))
	assert.ErrorIs(t, cfg.ValidateCategory(CategoryCPUWaste), ErrInvalidThreshold)
	assert.ErrorContains(t, cfg.Validate(), "cpu_waste.driver_threshold=150")
}

func TestReport(t *testing.T) {
	r := &Report{JobID: "job", Entries: []ReportEntry{
		{Category: CategoryCPUWaste, Artifact: NewArtifact()},
		{Category: CategoryMRMemoryWaste, Artifact: &Artifact{Abnormal: true}},
	}}
	assert.True(t, r.Abnormal())

	e, ok := r.Entry(CategoryMRMemoryWaste)
	require.True(t, ok)
	assert.True(t, e.Artifact.Abnormal)
	_, ok = r.Entry(CategoryMemoryWaste)
	assert.False(t, ok)

	r.Entries = r.Entries[:1]
	assert.False(t, r.Abnormal())
}

func TestSeriesKeys(t *testing.T) {
	c := Chart{Legend: map[string]SeriesInfo{
		"idle": {Label: "idle", Color: ColorPlain},
		"used": {Label: "used", Color: ColorKey},
		"free": {Label: "free", Color: ColorPlain},
	}}
	assert.Equal(t, []string{"used", "free", "idle"}, c.SeriesKeys())

	p := MetricPoint{X: "1", Y: []Value{{Value: 2, Series: "used"}}}
	v, ok := p.Get("used")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	_, ok = p.Get("idle")
	assert.False(t, ok)
}
