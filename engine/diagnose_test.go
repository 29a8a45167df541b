package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wuzhjian/compass/model"
)

func wellFormedResults(t *testing.T) []model.DetectorResult {
	t.Helper()
	return []model.DetectorResult{
		mrResult(t, map[string]any{
			"mapTaskMemPeakList":    peaks(1, 1024, 2, 2048),
			"reduceTaskMemPeakList": peaks(3, 512),
			"mapMemory":             4096,
			"reduceMemory":          1024,
			"mapWastePercent":       37.5,
			"reduceWastePercent":    50,
			"abnormal":              true,
		}),
		sparkMemResult(t, map[string]any{
			"executorPeakMemoryList": []map[string]any{{"executorId": 1, "peakUsed": 1024}},
			"executorMemory":         4096,
			"wastePercent":           10,
			"abnormal":               false,
		}),
		cpuResult(t, map[string]any{
			"executorCores":               2,
			"inJobComputeMillisAvailable": 3_600_000,
			"inJobComputeMillisUsed":      1_800_000,
			"abnormal":                    false,
		}),
	}
}

func categories(r *model.Report) []model.Category {
	var out []model.Category
	for _, e := range r.Entries {
		out = append(out, e.Category)
	}
	return out
}

func TestDiagnoseOrdersByPriority(t *testing.T) {
	d := NewDiagnoser(nil, WithLogger(zaptest.NewLogger(t)))

	report, err := d.Diagnose(context.Background(), "job_1", wellFormedResults(t), model.DefaultDetectorConfig())
	require.NoError(t, err)

	assert.Equal(t, "job_1", report.JobID)
	assert.Equal(t, []model.Category{
		model.CategoryCPUWaste,
		model.CategoryMemoryWaste,
		model.CategoryMRMemoryWaste,
	}, categories(report))
	assert.True(t, report.Abnormal())

	e, ok := report.Entry(model.CategoryMRMemoryWaste)
	require.True(t, ok)
	assert.Equal(t, model.DisplayMemoryChart, e.DisplayType)
	assert.Equal(t, "MapReduce memory waste", e.ShortLabel)
	assert.Contains(t, e.Explanation, "exceeds 50.00%")
	assert.Equal(t, "37.50%", e.Artifact.Vars["mapWastePercent"])
}

func TestDiagnosePriorityIndependentOfRegistration(t *testing.T) {
	art := model.NewArtifact()
	results := []model.DetectorResult{
		{Category: "high", Data: json.RawMessage(`{}`)},
		{Category: "low", Data: json.RawMessage(`{}`)},
	}

	orders := [][]Analyzer{
		{stubAnalyzer{cat: "high", priority: 3, art: art}, stubAnalyzer{cat: "low", priority: 1, art: art}},
		{stubAnalyzer{cat: "low", priority: 1, art: art}, stubAnalyzer{cat: "high", priority: 3, art: art}},
	}
	for _, analyzers := range orders {
		reg, err := NewRegistry(analyzers...)
		require.NoError(t, err)

		for _, parallel := range []bool{false, true} {
			report, err := NewDiagnoser(reg, WithParallel(parallel)).
				Diagnose(context.Background(), "job", results, model.DefaultDetectorConfig())
			require.NoError(t, err)
			assert.Equal(t, []model.Category{"low", "high"}, categories(report))
		}
	}
}

func TestDiagnoseTieBreakByCategory(t *testing.T) {
	art := model.NewArtifact()
	reg, err := NewRegistry(
		stubAnalyzer{cat: "zeta", priority: 1, art: art},
		stubAnalyzer{cat: "alpha", priority: 1, art: art},
	)
	require.NoError(t, err)

	report, err := NewDiagnoser(reg).Diagnose(context.Background(), "job", []model.DetectorResult{
		{Category: "zeta", Data: json.RawMessage(`{}`)},
		{Category: "alpha", Data: json.RawMessage(`{}`)},
	}, model.DefaultDetectorConfig())
	require.NoError(t, err)
	assert.Equal(t, []model.Category{"alpha", "zeta"}, categories(report))
}

func TestDiagnoseMalformedPayloadDropsOneEntry(t *testing.T) {
	d := NewDiagnoser(nil, WithLogger(zaptest.NewLogger(t)))
	cfg := model.DefaultDetectorConfig()

	good, err := d.Diagnose(context.Background(), "job", wellFormedResults(t), cfg)
	require.NoError(t, err)

	results := wellFormedResults(t)
	results[0] = model.DetectorResult{
		Category: model.CategoryMRMemoryWaste,
		Data:     json.RawMessage(`{"mapTaskMemPeakList":[{"taskId":1,"peakUsed":1}]}`),
	}
	bad, err := d.Diagnose(context.Background(), "job", results, cfg)
	require.NoError(t, err)

	assert.Len(t, bad.Entries, len(good.Entries)-1)
	_, ok := bad.Entry(model.CategoryMRMemoryWaste)
	assert.False(t, ok, "malformed category must be absent, not a placeholder")
}

func TestDiagnoseUndecodablePayload(t *testing.T) {
	d := NewDiagnoser(nil)
	report, err := d.Diagnose(context.Background(), "job", []model.DetectorResult{
		{Category: model.CategoryMRMemoryWaste, Data: json.RawMessage(`"not an object"`)},
	}, model.DefaultDetectorConfig())
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
}

func TestDiagnoseSkipsUnknownAndDuplicate(t *testing.T) {
	results := append(wellFormedResults(t),
		model.DetectorResult{Category: "gc_abnormal", Data: json.RawMessage(`{}`)},
		model.DetectorResult{Category: model.CategoryMRMemoryWaste, Data: json.RawMessage(`{}`)},
	)

	report, err := NewDiagnoser(nil, WithLogger(zaptest.NewLogger(t))).
		Diagnose(context.Background(), "job", results, model.DefaultDetectorConfig())
	require.NoError(t, err)

	assert.Len(t, report.Entries, 3)
	e, ok := report.Entry(model.CategoryMRMemoryWaste)
	require.True(t, ok)
	assert.True(t, e.Artifact.Abnormal, "first result of a category wins")
}

func TestDiagnoseNoResults(t *testing.T) {
	report, err := NewDiagnoser(nil).Diagnose(context.Background(), "job", nil, model.DefaultDetectorConfig())
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
	assert.False(t, report.Abnormal())
}

func TestDiagnoseParallelMatchesSequential(t *testing.T) {
	cfg := model.DefaultDetectorConfig()
	seq, err := NewDiagnoser(nil).Diagnose(context.Background(), "job", wellFormedResults(t), cfg)
	require.NoError(t, err)
	par, err := NewDiagnoser(nil, WithParallel(true)).Diagnose(context.Background(), "job", wellFormedResults(t), cfg)
	require.NoError(t, err)

	a, err := json.Marshal(seq)
	require.NoError(t, err)
	b, err := json.Marshal(par)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestDiagnoseContainsPanics(t *testing.T) {
	reg, err := NewRegistry(
		stubAnalyzer{cat: "bad", priority: 1, panics: true},
		stubAnalyzer{cat: "good", priority: 2, art: model.NewArtifact()},
	)
	require.NoError(t, err)

	for _, parallel := range []bool{false, true} {
		report, err := NewDiagnoser(reg, WithParallel(parallel), WithLogger(zaptest.NewLogger(t))).
			Diagnose(context.Background(), "job", []model.DetectorResult{
				{Category: "bad", Data: json.RawMessage(`{}`)},
				{Category: "good", Data: json.RawMessage(`{}`)},
			}, model.DefaultDetectorConfig())
		require.NoError(t, err)
		assert.Equal(t, []model.Category{"good"}, categories(report))
	}
}

func TestDiagnoseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDiagnoser(nil).Diagnose(ctx, "job", wellFormedResults(t), model.DefaultDetectorConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiagnoseInvalidThresholdsOmitOnlyTheirCategory(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.DetectorConfig)
		want   []model.Category
	}{
		{"cpu driver threshold", func(c *model.DetectorConfig) { c.CPUWaste.DriverThreshold = 150 },
			[]model.Category{model.CategoryMemoryWaste, model.CategoryMRMemoryWaste}},
		{"mr map threshold", func(c *model.DetectorConfig) { c.MRMemWaste.MapThreshold = 120 },
			[]model.Category{model.CategoryCPUWaste, model.CategoryMemoryWaste}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := model.DefaultDetectorConfig()
			tt.mutate(&cfg)

			report, err := NewDiagnoser(nil, WithLogger(zaptest.NewLogger(t))).
				Diagnose(context.Background(), "job", wellFormedResults(t), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, categories(report))
		})
	}
}

func TestDiagnoseInvalidCPUThresholdKeepsMREntry(t *testing.T) {
	cfg := model.DefaultDetectorConfig()
	cfg.CPUWaste.DriverThreshold = 150

	report, err := NewDiagnoser(nil).Diagnose(context.Background(), "job", wellFormedResults(t)[:1], cfg)
	require.NoError(t, err)

	e, ok := report.Entry(model.CategoryMRMemoryWaste)
	require.True(t, ok)
	assert.Equal(t, "37.50%", e.Artifact.Vars["mapWastePercent"])
}

func TestDiagnoseLanguage(t *testing.T) {
	report, err := NewDiagnoser(nil, WithLanguage("zh")).
		Diagnose(context.Background(), "job", wellFormedResults(t), model.DefaultDetectorConfig())
	require.NoError(t, err)

	e, ok := report.Entry(model.CategoryMRMemoryWaste)
	require.True(t, ok)
	assert.Contains(t, e.Explanation, "内存浪费计算规则")
}
