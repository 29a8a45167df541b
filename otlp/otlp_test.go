package otlp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/pdata/pmetric"

	"github.com/wuzhjian/compass/model"
)

func sampleReport() *model.Report {
	chart := model.Chart{
		Description: "map task peak memory vs allocated memory",
		Unit:        "GB",
		Legend: map[string]model.SeriesInfo{
			"peak": {Label: "peak memory", Color: model.ColorKey},
			"free": {Label: "free memory", Color: model.ColorPlain},
		},
		Points: []model.MetricPoint{
			{X: "1", Y: []model.Value{{Value: 1, Series: "peak"}, {Value: 3, Series: "free"}}},
			{X: "2", Y: []model.Value{{Value: 2, Series: "peak"}, {Value: 2, Series: "free"}}},
		},
	}
	return &model.Report{JobID: "job_1", Entries: []model.ReportEntry{
		{Category: model.CategoryCPUWaste, Artifact: model.NewArtifact()},
		{Category: model.CategoryMRMemoryWaste, Artifact: &model.Artifact{Abnormal: true, Charts: []model.Chart{chart}}},
	}}
}

func TestMetrics(t *testing.T) {
	now := time.Unix(1700000000, 0)
	md := Metrics(sampleReport(), "1.0.0", now)

	require.Equal(t, 1, md.ResourceMetrics().Len())
	rm := md.ResourceMetrics().At(0)
	job, ok := rm.Resource().Attributes().Get("job.id")
	require.True(t, ok)
	assert.Equal(t, "job_1", job.Str())

	ms := rm.ScopeMetrics().At(0).Metrics()
	require.Equal(t, 3, ms.Len())

	abnormal := ms.At(0)
	assert.Equal(t, AbnormalMetric, abnormal.Name())
	assert.Equal(t, pmetric.MetricTypeGauge, abnormal.Type())
	dps := abnormal.Gauge().DataPoints()
	require.Equal(t, 2, dps.Len())
	assert.Equal(t, int64(0), dps.At(0).IntValue())
	assert.Equal(t, int64(1), dps.At(1).IntValue())

	peak := ms.At(1)
	assert.Equal(t, "compass.mr_memory_waste.peak", peak.Name())
	assert.Equal(t, "GB", peak.Unit())
	pdps := peak.Gauge().DataPoints()
	require.Equal(t, 2, pdps.Len())
	assert.Equal(t, 2.0, pdps.At(1).DoubleValue())
	task, ok := pdps.At(1).Attributes().Get("task.id")
	require.True(t, ok)
	assert.Equal(t, "2", task.Str())
	assert.Equal(t, now.UnixNano(), int64(pdps.At(1).Timestamp()))

	assert.Equal(t, "compass.mr_memory_waste.free", ms.At(2).Name())
	assert.Equal(t, 6, md.DataPointCount())
}

func TestMetricsEmptyReport(t *testing.T) {
	md := Metrics(&model.Report{JobID: "job"}, "dev", time.Now())
	assert.Equal(t, 0, md.MetricCount())
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(sampleReport(), "1.0.0", time.Unix(1700000000, 0))
	require.NoError(t, err)

	md, err := (&pmetric.JSONUnmarshaler{}).UnmarshalMetrics(data)
	require.NoError(t, err)
	assert.Equal(t, 3, md.MetricCount())
	assert.Equal(t, 6, md.DataPointCount())
}
