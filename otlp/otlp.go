// Package otlp converts diagnosis reports into OTLP metrics.
package otlp

import (
	"fmt"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/pmetric"

	"github.com/wuzhjian/compass/model"
)

const (
	scopeName = "github.com/wuzhjian/compass"

	// AbnormalMetric is 1 for an entry with an abnormal verdict, else 0.
	AbnormalMetric = "compass.diagnosis.abnormal"

	attrJobID    = "job.id"
	attrCategory = "category"
	attrTaskID   = "task.id"
	attrChart    = "chart"
)

// Metrics converts r into one resource with one gauge per entry verdict and
// one gauge per chart series. Points become data points tagged with their x
// value as task.id.
func Metrics(r *model.Report, version string, now time.Time) pmetric.Metrics {
	md := pmetric.NewMetrics()
	rm := md.ResourceMetrics().AppendEmpty()
	res := rm.Resource().Attributes()
	res.PutStr("service.name", "compass")
	res.PutStr("service.version", version)
	res.PutStr(attrJobID, r.JobID)

	sm := rm.ScopeMetrics().AppendEmpty()
	sm.Scope().SetName(scopeName)
	sm.Scope().SetVersion(version)
	ts := pcommon.NewTimestampFromTime(now)

	if len(r.Entries) > 0 {
		m := sm.Metrics().AppendEmpty()
		m.SetName(AbnormalMetric)
		m.SetDescription("diagnosis verdict per category")
		m.SetUnit("1")
		dps := m.SetEmptyGauge().DataPoints()
		for _, e := range r.Entries {
			dp := dps.AppendEmpty()
			dp.SetTimestamp(ts)
			dp.Attributes().PutStr(attrCategory, e.Category.String())
			if e.Artifact != nil && e.Artifact.Abnormal {
				dp.SetIntValue(1)
			} else {
				dp.SetIntValue(0)
			}
		}
	}

	for _, e := range r.Entries {
		if e.Artifact == nil {
			continue
		}
		for _, c := range e.Artifact.Charts {
			for _, series := range c.SeriesKeys() {
				appendSeries(sm.Metrics(), e.Category, c, series, ts)
			}
		}
	}
	return md
}

func appendSeries(ms pmetric.MetricSlice, cat model.Category, c model.Chart, series string, ts pcommon.Timestamp) {
	m := ms.AppendEmpty()
	m.SetName(fmt.Sprintf("compass.%s.%s", cat, series))
	m.SetDescription(c.Legend[series].Label)
	m.SetUnit(c.Unit)
	dps := m.SetEmptyGauge().DataPoints()
	for _, p := range c.Points {
		v, ok := p.Get(series)
		if !ok {
			continue
		}
		dp := dps.AppendEmpty()
		dp.SetTimestamp(ts)
		dp.SetDoubleValue(v)
		attrs := dp.Attributes()
		attrs.PutStr(attrCategory, cat.String())
		attrs.PutStr(attrTaskID, p.X)
		attrs.PutStr(attrChart, c.Description)
	}
}

// MarshalJSON renders r as OTLP/JSON.
func MarshalJSON(r *model.Report, version string, now time.Time) ([]byte, error) {
	m := &pmetric.JSONMarshaler{}
	return m.MarshalMetrics(Metrics(r, version, now))
}
