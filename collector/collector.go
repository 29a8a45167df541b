package collector

import (
	"context"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wuzhjian/compass/model"
)

// Collector is the interface for all detector result sources.
type Collector interface {
	Name() string
	Collect(ctx context.Context, jobID string) ([]model.DetectorResult, error)
}

// Registry holds all registered collectors.
type Registry struct {
	collectors []Collector
	logger     *zap.Logger
}

// NewRegistry creates a registry over cs. A nil logger logs nothing.
func NewRegistry(logger *zap.Logger, cs ...Collector) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{collectors: cs, logger: logger}
}

// Add registers an additional collector.
func (r *Registry) Add(c Collector) {
	r.collectors = append(r.collectors, c)
}

// Len returns the number of registered collectors.
func (r *Registry) Len() int { return len(r.collectors) }

// CollectAll runs all collectors in registration order and concatenates
// their results. A failing collector does not stop the others; the
// returned error combines every failure and the results gathered so far
// are still returned.
func (r *Registry) CollectAll(ctx context.Context, jobID string) ([]model.DetectorResult, error) {
	var (
		out  []model.DetectorResult
		errs error
	)
	for _, c := range r.collectors {
		if err := ctx.Err(); err != nil {
			return out, multierr.Append(errs, err)
		}
		res, err := c.Collect(ctx, jobID)
		if err != nil {
			r.logger.Warn("Collector failed", zap.String("collector", c.Name()), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		r.logger.Debug("Collected detector results",
			zap.String("collector", c.Name()),
			zap.String("job_id", jobID),
			zap.Int("results", len(res)))
		out = append(out, res...)
	}
	return out, errs
}

// Close closes every collector that holds resources.
func (r *Registry) Close() error {
	var errs error
	for _, c := range r.collectors {
		if cl, ok := c.(io.Closer); ok {
			errs = multierr.Append(errs, cl.Close())
		}
	}
	return errs
}
