package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"

	"github.com/wuzhjian/compass/model"
)

// Diagnoser runs the registered analyzers over a job's detector results and
// assembles the ordered report. It holds no per-request state and is safe
// for concurrent use.
type Diagnoser struct {
	registry *Registry
	logger   *zap.Logger
	printer  *message.Printer
	parallel bool
}

// Option configures a Diagnoser.
type Option func(*Diagnoser)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Diagnoser) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithLanguage sets the explanation language ("en", "zh").
func WithLanguage(lang string) Option {
	return func(d *Diagnoser) { d.printer = NewPrinter(lang) }
}

// WithParallel runs analyzers of one request concurrently. The report is
// identical to a sequential run.
func WithParallel(on bool) Option {
	return func(d *Diagnoser) { d.parallel = on }
}

// NewDiagnoser creates a diagnoser over reg, or over DefaultRegistry when
// reg is nil.
func NewDiagnoser(reg *Registry, opts ...Option) *Diagnoser {
	if reg == nil {
		reg = DefaultRegistry()
	}
	d := &Diagnoser{
		registry: reg,
		logger:   zap.NewNop(),
		printer:  english,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the analyzers this diagnoser runs.
func (d *Diagnoser) Registry() *Registry { return d.registry }

type task struct {
	analyzer Analyzer
	result   model.DetectorResult
}

// Diagnose produces the report for jobID. A category whose analyzer returns
// no artifact, or whose thresholds in cfg are invalid, is left out; it never
// aborts the others. The only error is cancellation of ctx.
func (d *Diagnoser) Diagnose(ctx context.Context, jobID string, results []model.DetectorResult, cfg model.DetectorConfig) (*model.Report, error) {
	log := d.logger.With(zap.String("job_id", jobID))

	tasks := d.match(log, results)
	slots := make([]*model.ReportEntry, len(tasks))

	if d.parallel && len(tasks) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for i, t := range tasks {
			i, t := i, t
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				slots[i] = d.run(log, t, cfg, jobID)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, t := range tasks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			slots[i] = d.run(log, t, cfg, jobID)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &model.Report{JobID: jobID, Entries: make([]model.ReportEntry, 0, len(slots))}
	for _, e := range slots {
		if e != nil {
			report.Entries = append(report.Entries, *e)
		}
	}
	// slots follow registry order, so entries are already sorted.

	log.Debug("Diagnosis assembled",
		zap.Int("results", len(results)),
		zap.Int("entries", len(report.Entries)),
		zap.Bool("abnormal", report.Abnormal()))
	return report, nil
}

// match pairs every registered analyzer with its category's result. The
// first result of a category wins.
func (d *Diagnoser) match(log *zap.Logger, results []model.DetectorResult) []task {
	byCat := make(map[model.Category]model.DetectorResult, len(results))
	for _, r := range results {
		if _, ok := d.registry.Lookup(r.Category); !ok {
			log.Debug("No analyzer registered for category", zap.String("category", r.Category.String()))
			continue
		}
		if _, dup := byCat[r.Category]; dup {
			log.Warn("Duplicate detector result ignored", zap.String("category", r.Category.String()))
			continue
		}
		byCat[r.Category] = r
	}

	tasks := make([]task, 0, len(byCat))
	for _, a := range d.registry.analyzers {
		if r, ok := byCat[a.Category()]; ok {
			tasks = append(tasks, task{analyzer: a, result: r})
		}
	}
	return tasks
}

// run invokes one analyzer. A panicking analyzer is contained and its
// category omitted.
func (d *Diagnoser) run(log *zap.Logger, t task, cfg model.DetectorConfig, jobID string) (entry *model.ReportEntry) {
	a := t.analyzer
	log = log.With(zap.String("category", a.Category().String()))
	defer func() {
		if r := recover(); r != nil {
			log.Error("Analyzer panicked", zap.Any("panic", r))
			entry = nil
		}
	}()

	if err := cfg.ValidateCategory(a.Category()); err != nil {
		log.Warn("Skipping category with invalid thresholds", zap.Error(err))
		return nil
	}

	art := a.Analyze(t.result, cfg, jobID)
	if art == nil {
		if ce := log.Check(zap.DebugLevel, "Analyzer produced no artifact"); ce != nil {
			_, err := model.DecodeFinding(t.result)
			ce.Write(zap.NamedError("decode", err))
		}
		return nil
	}
	return &model.ReportEntry{
		Category:    a.Category(),
		DisplayType: a.DisplayType(),
		ShortLabel:  a.ShortLabel(),
		Explanation: a.Explain(art, d.printer),
		Priority:    a.Priority(),
		Artifact:    art,
	}
}
