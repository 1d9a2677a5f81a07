package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kilianp07/yardplan/config"
	"github.com/kilianp07/yardplan/core/constraints"
	coremetrics "github.com/kilianp07/yardplan/core/metrics"
	"github.com/kilianp07/yardplan/core/plan"
	"github.com/kilianp07/yardplan/core/schedule"
	"github.com/kilianp07/yardplan/core/solver"
	"github.com/kilianp07/yardplan/core/yard"
	"github.com/kilianp07/yardplan/infra/dzn"
	"github.com/kilianp07/yardplan/infra/logger"
	"github.com/kilianp07/yardplan/infra/metrics"
	"github.com/kilianp07/yardplan/infra/minizinc"
	"github.com/kilianp07/yardplan/infra/runlog"
	"github.com/kilianp07/yardplan/pkg/export"
)

// Pipeline runs a shunting plan through expansion, modelling, solving and
// decoding.
type Pipeline struct {
	cfg      *config.Config
	solver   solver.Solver
	recorder coremetrics.Recorder
	prom     *metrics.PromRecorder
	store    runlog.Store
	outputs  []export.Output
	log      logger.Logger
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithSolver replaces the minizinc runner.
func WithSolver(s solver.Solver) Option { return func(p *Pipeline) { p.solver = s } }

// WithRecorder adds a metrics recorder next to the configured one.
func WithRecorder(r coremetrics.Recorder) Option {
	return func(p *Pipeline) { p.recorder = coremetrics.MultiRecorder{p.recorder, r} }
}

// WithStore replaces the run history store.
func WithStore(s runlog.Store) Option { return func(p *Pipeline) { p.store = s } }

// WithLogger replaces the pipeline logger.
func WithLogger(l logger.Logger) Option { return func(p *Pipeline) { p.log = l } }

// New creates a Pipeline from the configuration.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg:      cfg,
		solver:   minizinc.NewRunner(cfg.Solver, logger.New("minizinc")),
		recorder: coremetrics.NopRecorder{},
		store:    runlog.NopStore{},
		log:      logger.New("pipeline"),
	}
	if cfg.Metrics.TextfilePath != "" {
		prom, err := metrics.NewPromRecorder()
		if err != nil {
			return nil, fmt.Errorf("prom recorder: %w", err)
		}
		p.prom = prom
		p.recorder = prom
	}
	if cfg.RunLog.Path != "" {
		store, err := runlog.NewJSONLStore(cfg.RunLog.Path)
		if err != nil {
			return nil, fmt.Errorf("run log: %w", err)
		}
		p.store = store
	}
	outputs, err := export.Registry.CreateAll(cfg.Schedule.Outputs)
	if err != nil {
		return nil, fmt.Errorf("outputs: %w", err)
	}
	p.outputs = outputs
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.NopLogger{}
	}
	return p, nil
}

func (p *Pipeline) stage(name string, start time.Time, err error) {
	p.recorder.RecordStage(name, time.Since(start), err)
}

// Expand rewrites the plan at planPath into adjacent hops when a yard is
// configured and returns the path of the plan to model. Without a yard the
// plan is used as written.
func (p *Pipeline) Expand(ctx context.Context, planPath string) (path string, err error) {
	if p.cfg.Yard.Path == "" {
		return planPath, nil
	}
	defer func(start time.Time) { p.stage(coremetrics.StageExpand, start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return "", err
	}
	desc, err := yard.LoadDescription(p.cfg.Yard.Path)
	if err != nil {
		return "", fmt.Errorf("load yard: %w", err)
	}
	g, err := yard.NewGraph(desc, yard.NewAliases(p.cfg.Yard.Aliases))
	if err != nil {
		return "", fmt.Errorf("build yard graph: %w", err)
	}
	p.log.Debugw("yard graph built", map[string]any{"nodes": g.Len()})
	lines, err := readLines(planPath)
	if err != nil {
		return "", err
	}
	out, err := yard.NewExpander(g, logger.New("expander")).Expand(lines)
	if err != nil {
		return "", err
	}
	path = p.cfg.Yard.ExpandedPlanPath
	if err := writeLines(path, out); err != nil {
		return "", err
	}
	p.log.Debugf("expanded plan written to %s", path)
	return path, nil
}

// BuildModel parses the plan, derives the ordering constraints and writes
// the solver data file.
func (p *Pipeline) BuildModel(ctx context.Context, planPath string) (*plan.Model, *constraints.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	start := time.Now()
	m, err := parsePlan(planPath)
	p.stage(coremetrics.StageParse, start, err)
	if err != nil {
		return nil, nil, err
	}
	p.log.Infow("plan parsed", m.Stats())

	start = time.Now()
	set := constraints.NewDeriver(constraints.Options{TurnsIncluded: p.cfg.Plan.TurnsIncluded}, logger.New("deriver")).Derive(m)
	p.stage(coremetrics.StageDerive, start, nil)
	p.recorder.RecordModel(coremetrics.ModelStats{
		Tracks:      len(m.Tracks()),
		Trains:      len(m.Trains()),
		Movements:   len(m.Movements()),
		Constraints: set.Counts(),
	})

	start = time.Now()
	durations := constraints.Durations(m, constraints.ConstantDuration(p.cfg.Model.DefaultDuration))
	data := dzn.FromModel(m, set, durations, p.cfg.Plan.NumDrivers, p.cfg.Model.HorizonFactor)
	err = dzn.WriteFile(p.cfg.Model.DataPath, data)
	p.stage(coremetrics.StageExport, start, err)
	if err != nil {
		return nil, nil, fmt.Errorf("write model: %w", err)
	}
	p.log.Infow("model exported", map[string]any{
		"movements": len(m.Movements()),
		"trains":    len(m.Trains()),
		"timesteps": data.NumTimesteps,
		"path":      p.cfg.Model.DataPath,
	})
	return m, set, nil
}

// Solve hands the exported data file to the solver.
func (p *Pipeline) Solve(ctx context.Context) (res solver.Result, err error) {
	defer func(start time.Time) { p.stage(coremetrics.StageSolve, start, err) }(time.Now())
	req := solver.Request{
		DataPath: p.cfg.Model.DataPath,
		Solver:   p.cfg.Solver.Name,
		Timeout:  time.Duration(p.cfg.Solver.TimeoutSeconds) * time.Second,
	}
	p.log.Infow("solving", map[string]any{"solver": req.Solver, "timeout": req.Timeout.String()})
	return p.solver.Solve(ctx, req)
}

// Decode rebuilds the timetable from res and writes every configured output.
func (p *Pipeline) Decode(ctx context.Context, m *plan.Model, res solver.Result) (*schedule.Schedule, error) {
	start := time.Now()
	s, err := schedule.NewDecoder(m, logger.New("decoder")).Decode(res)
	p.stage(coremetrics.StageDecode, start, err)
	if err != nil {
		return nil, err
	}
	clock, err := p.cfg.Schedule.Clock()
	if err != nil {
		return nil, err
	}
	start = time.Now()
	report := export.Report{Schedule: s, Clock: clock}
	var errs []error
	for _, out := range p.outputs {
		if err := out.Write(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	err = errors.Join(errs...)
	p.stage(coremetrics.StageOutput, start, err)
	if err != nil {
		return s, fmt.Errorf("write outputs: %w", err)
	}
	return s, nil
}

// Run executes every stage for planPath and records the outcome.
func (p *Pipeline) Run(ctx context.Context, planPath string) error {
	start := time.Now()
	rec := runlog.RunRecord{Timestamp: start, PlanPath: planPath}
	err := p.run(ctx, planPath, &rec)
	rec.Duration = time.Since(start)
	rec.Status = runlog.StatusOK
	if err != nil {
		rec.Status = runlog.StatusFailed
		rec.Error = err.Error()
	}
	p.recorder.RecordRun(rec.Status)
	if serr := p.store.Append(context.WithoutCancel(ctx), rec); serr != nil {
		p.log.Warnf("append run record: %v", serr)
	}
	if p.prom != nil {
		if werr := p.prom.WriteTextfile(p.cfg.Metrics.TextfilePath); werr != nil {
			p.log.Warnf("write metrics: %v", werr)
		}
	}
	if err != nil {
		p.log.Errorf("run failed: %v", err)
		return err
	}
	p.log.Infow("run finished", map[string]any{"actions": rec.Actions, "duration": rec.Duration.String()})
	return nil
}

func (p *Pipeline) run(ctx context.Context, planPath string, rec *runlog.RunRecord) error {
	path, err := p.Expand(ctx, planPath)
	if err != nil {
		return err
	}
	m, set, err := p.BuildModel(ctx, path)
	if err != nil {
		return err
	}
	rec.Movements = len(m.Movements())
	rec.Trains = len(m.Trains())
	rec.Constraints = set.Counts()
	res, err := p.Solve(ctx)
	if err != nil {
		return err
	}
	rec.Actions = res.Len()
	_, err = p.Decode(ctx, m, res)
	return err
}

// History returns the recorded runs matching q.
func (p *Pipeline) History(ctx context.Context, q runlog.RunQuery) ([]runlog.RunRecord, error) {
	return p.store.Query(ctx, q)
}

// Close releases resources held by the pipeline.
func (p *Pipeline) Close() error { return p.store.Close() }

func parsePlan(path string) (*plan.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan: %w", err)
	}
	defer func() { _ = f.Close() }()
	return plan.Parse(f)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan: %w", err)
	}
	defer func() { _ = f.Close() }()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func writeLines(path string, lines []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
