// Package minizinc runs the MiniZinc solver and reads its JSON stream.
package minizinc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kilianp07/yardplan/core/logger"
	"github.com/kilianp07/yardplan/core/solver"
)

// grace is added on top of the solver time limit before the process is killed.
const grace = 30 * time.Second

// runCommand executes the solver binary. Tests replace it to avoid spawning
// a real process.
var runCommand = func(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(out))
	}
	return nil
}

// Runner implements solver.Solver on top of the minizinc CLI.
type Runner struct {
	cfg Config
	log logger.Logger
}

// NewRunner returns a Runner. Missing config fields get defaults.
func NewRunner(cfg Config, log logger.Logger) *Runner {
	cfg.SetDefaults()
	return &Runner{cfg: cfg, log: logger.OrNop(log)}
}

// Args builds the minizinc command line for req.
func (r *Runner) Args(req solver.Request) []string {
	return []string{
		"-w", "--solver", r.solverName(req), "-f", "-a", "--output-time",
		"--time-limit", strconv.FormatInt(r.timeout(req).Milliseconds(), 10),
		"--output-objective", "--json-stream", "-s",
		"-o", r.cfg.OutputPath, r.cfg.ModelPath, req.DataPath,
	}
}

func (r *Runner) solverName(req solver.Request) string {
	if req.Solver != "" {
		return req.Solver
	}
	return r.cfg.Name
}

func (r *Runner) timeout(req solver.Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	return time.Duration(r.cfg.TimeoutSeconds) * time.Second
}

// Solve runs minizinc to completion and parses the last solution.
func (r *Runner) Solve(ctx context.Context, req solver.Request) (solver.Result, error) {
	if err := os.Remove(r.cfg.OutputPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return solver.Result{}, fmt.Errorf("remove old solution: %w", err)
	}
	if dir := filepath.Dir(r.cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return solver.Result{}, err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout(req)+grace)
	defer cancel()

	args := r.Args(req)
	r.log.Debugw("running solver", map[string]any{"binary": r.cfg.Binary, "args": args})
	start := time.Now()
	if err := runCommand(ctx, r.cfg.Binary, args...); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return solver.Result{}, fmt.Errorf("%w: after %s", solver.ErrTimeout, time.Since(start).Round(time.Second))
		}
		if ctx.Err() != nil {
			return solver.Result{}, ctx.Err()
		}
		return solver.Result{}, err
	}

	f, err := os.Open(r.cfg.OutputPath)
	if err != nil {
		return solver.Result{}, fmt.Errorf("open solution: %w", err)
	}
	defer func() { _ = f.Close() }()
	res, err := ParseStream(f)
	if err != nil {
		return solver.Result{}, err
	}
	r.log.Infof("solver returned %d scheduled actions in %s", res.Len(), time.Since(start).Round(time.Millisecond))
	return res, nil
}
