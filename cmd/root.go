package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/yardplan/app"
	"github.com/kilianp07/yardplan/config"
	"github.com/kilianp07/yardplan/infra/logger"
)

var (
	cfgPath       string
	numDrivers    int
	turnsIncluded bool
	yardPath      string
	entryTrackMap string
	mznTimeout    int
	mznSolver     string
)

var rootCmd = &cobra.Command{
	Use:          "yardplan",
	Short:        "Shunting yard driver scheduling",
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run <plan>",
	Short: "Expand, model, solve and decode a shunting plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPipeline,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	pf.IntVar(&numDrivers, "num-drivers", 1, "number of drivers available")
	pf.BoolVar(&turnsIncluded, "turns-included", false, "the plan already contains turn actions")
	pf.StringVar(&yardPath, "yard-json", "", "yard description used to expand the plan")
	pf.StringVar(&entryTrackMap, "entry-track-map", "", `JSON object mapping yard part names to plan tracks, e.g. {"Gate A":"e1"}`)
	pf.IntVar(&mznTimeout, "mzn-timeout", 300, "solver time limit in seconds")
	pf.StringVar(&mznSolver, "mzn-solver", "chuffed", "minizinc solver backend")
	rootCmd.AddCommand(runCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the config file and applies the flags that were set. A
// missing default config file falls back to defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}
	flags := cmd.Flags()
	if flags.Changed("num-drivers") {
		cfg.Plan.NumDrivers = numDrivers
	}
	if flags.Changed("turns-included") {
		cfg.Plan.TurnsIncluded = turnsIncluded
	}
	if flags.Changed("yard-json") {
		cfg.Yard.Path = yardPath
	}
	if flags.Changed("entry-track-map") {
		var aliases map[string]string
		if err := json.Unmarshal([]byte(entryTrackMap), &aliases); err != nil {
			return nil, fmt.Errorf("entry-track-map: %w", err)
		}
		cfg.Yard.Aliases = aliases
	}
	if flags.Changed("mzn-timeout") {
		cfg.Solver.TimeoutSeconds = mznTimeout
	}
	if flags.Changed("mzn-solver") {
		cfg.Solver.Name = mznSolver
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.Logging.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newPipeline(cmd *cobra.Command) (*app.Pipeline, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

func closePipeline(p *app.Pipeline) {
	if err := p.Close(); err != nil {
		logger.New("main").Errorf("pipeline close: %v", err)
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	defer closePipeline(p)
	return p.Run(ctx, args[0])
}
