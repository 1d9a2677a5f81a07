package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/yardplan/infra/minizinc"
	"github.com/kilianp07/yardplan/infra/runlog"
)

var expandCmd = &cobra.Command{
	Use:   "expand <plan>",
	Short: "Expand multi-hop moves along the yard graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}
		defer closePipeline(p)
		path, err := p.Expand(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	},
}

var modelCmd = &cobra.Command{
	Use:   "model <plan>",
	Short: "Derive constraints and write the solver data file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}
		defer closePipeline(p)
		_, set, err := p.BuildModel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return json.NewEncoder(cmd.OutOrStdout()).Encode(set.Counts())
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <plan> <solution>",
	Short: "Decode a solver JSON stream into driver schedules",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}
		defer closePipeline(p)
		m, _, err := p.BuildModel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		res, err := minizinc.ParseStream(f)
		if err != nil {
			return err
		}
		s, err := p.Decode(cmd.Context(), m, res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d drivers over %d timesteps\n", len(s.Logs), s.Timesteps)
		return err
	},
}

var (
	historyStatus string
	historySince  time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}
		defer closePipeline(p)
		q := runlog.RunQuery{Status: historyStatus}
		if historySince > 0 {
			q.Start = time.Now().Add(-historySince)
		}
		runs, err := p.History(cmd.Context(), q)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, r := range runs {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "only runs with this status (ok, failed)")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only runs newer than this")
	rootCmd.AddCommand(expandCmd, modelCmd, decodeCmd, historyCmd)
}
