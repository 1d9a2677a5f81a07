package minizinc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/kilianp07/yardplan/core/solver"
)

type record struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Output  struct {
		Default string `json:"default"`
	} `json:"output"`
}

var bracketed = regexp.MustCompile(`\[([^\[\]]*)\]`)

// ParseStream reads a --json-stream transcript and returns the last solution.
func ParseStream(r io.Reader) (solver.Result, error) {
	var (
		last   string
		found  bool
		status string
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return solver.Result{}, fmt.Errorf("%w: %v", solver.ErrMalformedOutput, err)
		}
		switch rec.Type {
		case "solution":
			last, found = rec.Output.Default, true
		case "status":
			status = rec.Status
		case "error":
			return solver.Result{}, fmt.Errorf("%w: %s", solver.ErrNoSolution, rec.Message)
		}
	}
	if err := sc.Err(); err != nil {
		return solver.Result{}, err
	}
	if !found {
		switch status {
		case "UNSATISFIABLE", "UNSAT_OR_UNBOUNDED":
			return solver.Result{}, solver.ErrInfeasible
		case "UNKNOWN":
			return solver.Result{}, solver.ErrTimeout
		default:
			return solver.Result{}, solver.ErrNoSolution
		}
	}
	return ParseArrays(last)
}

// ParseArrays parses the solution text "[..][..][..][..]" into start times,
// durations, trains and drivers.
func ParseArrays(text string) (solver.Result, error) {
	m := bracketed.FindAllStringSubmatch(text, -1)
	if len(m) < 4 {
		return solver.Result{}, fmt.Errorf("%w: expected 4 arrays, got %d", solver.ErrMalformedOutput, len(m))
	}
	arrays := make([][]int, 4)
	for i := range arrays {
		vs, err := ints(m[i][1])
		if err != nil {
			return solver.Result{}, err
		}
		arrays[i] = vs
	}
	res := solver.Result{StartTime: arrays[0], Duration: arrays[1], TrainID: arrays[2], DriverID: arrays[3]}
	if err := res.Validate(); err != nil {
		return solver.Result{}, err
	}
	return res, nil
}

func ints(s string) ([]int, error) {
	out := []int{}
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", solver.ErrMalformedOutput, err)
		}
		out = append(out, v)
	}
	return out, nil
}
