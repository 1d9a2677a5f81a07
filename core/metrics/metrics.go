package metrics

import "time"

// Pipeline stages.
const (
	StageExpand = "expand"
	StageParse  = "parse"
	StageDerive = "derive"
	StageExport = "export"
	StageSolve  = "solve"
	StageDecode = "decode"
	StageOutput = "output"
)

// ModelStats summarises a parsed model and its constraints.
type ModelStats struct {
	Tracks      int
	Trains      int
	Movements   int
	Constraints map[string]int
}

// Recorder observes pipeline runs.
type Recorder interface {
	RecordStage(stage string, d time.Duration, err error)
	RecordModel(s ModelStats)
	RecordRun(status string)
}

// NopRecorder implements Recorder with no-op methods.
type NopRecorder struct{}

func (NopRecorder) RecordStage(string, time.Duration, error) {}
func (NopRecorder) RecordModel(ModelStats)                   {}
func (NopRecorder) RecordRun(string)                         {}

// MultiRecorder fans out to several recorders.
type MultiRecorder []Recorder

func (m MultiRecorder) RecordStage(stage string, d time.Duration, err error) {
	for _, r := range m {
		r.RecordStage(stage, d, err)
	}
}

func (m MultiRecorder) RecordModel(s ModelStats) {
	for _, r := range m {
		r.RecordModel(s)
	}
}

func (m MultiRecorder) RecordRun(status string) {
	for _, r := range m {
		r.RecordRun(status)
	}
}
