package tutor

// Stage identifies how far a turn progressed through the pipeline. A result
// carries the stage it completed; a TurnError carries the stage it died in,
// which makes the failure handling of each stage inspectable instead of
// being buried in control flow.
type Stage string

const (
	StageReceived    Stage = "received"
	StageTranscribed Stage = "transcribed"
	StageClassified  Stage = "classified"
	StageGenerated   Stage = "generated"
	StageSynthesized Stage = "synthesized"
	StageRecorded    Stage = "recorded"
	StageCompleted   Stage = "completed"
)

// TurnError is a turn failure tagged with the pipeline stage that produced
// it.
type TurnError struct {
	Stage Stage
	Err   error
}

func (e *TurnError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

func failAt(stage Stage, err error) *TurnError {
	return &TurnError{Stage: stage, Err: err}
}
