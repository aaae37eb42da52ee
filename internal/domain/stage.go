package domain

// Stage labels a position in the per-request turn pipeline. Transitions are
// strictly forward; StageFailed may be entered from any point.
type Stage string

const (
	StageReceived     Stage = "received"
	StageSearching    Stage = "searching"
	StageAssembling   Stage = "assembling"
	StageCallingModel Stage = "calling_model"
	StagePersisting   Stage = "persisting"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)
