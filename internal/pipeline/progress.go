package pipeline

import "time"

// Status is the per-file state machine. The progression is strictly
// linear; error is terminal and reachable from any active stage,
// complete is terminal and reachable only from analyzing.
type Status string

const (
	StatusPending    Status = "pending"
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusAnalyzing  Status = "analyzing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// The three active stages, in order. Each contributes an equal slice of
// the blended progress percentage.
var activeStages = []Status{StatusUploading, StatusProcessing, StatusAnalyzing}

// Fixed stage-duration model used for advisory ETAs. Real stage timing
// varies with file size and backend latency; the model only has to keep
// the countdown plausible.
var defaultStageDurations = map[Status]time.Duration{
	StatusUploading:  800 * time.Millisecond,
	StatusProcessing: 1200 * time.Millisecond,
	StatusAnalyzing:  600 * time.Millisecond,
}

// Progress is the externally visible snapshot for one in-flight file.
// Written only by the orchestrator, read by all subscribers.
type Progress struct {
	FileID                   string  `json:"fileId"`
	FileName                 string  `json:"fileName"`
	Progress                 float64 `json:"progress"`
	Status                   Status  `json:"status"`
	EstimatedTimeRemainingMs int64   `json:"estimatedTimeRemainingMs,omitempty"`
	Error                    string  `json:"error,omitempty"`
}

// blendedProgress computes the overall percentage from the stage index
// and the intra-stage progress, each active stage weighing an equal
// third.
func blendedProgress(stageIndex int, intraStage float64) float64 {
	n := float64(len(activeStages))
	pct := float64(stageIndex)/n*100 + intraStage/n
	if pct > 100 {
		pct = 100
	}
	return pct
}

// estimateRemaining returns the advisory ETA: the still-untouched
// stages at full duration plus the unfinished fraction of the current
// one.
func estimateRemaining(stageIndex int, intraStage float64, durations map[Status]time.Duration) time.Duration {
	if durations == nil {
		durations = defaultStageDurations
	}
	var remaining time.Duration
	for i := stageIndex + 1; i < len(activeStages); i++ {
		remaining += durations[activeStages[i]]
	}
	if stageIndex >= 0 && stageIndex < len(activeStages) {
		current := durations[activeStages[stageIndex]]
		remaining += time.Duration((1 - intraStage/100) * float64(current))
	}
	return remaining
}
