// Package pipeline owns the upload orchestrator: the state machine that
// sequences validation, extraction, and scoring per file, computes
// blended progress, and fans results out to registered callbacks.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/preview"
	"resume-pipeline/internal/recovery"
	"resume-pipeline/internal/score"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/telemetry"
	"resume-pipeline/internal/validate"
)

// File is the raw input handed to the pipeline: an opaque byte buffer
// plus its metadata. Immutable once received. ID may be pre-assigned by
// the caller; the orchestrator assigns one otherwise.
type File struct {
	ID           string
	Name         string
	MimeType     string
	Data         []byte
	LastModified time.Time
}

// Summary is the backward-compatible coarse analysis emitted through
// OnContentAnalysis for callers that predate the full scoring result.
type Summary struct {
	FileID       string  `json:"fileId"`
	FileName     string  `json:"fileName"`
	WordCount    int     `json:"wordCount"`
	SectionCount int     `json:"sectionCount"`
	HasContact   bool    `json:"hasContact"`
	ATSScore     float64 `json:"atsScore"`
}

// Result is the terminal outcome for one file in a batch.
type Result struct {
	FileID   string
	FileName string
	Status   Status
	Content  *extract.Content
	Analysis *score.Result
	Err      *validate.Error
}

// Callbacks is the notification surface the pipeline drives. All fields
// are optional; set ones are invoked fire-and-forget. For a given file,
// progress snapshots arrive in monotonically non-decreasing order, and
// each of the remaining callbacks fires at most once. OnPreviewReady
// may arrive concurrently with progress updates; everything else is
// delivered from the batch goroutine.
type Callbacks struct {
	OnUploadProgress   func(Progress)
	OnPreviewReady     func(fileID string, p preview.Preview)
	OnContentExtracted func(fileID string, content extract.Content)
	OnContentAnalysis  func(fileID string, summary Summary)
	OnAnalysisReady    func(fileID string, result score.Result)
	OnUploadComplete   func(result Result)
	OnError            func(fileID string, err *validate.Error)
}

// Options configures an Orchestrator. The zero value uses the default
// format allow-list, the default size ceiling, and allows multi-file
// batches.
type Options struct {
	Specs                []validate.Spec
	MaxFileSizeBytes     int64
	DisableMultipleFiles bool
	DisableLivePreview   bool
	// StageDurations overrides the fixed ETA model, keyed by stage.
	StageDurations map[Status]time.Duration
	Metrics        *metrics.Pipeline
}

// Orchestrator runs batches through the pipeline. One file at a time,
// in input order: a deliberate simplification that bounds memory to a
// single extraction buffer and keeps failures trivially isolated.
type Orchestrator struct {
	opts Options
	cb   Callbacks

	mu   sync.Mutex
	last map[string]float64 // fileID -> last emitted progress, monotonic guard
}

// New constructs an Orchestrator with the given options and callbacks.
func New(opts Options, cb Callbacks) *Orchestrator {
	if opts.MaxFileSizeBytes <= 0 {
		opts.MaxFileSizeBytes = validate.DefaultMaxSizeBytes
	}
	if len(opts.Specs) == 0 {
		opts.Specs = validate.DefaultSpecs()
	}
	return &Orchestrator{
		opts: opts,
		cb:   cb,
		last: make(map[string]float64),
	}
}

// fileContext threads per-file state explicitly through the stages
// instead of capturing it in closures, so batch processing stays easy
// to parallelize later.
type fileContext struct {
	id      string
	raw     File
	content *extract.Content
}

// Process runs the batch: per-file validation, the batch-level
// multi-file check, then the three active stages per surviving file in
// input order. A file's failure never prevents its siblings from
// completing. Returns one Result per input file, in input order.
func (o *Orchestrator) Process(ctx context.Context, batch []File) []Result {
	o.opts.Metrics.BatchStarted()
	telemetry.Info("pipeline.batch", map[string]any{
		"file_count": len(batch),
	})

	results := make([]Result, len(batch))
	valid := make([]int, 0, len(batch))

	for i, f := range batch {
		id := f.ID
		if id == "" {
			id = uuid.NewString()
			batch[i].ID = id
		}
		results[i] = Result{FileID: id, FileName: f.Name}

		if verr := validate.File(f.Name, f.MimeType, int64(len(f.Data)), o.opts.Specs, o.opts.MaxFileSizeBytes); verr != nil {
			// Validation failures never enter the state machine: no
			// progress snapshots, just the error.
			annotated := withRecovery(verr, id, f.Name)
			results[i].Status = StatusError
			results[i].Err = annotated
			o.emitError(id, annotated)
			continue
		}
		valid = append(valid, i)
	}

	if berr := validate.Batch(len(valid), !o.opts.DisableMultipleFiles); berr != nil {
		annotated := withRecovery(berr, "", "")
		o.emitError("", annotated)
		for _, i := range valid {
			results[i].Status = StatusError
			results[i].Err = annotated
		}
		return results
	}

	var previews sync.WaitGroup
	defer previews.Wait()

	cancelled := false
	for _, i := range valid {
		if cancelled {
			results[i].Status = StatusError
			results[i].Err = cancelError(ctx, batch[i].ID, batch[i].Name)
			o.emitError(batch[i].ID, results[i].Err)
			continue
		}
		results[i] = o.processFile(ctx, batch[i], &previews)
		if results[i].Err != nil && ctx.Err() != nil {
			cancelled = true
		}
	}
	return results
}

func (o *Orchestrator) processFile(ctx context.Context, f File, previews *sync.WaitGroup) Result {
	fc := &fileContext{id: f.ID, raw: f}
	o.opts.Metrics.FileStarted()
	telemetry.Info("pipeline.file.start", map[string]any{
		"file_id":    fc.id,
		"file_name":  f.Name,
		"mime_type":  f.MimeType,
		"size_bytes": len(f.Data),
	})

	o.emitProgress(fc, StatusPending, -1, 0, "")

	if !o.opts.DisableLivePreview && o.cb.OnPreviewReady != nil {
		previews.Add(1)
		go func() {
			defer previews.Done()
			p := preview.Generate(ctx, f.Data, f.MimeType, f.Name)
			o.opts.Metrics.PreviewGenerated(p.IsEnabled)
			o.cb.OnPreviewReady(fc.id, p)
		}()
	}

	for stageIdx, stage := range activeStages {
		if err := ctx.Err(); err != nil {
			return o.failFile(fc, stage, cancelError(ctx, fc.id, f.Name))
		}
		started := time.Now()
		o.emitProgress(fc, stage, stageIdx, 0, "")

		var stageErr *validate.Error
		switch stage {
		case StatusUploading:
			// Bytes are already resident; this stage exists so a
			// production port can hang real transfer I/O on it.
			o.emitProgress(fc, stage, stageIdx, 50, "")
		case StatusProcessing:
			content, err := extract.Extract(ctx, f.Data, f.MimeType, f.Name)
			if err != nil {
				stageErr = pipelineError(err, fc.id, f.Name)
				break
			}
			fc.content = &content
			if o.cb.OnContentExtracted != nil {
				o.cb.OnContentExtracted(fc.id, content)
			}
			if o.cb.OnContentAnalysis != nil {
				o.cb.OnContentAnalysis(fc.id, summarize(fc.id, f.Name, content))
			}
		case StatusAnalyzing:
			analysis := score.Score(*fc.content)
			if o.cb.OnAnalysisReady != nil {
				o.cb.OnAnalysisReady(fc.id, analysis)
			}
			o.opts.Metrics.ObserveStage(string(stage), time.Since(started))
			o.emitProgress(fc, StatusComplete, len(activeStages), 0, "")
			result := Result{
				FileID:   fc.id,
				FileName: f.Name,
				Status:   StatusComplete,
				Content:  fc.content,
				Analysis: &analysis,
			}
			o.opts.Metrics.FileFinished(string(StatusComplete))
			telemetry.Info("pipeline.file.complete", map[string]any{
				"file_id":       fc.id,
				"overall_score": analysis.OverallScore,
			})
			if o.cb.OnUploadComplete != nil {
				o.cb.OnUploadComplete(result)
			}
			return result
		}
		if stageErr != nil {
			return o.failFile(fc, stage, stageErr)
		}
		o.opts.Metrics.ObserveStage(string(stage), time.Since(started))
		o.emitProgress(fc, stage, stageIdx, 100, "")
	}

	// Unreachable: the analyzing arm returns.
	return Result{FileID: fc.id, FileName: f.Name, Status: StatusError}
}

// failFile transitions the file to the terminal error state: one final
// progress snapshot with the causing message, then exactly one OnError.
func (o *Orchestrator) failFile(fc *fileContext, stage Status, err *validate.Error) Result {
	o.mu.Lock()
	lastPct := o.last[fc.id]
	o.mu.Unlock()

	o.emitTerminalError(fc, lastPct, err)
	o.opts.Metrics.FileFinished(string(StatusError))
	telemetry.Error("pipeline.file.failed", map[string]any{
		"file_id":   fc.id,
		"file_name": fc.raw.Name,
		"stage":     string(stage),
		"code":      err.Code,
		"error":     err.Message,
	})
	o.emitError(fc.id, err)
	return Result{FileID: fc.id, FileName: fc.raw.Name, Status: StatusError, Err: err}
}

func (o *Orchestrator) emitProgress(fc *fileContext, status Status, stageIdx int, intra float64, errMsg string) {
	pct := 0.0
	var eta time.Duration
	switch {
	case status == StatusComplete:
		pct = 100
	case stageIdx >= 0:
		pct = blendedProgress(stageIdx, intra)
		eta = estimateRemaining(stageIdx, intra, o.opts.StageDurations)
	}

	o.mu.Lock()
	if last := o.last[fc.id]; pct < last {
		pct = last
	}
	o.last[fc.id] = pct
	o.mu.Unlock()

	if o.cb.OnUploadProgress == nil {
		return
	}
	o.cb.OnUploadProgress(Progress{
		FileID:                   fc.id,
		FileName:                 fc.raw.Name,
		Progress:                 pct,
		Status:                   status,
		EstimatedTimeRemainingMs: eta.Milliseconds(),
		Error:                    errMsg,
	})
}

func (o *Orchestrator) emitTerminalError(fc *fileContext, lastPct float64, err *validate.Error) {
	if o.cb.OnUploadProgress == nil {
		return
	}
	o.cb.OnUploadProgress(Progress{
		FileID:   fc.id,
		FileName: fc.raw.Name,
		Progress: lastPct,
		Status:   StatusError,
		Error:    err.Message,
	})
}

func (o *Orchestrator) emitError(fileID string, err *validate.Error) {
	if o.cb.OnError != nil {
		o.cb.OnError(fileID, err)
	}
}

func summarize(fileID, fileName string, content extract.Content) Summary {
	hasContact := false
	if _, ok := content.SectionByType(extract.SectionContact); ok {
		hasContact = true
	}
	return Summary{
		FileID:       fileID,
		FileName:     fileName,
		WordCount:    content.Metadata.WordCount,
		SectionCount: len(content.Sections),
		HasContact:   hasContact,
		ATSScore:     content.ATSCompatibility.Score,
	}
}

// withRecovery attaches the advisor's suggestions and file identity to
// a validation error so every surfaced error is actionable.
func withRecovery(err *validate.Error, fileID, fileName string) *validate.Error {
	details := make(map[string]any, len(err.Details)+3)
	for k, v := range err.Details {
		details[k] = v
	}
	details["suggestions"] = recovery.AdviseOn(err.Code)
	if fileID != "" {
		details["fileId"] = fileID
	}
	if fileName != "" {
		details["fileName"] = fileName
	}
	return &validate.Error{Code: err.Code, Message: err.Message, Details: details}
}

// pipelineError wraps a stage failure as an UPLOAD_FAILED error with
// recovery suggestions.
func pipelineError(cause error, fileID, fileName string) *validate.Error {
	return withRecovery(&validate.Error{
		Code:    validate.CodeUploadFailed,
		Message: cause.Error(),
	}, fileID, fileName)
}

func cancelError(ctx context.Context, fileID, fileName string) *validate.Error {
	msg := "processing cancelled"
	if err := ctx.Err(); err != nil {
		msg = "processing cancelled: " + err.Error()
	}
	return withRecovery(&validate.Error{
		Code:    validate.CodeUploadFailed,
		Message: msg,
	}, fileID, fileName)
}
