package uploads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-pipeline/internal/history"
	"resume-pipeline/internal/pipeline"
	"resume-pipeline/internal/preview"
	"resume-pipeline/internal/score"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/telemetry"
	"resume-pipeline/internal/validate"
)

// FileState is the poll-friendly view of one file moving through the
// pipeline. Progress is always present; the remaining fields fill in as
// the corresponding stages finish.
type FileState struct {
	BatchID   string            `json:"batchId"`
	Progress  pipeline.Progress `json:"progress"`
	Preview   *preview.Preview  `json:"preview,omitempty"`
	Summary   *pipeline.Summary `json:"summary,omitempty"`
	Analysis  *score.Result     `json:"analysis,omitempty"`
	Failure   *validate.Error   `json:"failure,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// BatchError is a batch-level rejection that never reached per-file
// processing, e.g. multiple files when only one is allowed.
type BatchError struct {
	BatchID string          `json:"batchId"`
	Err     *validate.Error `json:"error"`
}

// Service runs upload batches in the background and keeps the latest
// snapshot per file for polling clients.
type Service struct {
	Opts    pipeline.Options
	History history.Repo
	Metrics *metrics.Pipeline

	mu          sync.RWMutex
	states      map[string]*FileState
	batchErrors map[string]*BatchError
}

// NewService constructs a Service. History may be nil when no
// persistence is configured.
func NewService(opts pipeline.Options, hist history.Repo, m *metrics.Pipeline) *Service {
	opts.Metrics = m
	return &Service{
		Opts:        opts,
		History:     hist,
		Metrics:     m,
		states:      make(map[string]*FileState),
		batchErrors: make(map[string]*BatchError),
	}
}

// StartBatch assigns IDs, seeds pending snapshots, and kicks off the
// pipeline in the background. The returned file IDs are in input order.
func (s *Service) StartBatch(ctx context.Context, files []pipeline.File) (string, []pipeline.File) {
	batchID := uuid.NewString()
	now := time.Now().UTC()

	for i := range files {
		if files[i].ID == "" {
			files[i].ID = uuid.NewString()
		}
	}

	s.mu.Lock()
	for _, f := range files {
		s.states[f.ID] = &FileState{
			BatchID: batchID,
			Progress: pipeline.Progress{
				FileID:   f.ID,
				FileName: f.Name,
				Status:   pipeline.StatusPending,
			},
			UpdatedAt: now,
		}
	}
	s.mu.Unlock()

	orch := pipeline.New(s.Opts, s.callbacks(batchID, files))

	go func() {
		results := orch.Process(context.WithoutCancel(ctx), files)
		s.recordResults(batchID, files, results)
	}()

	return batchID, files
}

func (s *Service) callbacks(batchID string, files []pipeline.File) pipeline.Callbacks {
	return pipeline.Callbacks{
		OnUploadProgress: func(p pipeline.Progress) {
			s.update(p.FileID, func(st *FileState) {
				st.Progress = p
			})
		},
		OnPreviewReady: func(fileID string, p preview.Preview) {
			s.update(fileID, func(st *FileState) {
				st.Preview = &p
			})
		},
		OnContentAnalysis: func(fileID string, summary pipeline.Summary) {
			s.update(fileID, func(st *FileState) {
				st.Summary = &summary
			})
		},
		OnAnalysisReady: func(fileID string, result score.Result) {
			s.update(fileID, func(st *FileState) {
				st.Analysis = &result
			})
		},
		OnError: func(fileID string, err *validate.Error) {
			if fileID == "" {
				s.mu.Lock()
				s.batchErrors[batchID] = &BatchError{BatchID: batchID, Err: err}
				s.mu.Unlock()
				return
			}
			s.update(fileID, func(st *FileState) {
				st.Failure = err
			})
		},
	}
}

func (s *Service) update(fileID string, fn func(*FileState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[fileID]
	if !ok {
		return
	}
	fn(st)
	st.UpdatedAt = time.Now().UTC()
}

// recordResults persists terminal outcomes to the history repo.
func (s *Service) recordResults(batchID string, files []pipeline.File, results []pipeline.Result) {
	if s.History == nil {
		return
	}
	sizes := make(map[string]int64, len(files))
	mimes := make(map[string]string, len(files))
	for _, f := range files {
		sizes[f.ID] = int64(len(f.Data))
		mimes[f.ID] = f.MimeType
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, res := range results {
		now := time.Now().UTC()
		rec := history.Record{
			ID:        uuid.NewString(),
			FileID:    res.FileID,
			FileName:  res.FileName,
			MimeType:  mimes[res.FileID],
			SizeBytes: sizes[res.FileID],
			Status:    string(res.Status),
			CreatedAt: now,
		}
		if res.Status == pipeline.StatusComplete {
			rec.CompletedAt = &now
			if res.Analysis != nil {
				overall := res.Analysis.OverallScore
				rec.OverallScore = &overall
			}
		}
		if res.Err != nil {
			rec.ErrorCode = res.Err.Code
		}
		if err := s.History.Create(ctx, rec); err != nil {
			telemetry.Error("uploads.history.write_failed", map[string]any{
				"file_id":  res.FileID,
				"batch_id": batchID,
				"err":      err.Error(),
			})
		}
	}
}

// Snapshot returns the current state for a file.
func (s *Service) Snapshot(fileID string) (FileState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[fileID]
	if !ok {
		return FileState{}, false
	}
	return *st, true
}

// BatchSnapshot returns the states belonging to a batch, in no
// particular order, plus any batch-level rejection.
func (s *Service) BatchSnapshot(batchID string) ([]FileState, *BatchError) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []FileState
	for _, st := range s.states {
		if st.BatchID == batchID {
			out = append(out, *st)
		}
	}
	return out, s.batchErrors[batchID]
}
