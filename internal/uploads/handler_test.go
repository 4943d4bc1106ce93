package uploads

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/history"
	"resume-pipeline/internal/pipeline"
)

const sampleResumeText = `Jordan Smith
jordan.smith@example.com | 555-201-3344

Summary
Led backend teams building document processing services.

Experience
Senior Engineer, Acme Corp (2019 - 2024)
- Reduced processing latency by 40% across 3 services
- Managed a team of 5 engineers

Education
B.S. Computer Science, State University, 2015

Skills
Go, PostgreSQL, Docker, Kubernetes, gRPC
`

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postMultipart(t *testing.T, r *gin.Engine, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func pollState(t *testing.T, r *gin.Engine, fileID string, done func(FileState) bool) FileState {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+fileID, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("poll %s: status %d", fileID, resp.Code)
		}
		var state FileState
		if err := json.Unmarshal(resp.Body.Bytes(), &state); err != nil {
			t.Fatalf("unmarshal state: %v", err)
		}
		if done(state) {
			return state
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("file %s never reached expected state", fileID)
	return FileState{}
}

func TestUploadBatchLifecycle(t *testing.T) {
	hist := history.NewMemoryRepo()
	svc := NewService(pipeline.Options{}, hist, nil)
	r := newTestRouter(svc)

	resp := postMultipart(t, r, map[string]string{"resume.txt": sampleResumeText})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}

	var created createResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal create response: %v", err)
	}
	if created.BatchID == "" || len(created.Files) != 1 {
		t.Fatalf("unexpected create response: %+v", created)
	}
	fileID := created.Files[0].FileID

	state := pollState(t, r, fileID, func(st FileState) bool {
		return st.Progress.Status == pipeline.StatusComplete
	})
	if state.Progress.Progress != 100 {
		t.Fatalf("final progress = %v, want 100", state.Progress.Progress)
	}
	if state.Analysis == nil {
		t.Fatalf("expected analysis on completed file")
	}
	if state.Analysis.OverallScore < 0 || state.Analysis.OverallScore > 100 {
		t.Fatalf("overall score out of range: %d", state.Analysis.OverallScore)
	}
	if state.Preview == nil || !state.Preview.IsEnabled {
		t.Fatalf("expected enabled preview, got %+v", state.Preview)
	}
	if state.Summary == nil || state.Summary.WordCount == 0 {
		t.Fatalf("expected summary with word count, got %+v", state.Summary)
	}

	// Completion is persisted once the batch goroutine finishes.
	deadline := time.Now().Add(3 * time.Second)
	for {
		rec, err := hist.GetByFileID(context.Background(), fileID)
		if err == nil {
			if rec.Status != string(pipeline.StatusComplete) {
				t.Fatalf("history status = %q", rec.Status)
			}
			if rec.OverallScore == nil {
				t.Fatalf("history record missing score")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("history record never written")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Batch listing includes the file.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads?batchId="+created.BatchID, nil)
	listResp := httptest.NewRecorder()
	r.ServeHTTP(listResp, req)
	if listResp.Code != http.StatusOK {
		t.Fatalf("batch list status %d", listResp.Code)
	}
	if !strings.Contains(listResp.Body.String(), fileID) {
		t.Fatalf("batch listing missing file id: %s", listResp.Body.String())
	}
}

func TestUploadEmptyFileFailsValidation(t *testing.T) {
	svc := NewService(pipeline.Options{}, nil, nil)
	r := newTestRouter(svc)

	resp := postMultipart(t, r, map[string]string{"empty.txt": ""})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	var created createResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	state := pollState(t, r, created.Files[0].FileID, func(st FileState) bool {
		return st.Failure != nil
	})
	if state.Failure.Code != "EMPTY_FILE" {
		t.Fatalf("failure code = %q, want EMPTY_FILE", state.Failure.Code)
	}
	if _, ok := state.Failure.Details["suggestions"]; !ok {
		t.Fatalf("expected recovery suggestions on failure: %+v", state.Failure.Details)
	}
}

func TestUploadSingleFileModeRejectsBatch(t *testing.T) {
	svc := NewService(pipeline.Options{DisableMultipleFiles: true}, nil, nil)
	r := newTestRouter(svc)

	resp := postMultipart(t, r, map[string]string{
		"a.txt": sampleResumeText,
		"b.txt": sampleResumeText,
	})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	var created createResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		_, batchErr := svc.BatchSnapshot(created.BatchID)
		if batchErr != nil {
			if batchErr.Err.Code != "MULTIPLE_FILES_NOT_ALLOWED" {
				t.Fatalf("batch error code = %q", batchErr.Err.Code)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("batch error never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGetUnknownFileReturns404(t *testing.T) {
	svc := NewService(pipeline.Options{}, nil, nil)
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads/nope", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCameraFrameDetection(t *testing.T) {
	svc := NewService(pipeline.Options{}, nil, nil)
	r := newTestRouter(svc)

	// High-contrast checkerboard reads as a document-like frame.
	const width, height = 64, 64
	pixels := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/4+y/4)%2 == 0 {
				pixels[y*width+x] = 255
			}
		}
	}

	body, _ := json.Marshal(cameraFrameRequest{
		Width:  width,
		Height: height,
		Pixels: base64.StdEncoding.EncodeToString(pixels),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/camera/frames", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var sample struct {
		EdgeDensity      float64 `json:"edgeDensity"`
		IsDocumentLikely bool    `json:"isDocumentLikely"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &sample); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !sample.IsDocumentLikely {
		t.Fatalf("expected document-likely frame, density=%v", sample.EdgeDensity)
	}
}

func TestCameraFrameBadBuffer(t *testing.T) {
	svc := NewService(pipeline.Options{}, nil, nil)
	r := newTestRouter(svc)

	body, _ := json.Marshal(cameraFrameRequest{
		Width:  10,
		Height: 10,
		Pixels: base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/camera/frames", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
