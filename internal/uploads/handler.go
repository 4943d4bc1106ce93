package uploads

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/edgedetect"
	"resume-pipeline/internal/pipeline"
	"resume-pipeline/internal/shared/server/respond"
	"resume-pipeline/internal/shared/util"
)

// maxRequestBytes caps the whole multipart body, leaving headroom over
// the largest single-file limit for multi-file batches.
const maxRequestBytes = 64 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.create)
	rg.GET("/uploads/:fileId", h.get)
	rg.GET("/uploads", h.listBatch)
	rg.POST("/camera/frames", h.cameraFrame)
}

type createResponse struct {
	BatchID string         `json:"batchId"`
	Files   []fileAccepted `json:"files"`
}

type fileAccepted struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
}

func (h *Handler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart form", nil)
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one file is required", nil)
		return
	}

	var files []pipeline.File
	for _, fh := range headers {
		name, err := util.SanitizeFileName(fh.Filename)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", gin.H{"fileName": fh.Filename})
			return
		}
		f, err := fh.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", gin.H{"fileName": name})
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", gin.H{"fileName": name})
			return
		}
		files = append(files, pipeline.File{
			Name:         name,
			MimeType:     fh.Header.Get("Content-Type"),
			Data:         data,
			LastModified: time.Now().UTC(),
		})
	}

	batchID, accepted := h.Svc.StartBatch(c.Request.Context(), files)
	c.Set("batchId", batchID)

	resp := createResponse{BatchID: batchID}
	for _, f := range accepted {
		resp.Files = append(resp.Files, fileAccepted{FileID: f.ID, FileName: f.Name})
	}
	respond.JSON(c, http.StatusAccepted, resp)
}

func (h *Handler) get(c *gin.Context) {
	fileID := strings.TrimSpace(c.Param("fileId"))
	c.Set("fileId", fileID)

	state, ok := h.Svc.Snapshot(fileID)
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown file id", nil)
		return
	}
	c.Set("uploadStatus", string(state.Progress.Status))
	respond.OK(c, state)
}

func (h *Handler) listBatch(c *gin.Context) {
	batchID := strings.TrimSpace(c.Query("batchId"))
	if batchID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "batchId is required", nil)
		return
	}
	c.Set("batchId", batchID)

	states, batchErr := h.Svc.BatchSnapshot(batchID)
	if len(states) == 0 && batchErr == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown batch id", nil)
		return
	}
	if states == nil {
		states = []FileState{}
	}
	respond.OK(c, gin.H{
		"batchId": batchID,
		"files":   states,
		"error":   batchErr,
	})
}

type cameraFrameRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels string `json:"pixels"` // base64-encoded RGBA or grayscale buffer
}

func (h *Handler) cameraFrame(c *gin.Context) {
	var req cameraFrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	pixels, err := base64.StdEncoding.DecodeString(req.Pixels)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "pixels must be base64", nil)
		return
	}

	sample, err := edgedetect.Detect(pixels, req.Width, req.Height)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "frame buffer does not match dimensions", gin.H{
			"width":  req.Width,
			"height": req.Height,
		})
		return
	}
	h.Svc.Metrics.EdgeDetection(sample.IsDocumentLikely)
	respond.OK(c, sample)
}
