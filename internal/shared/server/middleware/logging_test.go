package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Logging())
	router.GET("/test", func(c *gin.Context) {
		c.Set("batchId", "batch-1")
		c.Set("fileId", "file-1")
		c.Set("uploadStatus", "processing")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = origStdout
	}()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	_ = w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read log output: %v", err)
	}
	os.Stdout = origStdout

	var line map[string]any
	found := false
	for _, raw := range strings.Split(buf.String(), "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		var candidate map[string]any
		if err := json.Unmarshal([]byte(raw), &candidate); err != nil {
			continue
		}
		if candidate["msg"] == "request.complete" {
			line = candidate
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("request.complete log line not found in %q", buf.String())
	}

	for _, key := range []string{"request_id", "method", "path", "status", "duration_ms", "batch_id", "file_id", "upload_status"} {
		if _, ok := line[key]; !ok {
			t.Fatalf("log line missing %q: %v", key, line)
		}
	}
	if line["batch_id"] != "batch-1" {
		t.Fatalf("batch_id = %v", line["batch_id"])
	}
	if line["upload_status"] != "processing" {
		t.Fatalf("upload_status = %v", line["upload_status"])
	}
}

func TestLoggingSkipsOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Logging())
	router.OPTIONS("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	_ = w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read log output: %v", err)
	}
	os.Stdout = origStdout

	if strings.Contains(buf.String(), "request.complete") {
		t.Fatalf("expected no request log for OPTIONS, got %q", buf.String())
	}
}
