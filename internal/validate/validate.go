package validate

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Stable error codes shared with API clients.
const (
	CodeFileTooLarge           = "FILE_TOO_LARGE"
	CodeInvalidFileType        = "INVALID_FILE_TYPE"
	CodeEmptyFile              = "EMPTY_FILE"
	CodeMultipleFilesNotAllowed = "MULTIPLE_FILES_NOT_ALLOWED"
	CodeUploadFailed           = "UPLOAD_FAILED"
)

// Spec describes one accepted file format. A static allow-list entry,
// read-only configuration supplied by the caller.
type Spec struct {
	Extension    string
	MimeType     string
	MaxSizeBytes int64
}

// DefaultMaxSizeBytes is the batch-wide size ceiling applied when the
// caller does not supply one.
const DefaultMaxSizeBytes = 10 << 20

// DefaultSpecs returns the formats accepted out of the box: documents at
// 10MB and camera-origin images at 5MB.
func DefaultSpecs() []Spec {
	return []Spec{
		{Extension: ".pdf", MimeType: "application/pdf", MaxSizeBytes: 10 << 20},
		{Extension: ".docx", MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", MaxSizeBytes: 10 << 20},
		{Extension: ".doc", MimeType: "application/msword", MaxSizeBytes: 10 << 20},
		{Extension: ".txt", MimeType: "text/plain", MaxSizeBytes: 5 << 20},
		{Extension: ".jpg", MimeType: "image/jpeg", MaxSizeBytes: 5 << 20},
		{Extension: ".jpeg", MimeType: "image/jpeg", MaxSizeBytes: 5 << 20},
		{Extension: ".png", MimeType: "image/png", MaxSizeBytes: 5 << 20},
	}
}

// Error is a structured validation failure. Constructed once, immutable
// by convention, and independently constructible for tests.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

// File runs the per-file checks in order, first match wins:
// oversize, unmatched type, empty payload. Pure; no side effects.
func File(fileName, mimeType string, sizeBytes int64, specs []Spec, maxSizeBytes int64) *Error {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	if len(specs) == 0 {
		specs = DefaultSpecs()
	}

	if sizeBytes > maxSizeBytes {
		return &Error{
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("%s is %s, the limit is %s", fileName, FormatBytes(sizeBytes), FormatBytes(maxSizeBytes)),
			Details: map[string]any{
				"fileSize": sizeBytes,
				"maxSize":  maxSizeBytes,
			},
		}
	}

	matched, ok := matchSpec(fileName, mimeType, specs)
	if !ok {
		return &Error{
			Code:    CodeInvalidFileType,
			Message: fmt.Sprintf("%s is not an accepted file type", fileName),
			Details: map[string]any{
				"mimeType":        mimeType,
				"acceptedFormats": acceptedExtensions(specs),
			},
		}
	}

	if matched.MaxSizeBytes > 0 && sizeBytes > matched.MaxSizeBytes {
		return &Error{
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("%s is %s, the limit for %s files is %s", fileName, FormatBytes(sizeBytes), matched.Extension, FormatBytes(matched.MaxSizeBytes)),
			Details: map[string]any{
				"fileSize": sizeBytes,
				"maxSize":  matched.MaxSizeBytes,
			},
		}
	}

	if sizeBytes == 0 {
		return &Error{
			Code:    CodeEmptyFile,
			Message: fmt.Sprintf("%s contains no data", fileName),
			Details: map[string]any{"fileName": fileName},
		}
	}

	return nil
}

// Batch flags a multi-file submission when the caller disabled multiple
// files. Run once per batch, after the per-file checks, against the
// count of files that survived them.
func Batch(validCount int, multipleAllowed bool) *Error {
	if multipleAllowed || validCount <= 1 {
		return nil
	}
	return &Error{
		Code:    CodeMultipleFilesNotAllowed,
		Message: "only one file can be uploaded at a time",
		Details: map[string]any{"fileCount": validCount},
	}
}

func matchSpec(fileName, mimeType string, specs []Spec) (Spec, bool) {
	ext := strings.ToLower(filepath.Ext(fileName))
	mime := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	for _, spec := range specs {
		if mime != "" && mime == strings.ToLower(spec.MimeType) {
			return spec, true
		}
		if ext != "" && ext == strings.ToLower(spec.Extension) {
			return spec, true
		}
	}
	return Spec{}, false
}

func acceptedExtensions(specs []Spec) []string {
	seen := make(map[string]bool, len(specs))
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		ext := strings.ToLower(spec.Extension)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}

// FormatBytes renders a byte count for user-facing messages.
func FormatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
