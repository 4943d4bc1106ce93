package history

import "time"

// Record is the retained outcome of one file's trip through the
// pipeline. Metadata only: uploaded bytes are never persisted.
type Record struct {
	ID           string     `json:"id"`
	FileID       string     `json:"fileId"`
	FileName     string     `json:"fileName"`
	MimeType     string     `json:"mimeType"`
	SizeBytes    int64      `json:"sizeBytes"`
	Status       string     `json:"status"`
	OverallScore *int       `json:"overallScore,omitempty"`
	ErrorCode    string     `json:"errorCode,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}
