// Package recovery maps structured pipeline errors to human-actionable
// recovery options. Pure lookup, no state.
package recovery

import "strings"

var optionsByCode = map[string][]string{
	"FILE_TOO_LARGE": {
		"Compress the file before uploading",
		"Convert the document to PDF to reduce its size",
		"Remove embedded images from the document",
	},
	"INVALID_FILE_TYPE": {
		"Convert the file to PDF, DOCX, DOC, or TXT",
		"Use the camera capture to photograph a printed copy",
		"Import the document from cloud storage instead",
	},
	"EMPTY_FILE": {
		"Check that the document has content before uploading",
		"Re-save the file and try again",
		"Choose a different file",
	},
	"MULTIPLE_FILES_NOT_ALLOWED": {
		"Upload one file at a time",
		"Combine the documents into a single file",
	},
	"UPLOAD_FAILED": {
		"Try uploading the file again",
		"Check your internet connection",
		"Contact support if the problem persists",
	},
}

var defaultOptions = []string{
	"Try again",
	"Check your internet connection",
	"Contact support if the problem persists",
}

// AdviseOn returns recovery suggestions for an error code. Total over
// all inputs: every known code yields its own non-empty list and any
// unrecognized code falls back to the default list.
func AdviseOn(code string) []string {
	if options, ok := optionsByCode[strings.TrimSpace(code)]; ok {
		out := make([]string, len(options))
		copy(out, options)
		return out
	}
	out := make([]string, len(defaultOptions))
	copy(out, defaultOptions)
	return out
}
