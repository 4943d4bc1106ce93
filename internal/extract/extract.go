// Package extract turns raw document bytes into sectioned, scored
// content. It is the pipeline's extension point for a real OCR/NLP
// backend: callers depend only on Extract.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF   = "application/pdf"
	mimeDOC   = "application/msword"
	mimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePlain = "text/plain"
)

// Error reports a content-level decode failure, distinct from input
// validation: the bytes arrived but could not be read as a document.
type Error struct {
	FileName string
	MimeType string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s (%s): %v", e.FileName, e.MimeType, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var errUnsupportedMime = errors.New("unsupported mime type")

// Extract decodes the payload and builds the full Content aggregate:
// labeled sections with confidence, missing-content alerts, and the ATS
// compatibility report.
func Extract(ctx context.Context, data []byte, mimeType, fileName string) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}

	text, err := DecodeText(ctx, data, mimeType, fileName)
	if err != nil {
		return Content{}, &Error{FileName: fileName, MimeType: mimeType, Err: err}
	}

	sections := segmentSections(text)
	content := Content{
		Sections: sections,
		Metadata: Metadata{
			FileName:    fileName,
			MimeType:    normalizeMimeType(mimeType, fileName, data),
			SizeBytes:   int64(len(data)),
			WordCount:   len(strings.Fields(text)),
			LineCount:   len(strings.Split(text, "\n")),
			ExtractedAt: time.Now().UTC(),
		},
		MissingContent:   reportMissingContent(sections),
		ATSCompatibility: scanATSCompatibility(text, sections),
	}
	content.Suggestions = buildSuggestions(content)
	return content, nil
}

// DecodeText extracts plain text from an in-memory payload. PDF via
// github.com/ledongthuc/pdf, DOCX via the word/document.xml entry of
// the zip container, anything text-like as UTF-8.
func DecodeText(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}
	switch normalizeMimeType(mimeType, fileName, data) {
	case mimePDF:
		return decodePDF(data)
	case mimeDOCX, mimeDOC:
		return decodeDOCX(data)
	case mimePlain:
		return decodePlain(data)
	default:
		return "", fmt.Errorf("%w: %s", errUnsupportedMime, mimeType)
	}
}

func decodePDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs; a corrupt file
	// must surface as an extraction error, not kill the pipeline.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parse: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf open: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return buf.String(), nil
}

func decodeDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx container: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return flattenDocxXML(raw), nil
}

// flattenDocxXML keeps character data and turns paragraph and break
// ends into newlines.
func flattenDocxXML(raw []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return string(raw)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func decodePlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("not valid utf-8 text")
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", errors.New("binary payload labeled as text")
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

func normalizeMimeType(mimeType, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean == "application/zip" || clean == "" || clean == "application/octet-stream" {
		if mapped := sniffContainer(data); mapped != "" {
			return mapped
		}
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".pdf":
			return mimePDF
		case ".docx":
			return mimeDOCX
		case ".doc":
			return mimeDOC
		case ".txt":
			return mimePlain
		}
	}
	return clean
}

// sniffContainer recognizes payloads by leading bytes and zip entries,
// for callers that label everything application/zip or octet-stream.
func sniffContainer(data []byte) string {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return mimePDF
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return mimeDOCX
		}
	}
	return ""
}
