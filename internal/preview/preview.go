// Package preview produces an early, low-fidelity look at a document
// while the pipeline is still running. Best effort only: superseded by
// the full extraction result and never authoritative.
package preview

import (
	"context"
	"strings"

	"resume-pipeline/internal/extract"
)

// Preview is the partial result shown before extraction completes.
type Preview struct {
	IsEnabled        bool                  `json:"isEnabled"`
	ExtractedText    string                `json:"extractedText,omitempty"`
	DetectedSections []extract.SectionType `json:"detectedSections"`
	QualityScore     float64               `json:"qualityScore"`
}

// maxPreviewChars bounds how much decoded text a preview carries.
const maxPreviewChars = 2000

// Generate decodes the payload and returns a truncated text snapshot
// with a cheap section scan and a quality hint. A decode failure yields
// a disabled preview, never an error.
func Generate(ctx context.Context, data []byte, mimeType, fileName string) Preview {
	text, err := extract.DecodeText(ctx, data, mimeType, fileName)
	if err != nil || strings.TrimSpace(text) == "" {
		return Preview{IsEnabled: false, DetectedSections: []extract.SectionType{}}
	}

	sections := extract.DetectSectionTypes(text)
	if sections == nil {
		sections = []extract.SectionType{}
	}

	snippet := text
	if len(snippet) > maxPreviewChars {
		snippet = snippet[:maxPreviewChars]
	}

	return Preview{
		IsEnabled:        true,
		ExtractedText:    snippet,
		DetectedSections: sections,
		QualityScore:     qualityHint(text, len(sections)),
	}
}

// qualityHint is a rough [0,1] signal: enough words and recognizable
// structure read as quality.
func qualityHint(text string, sectionCount int) float64 {
	words := len(strings.Fields(text))

	score := 0.2
	switch {
	case words >= 300:
		score += 0.4
	case words >= 100:
		score += 0.3
	case words >= 30:
		score += 0.15
	}
	if sectionCount >= 4 {
		score += 0.4
	} else {
		score += 0.1 * float64(sectionCount)
	}
	if score > 1 {
		score = 1
	}
	return score
}
