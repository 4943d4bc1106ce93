package extract

import "strings"

// Characters that indicate decorative bullets ATS parsers mangle.
const nonStandardBullets = "❖➤✦★◆▪♣❤➜➔"

// scanATSCompatibility checks structural form against the fixed
// compliance checklist and turns each failed item into an issue with a
// textual fix.
func scanATSCompatibility(text string, sections []Section) ATSCompatibility {
	compliance := FormatCompliance{
		NoTables:         !looksTabular(text),
		NoImages:         true, // decoded text carries no images; PDFs with image-only pages decode empty
		StandardBullets:  !strings.ContainsAny(text, nonStandardBullets),
		StandardHeadings: hasStandardHeadings(sections),
		ParseableContact: emailRe.MatchString(text),
		SingleColumn:     !looksMultiColumn(text),
	}
	if strings.TrimSpace(text) == "" {
		compliance.NoImages = false
	}

	var issues []ATSIssue
	var recs []ATSRecommendation
	checks := []struct {
		ok       bool
		severity string
		desc     string
		fix      string
	}{
		{compliance.NoTables, "high", "Tabular layout detected", "Replace tables with plain paragraphs and bullet lists"},
		{compliance.NoImages, "high", "Document decodes to no text, likely image-only", "Export the resume as a text-based PDF rather than a scan"},
		{compliance.StandardBullets, "medium", "Decorative bullet characters detected", "Use plain hyphens or round bullets"},
		{compliance.StandardHeadings, "medium", "Section headings are unconventional", "Use standard headings such as Experience, Education, Skills"},
		{compliance.ParseableContact, "high", "No parseable email address found", "Put a plain-text email address near the top"},
		{compliance.SingleColumn, "low", "Layout may use multiple columns", "Prefer a single-column layout"},
	}
	passed := 0
	for i, check := range checks {
		if check.ok {
			passed++
			continue
		}
		issues = append(issues, ATSIssue{
			Severity:    check.severity,
			Description: check.desc,
			Fix:         check.fix,
		})
		recs = append(recs, ATSRecommendation{Priority: i + 1, Text: check.fix})
	}

	return ATSCompatibility{
		Score:            float64(passed) / float64(len(checks)),
		Issues:           issues,
		Recommendations:  recs,
		FormatCompliance: compliance,
	}
}

// looksTabular treats repeated interior tab runs or box-drawing
// characters as table remnants.
func looksTabular(text string) bool {
	if strings.ContainsAny(text, "│┃┌┐└┘") {
		return true
	}
	tabLines := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.Count(strings.TrimSpace(line), "\t") >= 2 {
			tabLines++
		}
	}
	return tabLines >= 3
}

func hasStandardHeadings(sections []Section) bool {
	for _, s := range sections {
		if s.Confidence >= confidenceExactHeader {
			return true
		}
	}
	return false
}

// looksMultiColumn flags lines with wide interior whitespace gaps, the
// usual residue of two-column PDF extraction.
func looksMultiColumn(text string) bool {
	gapLines := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.TrimSpace(line), strings.Repeat(" ", 8)) {
			gapLines++
		}
	}
	return gapLines >= 5
}
