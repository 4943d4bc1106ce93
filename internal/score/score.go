// Package score derives quality scores from extracted content. The
// function is deterministic: the same content always produces the same
// category scores, so scores move predictably when content changes.
package score

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-pipeline/internal/extract"
)

// CategoryScores holds the per-category results, each in [0,100].
type CategoryScores struct {
	ATS         int `json:"ats"`
	Keywords    int `json:"keywords"`
	Format      int `json:"format"`
	Content     int `json:"content"`
	Impact      int `json:"impact"`
	Readability int `json:"readability"`
}

// Suggestion is a prioritized improvement tied to a category.
type Suggestion struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
	Text     string `json:"text"`
}

// Result is the aggregate scoring output for one document.
type Result struct {
	ID                string         `json:"id"`
	OverallScore      int            `json:"overallScore"`
	CategoryScores    CategoryScores `json:"categoryScores"`
	Suggestions       []Suggestion   `json:"suggestions"`
	AnalysisTimestamp time.Time      `json:"analysisTimestamp"`
}

var quantifiedRe = regexp.MustCompile(`\d+(\.\d+)?\s*(%|percent|x\b|ms\b|users|customers|requests|million|billion|k\b|\$)`)

// categoryForSection maps a missing section to the category its impact
// weight penalizes.
var categoryForSection = map[extract.SectionType]string{
	extract.SectionContact:    "content",
	extract.SectionExperience: "content",
	extract.SectionEducation:  "content",
	extract.SectionSkills:     "keywords",
	extract.SectionSummary:    "readability",
	extract.SectionProjects:   "impact",
}

// Score computes category and overall scores from the extraction
// result. Every missing-content alert reduces its mapped category by
// the alert's impact weight, and every ATS issue reduces the ats
// category by its severity.
func Score(content extract.Content) Result {
	scores := CategoryScores{
		ATS:         int(content.ATSCompatibility.Score*100 + 0.5),
		Keywords:    keywordsBase(content),
		Format:      formatBase(content.ATSCompatibility.FormatCompliance),
		Content:     contentBase(content),
		Impact:      impactBase(content),
		Readability: readabilityBase(content),
	}

	for _, issue := range content.ATSCompatibility.Issues {
		scores.ATS -= severityPenalty(issue.Severity)
	}
	for _, alert := range content.MissingContent {
		category := categoryForSection[alert.Section]
		penalty := int(alert.Impact + 0.5)
		switch category {
		case "keywords":
			scores.Keywords -= penalty
		case "impact":
			scores.Impact -= penalty
		case "readability":
			scores.Readability -= penalty
		default:
			scores.Content -= penalty
		}
	}

	scores.ATS = clamp(scores.ATS)
	scores.Keywords = clamp(scores.Keywords)
	scores.Format = clamp(scores.Format)
	scores.Content = clamp(scores.Content)
	scores.Impact = clamp(scores.Impact)
	scores.Readability = clamp(scores.Readability)

	overall := (scores.ATS*25 + scores.Keywords*20 + scores.Content*20 +
		scores.Format*15 + scores.Impact*10 + scores.Readability*10) / 100

	return Result{
		ID:                uuid.NewString(),
		OverallScore:      clamp(overall),
		CategoryScores:    scores,
		Suggestions:       buildSuggestions(content, scores),
		AnalysisTimestamp: time.Now().UTC(),
	}
}

func keywordsBase(content extract.Content) int {
	skills, ok := content.SectionByType(extract.SectionSkills)
	if !ok {
		return 60
	}
	distinct := make(map[string]bool)
	for _, item := range strings.FieldsFunc(skills.Content, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '|'
	}) {
		if trimmed := strings.ToLower(strings.TrimSpace(item)); trimmed != "" {
			distinct[trimmed] = true
		}
	}
	score := 50 + len(distinct)*5
	if score > 100 {
		score = 100
	}
	return score
}

func formatBase(fc extract.FormatCompliance) int {
	flags := []bool{fc.NoTables, fc.NoImages, fc.StandardBullets, fc.StandardHeadings, fc.ParseableContact, fc.SingleColumn}
	passed := 0
	for _, ok := range flags {
		if ok {
			passed++
		}
	}
	return passed * 100 / len(flags)
}

func contentBase(content extract.Content) int {
	score := 40
	for _, s := range content.Sections {
		score += 8
		if s.IsComplete {
			score += 4
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

func impactBase(content extract.Content) int {
	experience, ok := content.SectionByType(extract.SectionExperience)
	if !ok {
		return 40
	}
	matches := quantifiedRe.FindAllString(strings.ToLower(experience.Content), -1)
	score := 50 + len(matches)*10
	if score > 100 {
		score = 100
	}
	return score
}

func readabilityBase(content extract.Content) int {
	words := content.Metadata.WordCount
	lines := content.Metadata.LineCount
	if words == 0 || lines == 0 {
		return 30
	}
	perLine := float64(words) / float64(lines)
	switch {
	case perLine <= 14:
		return 90
	case perLine <= 20:
		return 75
	case perLine <= 28:
		return 60
	default:
		return 45
	}
}

func severityPenalty(severity string) int {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "high":
		return 15
	case "medium":
		return 8
	default:
		return 4
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func buildSuggestions(content extract.Content, scores CategoryScores) []Suggestion {
	var out []Suggestion
	priority := 1
	for _, alert := range content.MissingContent {
		category := categoryForSection[alert.Section]
		if category == "" {
			category = "content"
		}
		out = append(out, Suggestion{
			ID:       fmt.Sprintf("missing-%s", alert.Section),
			Category: category,
			Priority: priority,
			Text:     fmt.Sprintf("Add a %s section: %s", alert.Section, alert.Description),
		})
		priority++
	}
	for _, issue := range content.ATSCompatibility.Issues {
		out = append(out, Suggestion{
			ID:       fmt.Sprintf("ats-%d", priority),
			Category: "ats",
			Priority: priority,
			Text:     issue.Fix,
		})
		priority++
	}
	if scores.Impact < 70 {
		out = append(out, Suggestion{
			ID:       "impact-quantify",
			Category: "impact",
			Priority: priority,
			Text:     "Quantify achievements with numbers, percentages, or scale",
		})
	}
	return out
}
