package extract

import "time"

// SectionType is the closed set of resume sections the pipeline knows
// how to label.
type SectionType string

const (
	SectionContact        SectionType = "contact"
	SectionSummary        SectionType = "summary"
	SectionExperience     SectionType = "experience"
	SectionEducation      SectionType = "education"
	SectionSkills         SectionType = "skills"
	SectionProjects       SectionType = "projects"
	SectionCertifications SectionType = "certifications"
	SectionAwards         SectionType = "awards"
	SectionLanguages      SectionType = "languages"
	SectionReferences     SectionType = "references"
)

// AllSectionTypes lists every known section type in canonical order.
var AllSectionTypes = []SectionType{
	SectionContact,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionAwards,
	SectionLanguages,
	SectionReferences,
}

// Importance levels for missing-content reporting.
const (
	ImportanceOptional    = "optional"
	ImportanceRecommended = "recommended"
	ImportanceRequired    = "required"
)

// Section is one labeled span of the document.
type Section struct {
	ID          string      `json:"id"`
	Type        SectionType `json:"type"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Confidence  float64     `json:"confidence"`
	Suggestions []string    `json:"suggestions"`
	IsComplete  bool        `json:"isComplete"`
}

// Metadata describes the decoded document.
type Metadata struct {
	FileName    string    `json:"fileName"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	WordCount   int       `json:"wordCount"`
	LineCount   int       `json:"lineCount"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// MissingContentAlert reports a required or recommended section that is
// entirely absent. Impact is a scoring penalty weight.
type MissingContentAlert struct {
	Section     SectionType `json:"section"`
	Importance  string      `json:"importance"`
	Description string      `json:"description"`
	Examples    []string    `json:"examples"`
	Impact      float64     `json:"impact"`
}

// ContentSuggestion is a document-level improvement hint.
type ContentSuggestion struct {
	Section SectionType `json:"section"`
	Text    string      `json:"text"`
	Reason  string      `json:"reason"`
}

// FormatCompliance is the fixed structural checklist applicant tracking
// systems tend to care about.
type FormatCompliance struct {
	NoTables         bool `json:"noTables"`
	NoImages         bool `json:"noImages"`
	StandardBullets  bool `json:"standardBullets"`
	StandardHeadings bool `json:"standardHeadings"`
	ParseableContact bool `json:"parseableContact"`
	SingleColumn     bool `json:"singleColumn"`
}

// ATSIssue is one failed checklist item with a textual fix.
type ATSIssue struct {
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Fix         string `json:"fix"`
}

// ATSRecommendation is a positive action derived from the checklist.
type ATSRecommendation struct {
	Priority int    `json:"priority"`
	Text     string `json:"text"`
}

// ATSCompatibility aggregates the structural scan.
type ATSCompatibility struct {
	Score            float64             `json:"score"`
	Issues           []ATSIssue          `json:"issues"`
	Recommendations  []ATSRecommendation `json:"recommendations"`
	FormatCompliance FormatCompliance    `json:"formatCompliance"`
}

// Content is the aggregate extraction result. Created once per file and
// treated as immutable by every downstream consumer.
type Content struct {
	Sections         []Section             `json:"sections"`
	Metadata         Metadata              `json:"metadata"`
	Suggestions      []ContentSuggestion   `json:"suggestions"`
	MissingContent   []MissingContentAlert `json:"missingContent"`
	ATSCompatibility ATSCompatibility      `json:"atsCompatibility"`
}

// SectionByType returns the first section of the given type, if any.
func (c *Content) SectionByType(t SectionType) (Section, bool) {
	for _, s := range c.Sections {
		if s.Type == t {
			return s, true
		}
	}
	return Section{}, false
}
