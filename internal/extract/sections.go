package extract

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Confidence assigned to a span depending on how it was recognized.
const (
	confidenceExactHeader = 0.95
	confidenceFuzzyHeader = 0.6
	confidenceInferred    = 0.4
)

// headerAliases maps lowercase heading text to a section type. Exact
// matches earn high confidence.
var headerAliases = map[string]SectionType{
	"contact":                 SectionContact,
	"contact information":     SectionContact,
	"summary":                 SectionSummary,
	"professional summary":    SectionSummary,
	"profile":                 SectionSummary,
	"objective":               SectionSummary,
	"about me":                SectionSummary,
	"experience":              SectionExperience,
	"work experience":         SectionExperience,
	"professional experience": SectionExperience,
	"employment history":      SectionExperience,
	"work history":            SectionExperience,
	"education":               SectionEducation,
	"academic background":     SectionEducation,
	"skills":                  SectionSkills,
	"technical skills":        SectionSkills,
	"core competencies":       SectionSkills,
	"projects":                SectionProjects,
	"personal projects":       SectionProjects,
	"certifications":          SectionCertifications,
	"certificates":            SectionCertifications,
	"licenses":                SectionCertifications,
	"awards":                  SectionAwards,
	"honors":                  SectionAwards,
	"achievements":            SectionAwards,
	"languages":               SectionLanguages,
	"references":              SectionReferences,
}

// fuzzyKeywords label a heading-looking line that is not an exact alias.
var fuzzyKeywords = []struct {
	keyword string
	section SectionType
}{
	{"summar", SectionSummary},
	{"experience", SectionExperience},
	{"employment", SectionExperience},
	{"education", SectionEducation},
	{"skill", SectionSkills},
	{"competenc", SectionSkills},
	{"project", SectionProjects},
	{"certif", SectionCertifications},
	{"award", SectionAwards},
	{"honor", SectionAwards},
	{"language", SectionLanguages},
	{"reference", SectionReferences},
	{"contact", SectionContact},
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(\+?\d[\d\s().\-]{7,}\d)`)
	yearRe  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// actionVerbs is the minimal verb list used to judge whether a summary
// actually says something.
var actionVerbs = []string{
	"led", "lead", "built", "build", "managed", "manage", "developed",
	"develop", "designed", "design", "created", "create", "delivered",
	"deliver", "improved", "improve", "launched", "launch", "drove",
	"drive", "owned", "own", "shipped", "ship", "reduced", "increased",
	"implemented", "architected", "mentored", "specialized", "specialize",
}

// segmentSections splits decoded text into labeled spans. The document
// head before the first recognized heading becomes the contact section
// when it carries an email or phone number.
func segmentSections(text string) []Section {
	lines := strings.Split(text, "\n")

	type span struct {
		typ        SectionType
		title      string
		confidence float64
		body       []string
	}
	var spans []span
	var head []string
	current := -1

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if typ, conf, ok := classifyHeading(trimmed); ok {
			spans = append(spans, span{typ: typ, title: trimmed, confidence: conf})
			current = len(spans) - 1
			continue
		}
		if current < 0 {
			head = append(head, line)
			continue
		}
		spans[current].body = append(spans[current].body, line)
	}

	var sections []Section
	if headText := strings.TrimSpace(strings.Join(head, "\n")); headText != "" {
		if emailRe.MatchString(headText) || phoneRe.MatchString(headText) {
			sections = append(sections, buildSection(SectionContact, "Contact", headText, confidenceInferred))
		} else if len(spans) > 0 {
			// Unlabeled prose above the first heading reads as a summary.
			sections = append(sections, buildSection(SectionSummary, "Summary", headText, confidenceInferred))
		}
	}
	for _, s := range spans {
		body := strings.TrimSpace(strings.Join(s.body, "\n"))
		sections = append(sections, buildSection(s.typ, s.title, body, s.confidence))
	}
	return sections
}

func classifyHeading(line string) (SectionType, float64, bool) {
	if line == "" || len(line) > 48 {
		return "", 0, false
	}
	normalized := strings.ToLower(strings.TrimRight(line, ":"))
	normalized = strings.TrimSpace(normalized)
	if typ, ok := headerAliases[normalized]; ok {
		return typ, confidenceExactHeader, true
	}
	// Heading-looking lines only: short, no sentence punctuation.
	if strings.ContainsAny(line, ".!?") || len(strings.Fields(line)) > 5 {
		return "", 0, false
	}
	for _, fk := range fuzzyKeywords {
		if strings.Contains(normalized, fk.keyword) {
			return fk.section, confidenceFuzzyHeader, true
		}
	}
	return "", 0, false
}

func buildSection(typ SectionType, title, body string, confidence float64) Section {
	complete, suggestions := assessCompleteness(typ, body)
	return Section{
		ID:          uuid.NewString(),
		Type:        typ,
		Title:       title,
		Content:     body,
		Confidence:  confidence,
		Suggestions: suggestions,
		IsComplete:  complete,
	}
}

// assessCompleteness flags a section whose required sub-field looks
// absent and suggests the fix.
func assessCompleteness(typ SectionType, body string) (bool, []string) {
	if strings.TrimSpace(body) == "" {
		return false, []string{"Section has a heading but no content"}
	}
	switch typ {
	case SectionContact:
		if !emailRe.MatchString(body) {
			return false, []string{"Add an email address to your contact details"}
		}
	case SectionSummary:
		if !containsActionVerb(body) {
			return false, []string{"Use action verbs to describe what you do"}
		}
	case SectionExperience:
		if !yearRe.MatchString(body) {
			return false, []string{"Add dates to each role"}
		}
	case SectionSkills:
		if len(splitSkillItems(body)) < 3 {
			return false, []string{"List at least a few distinct skills"}
		}
	}
	return true, nil
}

func containsActionVerb(body string) bool {
	lower := strings.ToLower(body)
	for _, verb := range actionVerbs {
		if containsWord(lower, verb) {
			return true
		}
	}
	return false
}

func containsWord(text, word string) bool {
	idx := strings.Index(text, word)
	for idx >= 0 {
		before := idx == 0 || !isWordByte(text[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx >= len(text) || !isWordByte(text[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(text[idx+1:], word)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func splitSkillItems(body string) []string {
	items := strings.FieldsFunc(body, func(r rune) bool {
		switch r {
		case ',', ';', '\n', '|', 0x2022: // bullet
			return true
		}
		return false
	})
	out := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}

// DetectSectionTypes is the cheap scan used by the live preview: it
// labels headings without building section bodies.
func DetectSectionTypes(text string) []SectionType {
	seen := make(map[SectionType]bool)
	var out []SectionType
	for _, line := range strings.Split(text, "\n") {
		typ, _, ok := classifyHeading(strings.TrimSpace(line))
		if !ok || seen[typ] {
			continue
		}
		seen[typ] = true
		out = append(out, typ)
	}
	if !seen[SectionContact] && emailRe.MatchString(text) {
		out = append(out, SectionContact)
	}
	return out
}
