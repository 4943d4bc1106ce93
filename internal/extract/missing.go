package extract

// sectionExpectation drives the missing-content report. Impact is the
// scoring penalty applied when the section is entirely absent.
type sectionExpectation struct {
	section     SectionType
	importance  string
	description string
	examples    []string
	impact      float64
}

var sectionExpectations = []sectionExpectation{
	{
		section:     SectionContact,
		importance:  ImportanceRequired,
		description: "Recruiters need a way to reach you",
		examples:    []string{"jane.doe@example.com", "+1 555 010 7788"},
		impact:      15,
	},
	{
		section:     SectionExperience,
		importance:  ImportanceRequired,
		description: "Work history is the core of a resume",
		examples:    []string{"Software Engineer, Acme Corp, 2021-2024"},
		impact:      20,
	},
	{
		section:     SectionEducation,
		importance:  ImportanceRequired,
		description: "Most screeners filter on education",
		examples:    []string{"B.S. Computer Science, State University, 2019"},
		impact:      10,
	},
	{
		section:     SectionSkills,
		importance:  ImportanceRequired,
		description: "Skills drive keyword matching in applicant tracking systems",
		examples:    []string{"Go, PostgreSQL, Kubernetes"},
		impact:      15,
	},
	{
		section:     SectionSummary,
		importance:  ImportanceRecommended,
		description: "A short summary frames the rest of the document",
		examples:    []string{"Backend engineer with 6 years building payment systems"},
		impact:      8,
	},
	{
		section:     SectionProjects,
		importance:  ImportanceRecommended,
		description: "Projects show initiative beyond job duties",
		examples:    []string{"Open-source contributor to a widely used Go library"},
		impact:      5,
	},
}

// reportMissingContent synthesizes one alert per required or
// recommended section entirely absent from the document.
func reportMissingContent(sections []Section) []MissingContentAlert {
	present := make(map[SectionType]bool, len(sections))
	for _, s := range sections {
		present[s.Type] = true
	}

	alerts := make([]MissingContentAlert, 0, len(sectionExpectations))
	for _, exp := range sectionExpectations {
		if present[exp.section] {
			continue
		}
		alerts = append(alerts, MissingContentAlert{
			Section:     exp.section,
			Importance:  exp.importance,
			Description: exp.description,
			Examples:    exp.examples,
			Impact:      exp.impact,
		})
	}
	return alerts
}

func buildSuggestions(content Content) []ContentSuggestion {
	var out []ContentSuggestion
	for _, alert := range content.MissingContent {
		out = append(out, ContentSuggestion{
			Section: alert.Section,
			Text:    "Add a " + string(alert.Section) + " section",
			Reason:  alert.Description,
		})
	}
	for _, section := range content.Sections {
		for _, s := range section.Suggestions {
			out = append(out, ContentSuggestion{
				Section: section.Type,
				Text:    s,
				Reason:  "Section looks incomplete",
			})
		}
	}
	return out
}
