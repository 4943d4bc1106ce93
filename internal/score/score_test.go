package score

import (
	"context"
	"testing"

	"resume-pipeline/internal/extract"
)

const fullResume = `Jane Doe
jane.doe@example.com | +1 555 010 7788

Summary
Backend engineer who designed and shipped payment systems handling 2 million requests daily.

Experience
Software Engineer, Acme Corp, 2021-2024
- Led migration that reduced latency by 40%

Education
B.S. Computer Science, State University, 2019

Skills
Go, PostgreSQL, Kubernetes, Terraform, Redis
`

func extractFixture(t *testing.T, text string) extract.Content {
	t.Helper()
	content, err := extract.Extract(context.Background(), []byte(text), "text/plain", "resume.txt")
	if err != nil {
		t.Fatalf("extract fixture: %v", err)
	}
	return content
}

func assertBounds(t *testing.T, result Result) {
	t.Helper()
	check := func(name string, v int) {
		if v < 0 || v > 100 {
			t.Fatalf("%s = %d, out of [0,100]", name, v)
		}
	}
	check("overall", result.OverallScore)
	check("ats", result.CategoryScores.ATS)
	check("keywords", result.CategoryScores.Keywords)
	check("format", result.CategoryScores.Format)
	check("content", result.CategoryScores.Content)
	check("impact", result.CategoryScores.Impact)
	check("readability", result.CategoryScores.Readability)
}

func TestScoreBoundsFullResume(t *testing.T) {
	assertBounds(t, Score(extractFixture(t, fullResume)))
}

func TestScoreBoundsEmptyContent(t *testing.T) {
	result := Score(extract.Content{})
	assertBounds(t, result)
}

func TestScoreIsDeterministicUpToIdentity(t *testing.T) {
	content := extractFixture(t, fullResume)
	first := Score(content)
	second := Score(content)
	if first.CategoryScores != second.CategoryScores {
		t.Fatalf("category scores differ: %+v vs %+v", first.CategoryScores, second.CategoryScores)
	}
	if first.OverallScore != second.OverallScore {
		t.Fatalf("overall differs: %d vs %d", first.OverallScore, second.OverallScore)
	}
}

func TestMissingSkillsReducesKeywords(t *testing.T) {
	withSkills := Score(extractFixture(t, fullResume))

	noSkills := `jane@example.com

Summary
Backend engineer who designed payment systems.

Experience
Engineer at Acme, 2020-2024

Education
B.S., 2016
`
	without := Score(extractFixture(t, noSkills))
	if without.CategoryScores.Keywords >= withSkills.CategoryScores.Keywords {
		t.Fatalf("keywords without skills (%d) should trail with skills (%d)",
			without.CategoryScores.Keywords, withSkills.CategoryScores.Keywords)
	}
}

func TestATSIssuesReduceATSScore(t *testing.T) {
	clean := Score(extractFixture(t, fullResume))

	messy := "Anonymous Resume\n➤ thing one\n➤ thing two\nno contact details here\n"
	withIssues := Score(extractFixture(t, messy))
	if withIssues.CategoryScores.ATS >= clean.CategoryScores.ATS {
		t.Fatalf("ats with issues (%d) should trail clean (%d)",
			withIssues.CategoryScores.ATS, clean.CategoryScores.ATS)
	}
}

func TestSuggestionsCoverMissingContent(t *testing.T) {
	content := extractFixture(t, "jane@example.com\n\nExperience\nEngineer, 2020\n")
	result := Score(content)
	if len(result.Suggestions) == 0 {
		t.Fatal("expected suggestions for missing sections")
	}
	found := false
	for _, s := range result.Suggestions {
		if s.ID == "missing-skills" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no missing-skills suggestion in %v", result.Suggestions)
	}
}
