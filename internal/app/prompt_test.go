package app

import (
	"context"
	"strings"
	"testing"

	"crackit/pkg/domain"
)

func TestBuildRoadmapPromptContent(t *testing.T) {
	goal := domain.Goal{
		TargetCompanies: []string{"Google", "Amazon"},
		PreferredDomain: "Backend Development",
		ExpectedSalary:  1200000,
		TechStack:       []string{"Go", "PostgreSQL"},
	}
	survey := strongSurvey()
	survey.DSASkill = 4
	survey.InternshipExperience = true

	prompt := buildRoadmapPrompt(goal, survey)

	for _, want := range []string{
		"- Target Companies: Google, Amazon\n",
		"- Domain: Backend Development\n",
		"- Expected Salary: ₹1200000\n",
		"- Tech Stack: Go, PostgreSQL\n",
		"- DSA: 4/10\n",
		"- Programming Languages: Go, Python\n",
		"- Internship Experience: Yes\n",
		"Return ONLY a JSON array of objects with the above keys.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildRoadmapPromptDeterministic(t *testing.T) {
	goal := domain.Goal{TargetCompanies: []string{"TCS"}, PreferredDomain: "Data Science"}
	survey := strongSurvey()
	if buildRoadmapPrompt(goal, survey) != buildRoadmapPrompt(goal, survey) {
		t.Fatal("prompt is not deterministic")
	}
}

func TestBuildRoadmapPromptEmptyProfile(t *testing.T) {
	prompt := buildRoadmapPrompt(domain.Goal{}, domain.SurveyResponse{})
	if !strings.Contains(prompt, "- Internship Experience: No\n") {
		t.Fatalf("empty profile prompt wrong:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Target Companies: \n") {
		t.Fatalf("empty companies not rendered:\n%s", prompt)
	}
}

func TestCompleteAbsorbsEmptyOutput(t *testing.T) {
	a, _ := newTestApp(t, stubGenerator{text: "   \n"})
	completion := a.complete(context.Background(), roadmapSystemPrompt, "hello")
	if !completion.Degraded {
		t.Fatal("blank output not marked degraded")
	}
	if completion.Text != degradedResponseText {
		t.Fatalf("text = %q", completion.Text)
	}
}
