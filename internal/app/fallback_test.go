package app

import (
	"testing"

	"crackit/pkg/domain"
)

func TestFallbackFrontendWeakDSAGoogle(t *testing.T) {
	goal := domain.Goal{
		PreferredDomain: "Frontend Development",
		TargetCompanies: []string{"Google"},
	}
	survey := strongSurvey()
	survey.DSASkill = 4

	items := fallbackPlan(goal, survey)
	if len(items) == 0 || len(items) > 15 {
		t.Fatalf("unexpected item count: %d", len(items))
	}

	topics := map[string]bool{}
	for _, item := range items {
		topics[item.Topic] = true
	}
	for _, want := range []string{
		"React.js Advanced Concepts",      // frontend bundle
		"Array and String Manipulation",   // DSA weak-skill bundle
		"System Design Fundamentals",      // core bundle
		"Advanced Algorithm Optimization", // Google company bundle
	} {
		if !topics[want] {
			t.Fatalf("expected topic %q in plan, got %v", want, items)
		}
	}

	// High-priority items must all precede Medium ones.
	seenMedium := false
	for _, item := range items {
		switch item.Priority {
		case domain.PriorityMedium:
			seenMedium = true
		case domain.PriorityHigh:
			if seenMedium {
				t.Fatalf("High item %q after Medium items", item.Topic)
			}
		}
	}
}

func TestFallbackCoreBundleAlwaysPresent(t *testing.T) {
	items := fallbackPlan(domain.Goal{PreferredDomain: "Quantum Basket Weaving"}, strongSurvey())
	if len(items) < 4 {
		t.Fatalf("core bundle must guarantee at least 4 items, got %d", len(items))
	}
	topics := map[string]bool{}
	for _, item := range items {
		topics[item.Topic] = true
	}
	for _, want := range []string{
		"System Design Fundamentals",
		"Git and Version Control",
		"Testing and Debugging",
		"Code Review and Best Practices",
	} {
		if !topics[want] {
			t.Fatalf("missing core topic %q", want)
		}
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	goal := domain.Goal{PreferredDomain: "Backend Development", TargetCompanies: []string{"Microsoft"}}
	survey := strongSurvey()
	survey.OSKnowledge = 2

	first := fallbackPlan(goal, survey)
	second := fallbackPlan(goal, survey)
	if len(first) != len(second) {
		t.Fatalf("plans differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Topic != second[i].Topic {
			t.Fatalf("plans differ at %d: %q vs %q", i, first[i].Topic, second[i].Topic)
		}
	}
}

func TestFallbackTestingItemUsesFirstLanguage(t *testing.T) {
	survey := strongSurvey()
	survey.ProgrammingLanguages = []string{"Rust"}
	items := fallbackPlan(domain.Goal{}, survey)
	found := false
	for _, item := range items {
		if item.Topic != "Testing and Debugging" {
			continue
		}
		found = true
		if item.Resources[1] != "Rust Testing Framework" {
			t.Fatalf("unexpected testing resource: %v", item.Resources)
		}
	}
	if !found {
		t.Fatal("testing item missing from plan")
	}
}

func TestWeakSkillsOrderAndThreshold(t *testing.T) {
	survey := strongSurvey()
	survey.DSASkill = 6
	survey.NetworkingKnowledge = 1

	got := weakSkills(survey)
	want := []string{"DSA", "Algorithms", "Data Structures", "Computer Networks"}
	if len(got) != len(want) {
		t.Fatalf("weak skills: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("weak skills: got %v want %v", got, want)
		}
	}

	survey.DSASkill = 7 // exactly at threshold is not weak
	if names := weakSkills(survey); len(names) != 1 || names[0] != "Computer Networks" {
		t.Fatalf("threshold handling wrong: %v", names)
	}
}
