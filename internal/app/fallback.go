package app

import (
	"strings"

	"crackit/pkg/domain"
)

// maxFallbackItems caps the deterministic plan.
const maxFallbackItems = 15

// weakSkillThreshold marks a self-reported rating as a weak area.
const weakSkillThreshold = 7

// weakSkillTopics maps each surveyed skill to the weak-area topic names it
// contributes when rated below the threshold.
var weakSkillTopics = []struct {
	rating func(domain.SurveyResponse) int
	topics []string
}{
	{func(s domain.SurveyResponse) int { return s.DSASkill }, []string{"DSA", "Algorithms", "Data Structures"}},
	{func(s domain.SurveyResponse) int { return s.OSKnowledge }, []string{"Operating Systems"}},
	{func(s domain.SurveyResponse) int { return s.DBMSSkill }, []string{"Database Management"}},
	{func(s domain.SurveyResponse) int { return s.OOPSUnderstanding }, []string{"Object-Oriented Programming"}},
	{func(s domain.SurveyResponse) int { return s.NetworkingKnowledge }, []string{"Computer Networks"}},
}

// weakSkills returns the weak-area topic names for a survey, in the fixed
// skill order.
func weakSkills(survey domain.SurveyResponse) []string {
	var names []string
	for _, entry := range weakSkillTopics {
		if entry.rating(survey) < weakSkillThreshold {
			names = append(names, entry.topics...)
		}
	}
	return names
}

// domainBundles are tested in order against the goal's preferred domain;
// the first substring match wins. No match contributes nothing, which is
// graceful degradation rather than an error.
var domainBundles = []struct {
	substrings []string
	items      []domain.RoadmapItem
}{
	{
		substrings: []string{"Frontend"},
		items: []domain.RoadmapItem{
			{Topic: "React.js Advanced Concepts", Description: "Master hooks, context, and state management for modern React applications", Priority: domain.PriorityHigh, EstimatedHours: 35, Resources: []string{"React Official Documentation", "Frontend Masters React Course", "React TypeScript Cheatsheet"}},
			{Topic: "JavaScript ES6+ Features", Description: "Deep dive into modern JavaScript features and async programming", Priority: domain.PriorityHigh, EstimatedHours: 25, Resources: []string{"MDN JavaScript Guide", "JavaScript.info", "ES6 Features Guide"}},
			{Topic: "CSS Grid & Flexbox Mastery", Description: "Master modern CSS layout techniques for responsive design", Priority: domain.PriorityHigh, EstimatedHours: 20, Resources: []string{"CSS Grid Guide", "Flexbox Froggy", "CSS-Tricks Flexbox Guide"}},
			{Topic: "Frontend Performance Optimization", Description: "Learn techniques to optimize web application performance", Priority: domain.PriorityMedium, EstimatedHours: 30, Resources: []string{"Web.dev Performance", "Chrome DevTools Guide", "Frontend Performance Checklist"}},
		},
	},
	{
		substrings: []string{"Backend", "Full Stack"},
		items: []domain.RoadmapItem{
			{Topic: "REST API Design Principles", Description: "Master RESTful API design and best practices", Priority: domain.PriorityHigh, EstimatedHours: 25, Resources: []string{"REST API Tutorial", "API Design Best Practices", "Postman API Testing"}},
			{Topic: "Database Optimization", Description: "Learn query optimization and database performance tuning", Priority: domain.PriorityHigh, EstimatedHours: 35, Resources: []string{"SQL Performance Tuning", "Database Indexing Guide", "Query Optimization Techniques"}},
			{Topic: "Microservices Architecture", Description: "Understand distributed systems and microservices patterns", Priority: domain.PriorityMedium, EstimatedHours: 40, Resources: []string{"Microservices Patterns", "System Design Primer", "Docker & Kubernetes Basics"}},
		},
	},
	{
		substrings: []string{"Data Science", "Machine Learning"},
		items: []domain.RoadmapItem{
			{Topic: "Statistics and Probability", Description: "Master statistical concepts essential for data analysis", Priority: domain.PriorityHigh, EstimatedHours: 30, Resources: []string{"Khan Academy Statistics", "Think Stats", "Statistical Learning with R"}},
			{Topic: "Machine Learning Algorithms", Description: "Understand supervised and unsupervised learning algorithms", Priority: domain.PriorityHigh, EstimatedHours: 45, Resources: []string{"Scikit-learn Documentation", "Andrew Ng ML Course", "Hands-on ML Book"}},
			{Topic: "Data Visualization", Description: "Learn to create meaningful visualizations and dashboards", Priority: domain.PriorityMedium, EstimatedHours: 25, Resources: []string{"Matplotlib/Seaborn Tutorials", "Tableau Basics", "D3.js for Web Viz"}},
		},
	},
}

// skillBundles map weak-area names to remediation items.
// TODO: add remediation bundles for Database Management,
// Object-Oriented Programming, and Computer Networks.
var skillBundles = map[string][]domain.RoadmapItem{
	"DSA": {
		{Topic: "Array and String Manipulation", Description: "Master fundamental array and string algorithms", Priority: domain.PriorityHigh, EstimatedHours: 25, Resources: []string{"LeetCode Array Problems", "GeeksforGeeks Arrays", "Striver's A2Z DSA Sheet"}},
		{Topic: "Dynamic Programming Mastery", Description: "Solve complex optimization problems using DP", Priority: domain.PriorityHigh, EstimatedHours: 35, Resources: []string{"DP Playlist by Aditya Verma", "LeetCode DP Problems", "CSES Problem Set"}},
	},
	"Operating Systems": {
		{Topic: "Process Management & Threading", Description: "Understand process scheduling and synchronization", Priority: domain.PriorityMedium, EstimatedHours: 20, Resources: []string{"Operating System Concepts", "GeeksforGeeks OS", "YouTube OS Tutorials"}},
	},
}

// highBarCompanies gate the company-specific bundle.
var highBarCompanies = []string{"Google", "Microsoft"}

var companyBundle = []domain.RoadmapItem{
	{Topic: "Advanced Algorithm Optimization", Description: "Master complex algorithms for FAANG interviews", Priority: domain.PriorityHigh, EstimatedHours: 40, Resources: []string{"Elements of Programming Interviews", "Cracking the Coding Interview", "LeetCode Hard Problems"}},
}

// coreBundle is included for every profile; the testing item names the
// user's first programming language.
func coreBundle(survey domain.SurveyResponse) []domain.RoadmapItem {
	testingLanguage := "Python"
	if len(survey.ProgrammingLanguages) > 0 {
		testingLanguage = survey.ProgrammingLanguages[0]
	}
	return []domain.RoadmapItem{
		{Topic: "System Design Fundamentals", Description: "Learn scalability patterns and distributed system concepts", Priority: domain.PriorityHigh, EstimatedHours: 30, Resources: []string{"System Design Primer", "Designing Data Intensive Applications", "High Scalability Blog"}},
		{Topic: "Git and Version Control", Description: "Master collaborative development with Git workflows", Priority: domain.PriorityMedium, EstimatedHours: 15, Resources: []string{"Git Documentation", "Atlassian Git Tutorials", "GitHub Workflow Guide"}},
		{Topic: "Testing and Debugging", Description: "Learn unit testing and debugging methodologies", Priority: domain.PriorityMedium, EstimatedHours: 25, Resources: []string{"Testing Best Practices", testingLanguage + " Testing Framework", "Debugging Techniques"}},
		{Topic: "Code Review and Best Practices", Description: "Understand clean code principles and review processes", Priority: domain.PriorityMedium, EstimatedHours: 20, Resources: []string{"Clean Code Book", "Code Review Best Practices", "Refactoring Techniques"}},
	}
}

// fallbackPlan deterministically assembles a roadmap from the bundle
// tables. It folds matched bundles in a fixed order (domain, skill, core,
// company), ranks High-priority items before Medium preserving original
// order within each partition, and truncates to the cap. Items tagged Low
// fall outside both partitions and are dropped by the selection. The core
// bundle guarantees the plan is never empty.
func fallbackPlan(goal domain.Goal, survey domain.SurveyResponse) []domain.RoadmapItem {
	weak := weakSkills(survey)

	var pool []domain.RoadmapItem
	for _, bundle := range domainBundles {
		if matchesAny(goal.PreferredDomain, bundle.substrings) {
			pool = append(pool, bundle.items...)
			break
		}
	}
	for _, name := range weak {
		pool = append(pool, skillBundles[name]...)
	}
	pool = append(pool, coreBundle(survey)...)
	if containsAny(goal.TargetCompanies, highBarCompanies) {
		pool = append(pool, companyBundle...)
	}

	var high, medium []domain.RoadmapItem
	for _, item := range pool {
		switch item.Priority {
		case domain.PriorityHigh:
			high = append(high, item)
		case domain.PriorityMedium:
			medium = append(medium, item)
		}
	}
	ranked := append(high, medium...)
	if len(ranked) > maxFallbackItems {
		ranked = ranked[:maxFallbackItems]
	}
	return ranked
}

func matchesAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func containsAny(values, wanted []string) bool {
	for _, value := range values {
		for _, w := range wanted {
			if value == w {
				return true
			}
		}
	}
	return false
}
