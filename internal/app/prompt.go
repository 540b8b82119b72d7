package app

import (
	"fmt"
	"strings"

	"crackit/pkg/domain"
)

const roadmapSystemPrompt = "You are an expert career coach specializing in tech placements. Create personalized roadmaps that address individual weaknesses and company-specific requirements."

// buildRoadmapPrompt renders a goal and survey pair into the generation
// request. Pure and deterministic: identical inputs always produce
// identical text.
func buildRoadmapPrompt(goal domain.Goal, survey domain.SurveyResponse) string {
	companies := strings.Join(goal.TargetCompanies, ", ")
	techStack := strings.Join(goal.TechStack, ", ")
	languages := strings.Join(survey.ProgrammingLanguages, ", ")
	internship := "No"
	if survey.InternshipExperience {
		internship = "Yes"
	}

	var sb strings.Builder
	sb.WriteString("Generate a highly personalized placement preparation roadmap based on this SPECIFIC user profile:\n\n")
	sb.WriteString("USER PROFILE:\n")
	fmt.Fprintf(&sb, "- Target Companies: %s\n", companies)
	fmt.Fprintf(&sb, "- Domain: %s\n", goal.PreferredDomain)
	fmt.Fprintf(&sb, "- Expected Salary: ₹%d\n", goal.ExpectedSalary)
	fmt.Fprintf(&sb, "- Tech Stack: %s\n\n", techStack)
	sb.WriteString("CURRENT SKILL LEVELS (1-10 scale):\n")
	fmt.Fprintf(&sb, "- DSA: %d/10\n", survey.DSASkill)
	fmt.Fprintf(&sb, "- Operating Systems: %d/10\n", survey.OSKnowledge)
	fmt.Fprintf(&sb, "- Database Management: %d/10\n", survey.DBMSSkill)
	fmt.Fprintf(&sb, "- Object-Oriented Programming: %d/10\n", survey.OOPSUnderstanding)
	fmt.Fprintf(&sb, "- Computer Networks: %d/10\n\n", survey.NetworkingKnowledge)
	sb.WriteString("EXPERIENCE PROFILE:\n")
	fmt.Fprintf(&sb, "- Programming Languages: %s\n", languages)
	fmt.Fprintf(&sb, "- Projects Completed: %d\n", survey.ProjectCount)
	fmt.Fprintf(&sb, "- Internship Experience: %s\n", internship)
	fmt.Fprintf(&sb, "- Daily Practice Hours: %d\n\n", survey.CodingPracticeHours)
	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString("Create a UNIQUE roadmap with 15-20 learning topics that:\n")
	fmt.Fprintf(&sb, "1. Focuses heavily on %s specific skills\n", goal.PreferredDomain)
	sb.WriteString("2. Prioritizes weak areas (skills rated below 7/10)\n")
	fmt.Fprintf(&sb, "3. Matches %s company requirements\n", companies)
	sb.WriteString("4. Considers the user's current experience level\n")
	fmt.Fprintf(&sb, "5. Includes domain-specific technologies from their tech stack: %s\n\n", techStack)
	sb.WriteString("Each topic should have:\n")
	sb.WriteString("- topic: Clear, specific topic name\n")
	sb.WriteString("- description: 1-2 sentences explaining why it's important for this user\n")
	sb.WriteString("- priority: High/Medium/Low based on user's weak areas and target companies\n")
	sb.WriteString("- estimated_hours: Realistic hours needed based on current skill level\n")
	sb.WriteString("- resources: 2-3 specific resources (prefer user's programming languages when possible)\n\n")
	sb.WriteString("Return ONLY a JSON array of objects with the above keys.")
	return sb.String()
}
