package app

// Static reference data served to the frontend for pickers.

var Companies = []string{
	"Google", "Microsoft", "Amazon", "Apple", "Meta", "Netflix", "Adobe",
	"Salesforce", "Oracle", "IBM", "Uber", "LinkedIn", "Twitter", "Spotify",
	"Airbnb", "Dropbox", "Slack", "Zoom", "PayPal", "Tesla",
}

var TechDomains = []string{
	"Full Stack Development", "Frontend Development", "Backend Development",
	"Mobile Development", "Data Science", "Machine Learning", "DevOps",
	"Cloud Computing", "Cybersecurity", "Game Development", "UI/UX Design",
}

var ProgrammingLanguages = []string{
	"Python", "JavaScript", "Java", "C++", "C#", "Go", "Rust", "TypeScript",
	"Swift", "Kotlin", "PHP", "Ruby", "Scala", "R", "MATLAB",
}
