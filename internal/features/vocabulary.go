package features

// Keywords is the reference vocabulary of recruiting and technology terms.
// Terms are matched as substrings of the lowercased text, so short entries
// such as "r", "go" and "ai" match inside longer words.
var Keywords = []string{
	"javascript", "python", "java", "c++", "c#", "php", "ruby", "go", "rust", "swift",
	"kotlin", "scala", "typescript", "html", "css", "sql", "r", "matlab",
	"react", "angular", "vue", "node.js", "express", "django", "flask", "spring",
	"laravel", "rails", "jquery", "bootstrap", "tailwind",
	"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle", "cassandra",
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git", "linux",
	"terraform", "ansible", "puppet", "chef",
	"agile", "scrum", "kanban", "ci/cd", "tdd", "bdd", "microservices", "api",
	"rest", "graphql", "machine learning", "ai", "data science", "analytics",
	"project management", "leadership", "team lead", "mentoring",
}

// Skills is the vocabulary of general technical-competency phrases.
var Skills = []string{
	"programming", "development", "software engineering", "web development",
	"mobile development", "database design", "system administration",
	"network administration", "cybersecurity", "data analysis", "testing",
	"debugging", "problem solving", "algorithm design", "architecture",
}
