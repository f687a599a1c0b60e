package site

type Link struct {
	Icon     string
	Text     string
	Href     string
	External bool
}

type Job struct {
	Role    string
	Company string
	Period  string
	Bullets []string
}

type Project struct {
	Title       string
	Description string
	Stack       []string
	URL         string
}

// Content is the static copy rendered on the home page.
type Content struct {
	Name       string
	AboutMe    string
	Skills     []string
	Experience []Job
	Projects   []Project
	Links      []Link
}

var DefaultContent = Content{
	Name: "Sabirov",
	AboutMe: `I build backend systems that stay boring in production: queues that drain,
	services that restart cleanly and APIs that say what they mean. Most of my projects start
	with a small itch and end up as a chance to learn a new tool or a new corner of a protocol.`,
	Skills: []string{"Go", "Python", "PostgreSQL", "Kafka", "Redis", "Docker", "Kubernetes", "Linux"},
	Experience: []Job{
		{
			Role:    "Backend Developer",
			Company: "Freelance",
			Period:  "2022 - Present",
			Bullets: []string{
				"Designed contact and notification pipelines with Kafka and a Telegram delivery bot",
				"Ran Redis Sentinel and PostgreSQL clusters behind Traefik for small production sites",
			},
		},
	},
	Projects: []Project{
		{
			Title:       "sabirov.tech",
			Description: "This site: server-rendered pages, an HTMX contact form and privacy-friendly visitor metrics.",
			Stack:       []string{"Go", "Gin", "HTMX", "SQLite"},
		},
		{
			Title:       "Contact pipeline",
			Description: "A queue-backed contact endpoint that rate limits by client and forwards requests to Telegram.",
			Stack:       []string{"FastAPI", "Kafka", "Redis", "PostgreSQL"},
		},
	},
	Links: []Link{
		{Icon: "📧", Text: "contact@sabirov.tech", Href: "mailto:contact@sabirov.tech"},
		{Icon: "💬", Text: "Telegram", Href: "https://t.me/savik175", External: true},
		{Icon: "🐙", Text: "GitHub", Href: "https://github.com/SabirovSR", External: true},
	},
}
