package pdf

import "github.com/techadmin009/resumegenie/internal/domain"

// ExampleResume returns the sample data used for template previews.
func ExampleResume() domain.Resume {
	return domain.Resume{
		Name:    "Emily Chen",
		Contact: "emily.chen@example.com | +1 555 0123 | San Francisco, CA",
		Education: "B.Sc. Computer Science, Stanford University, 2018-2022. " +
			"Graduated with honors, focus on distributed systems.",
		Experience: "Software Engineer at Acme Corp (2022-present): built and operated " +
			"customer-facing APIs serving millions of requests per day. " +
			"Intern at BetaSoft (2021): prototyped internal tooling for release automation.",
		Skills:  "Go, Python, PostgreSQL, Kubernetes, distributed systems, technical writing",
		Summary: "Product-minded software engineer with a track record of shipping reliable " +
			"backend services and mentoring junior teammates.",
	}
}
