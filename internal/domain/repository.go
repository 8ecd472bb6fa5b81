// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// UnspecifiedLanguage is the bucket used for repositories without a primary language.
const UnspecifiedLanguage = "unspecified"

// Repository is a single public repository as reported by the GitHub API.
// It is the core domain entity of this application.
type Repository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	HTMLURL     string    `json:"html_url"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	License     string    `json:"license_name,omitempty"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	OpenIssues  int       `json:"open_issues_count"`
	Archived    bool      `json:"archived"`
	PushedAt    time.Time `json:"pushed_at,omitempty"`
}

// Profile holds account-level totals that the repository listing alone does not expose.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

// StarCounts returns the star count of every repository, in order.
func StarCounts(repos []Repository) []int {
	counts := make([]int, len(repos))
	for i, r := range repos {
		counts[i] = r.Stars
	}
	return counts
}
