// Package repo carries the repository identity a command line argument names.
package repo

import "strings"

// DefaultLabel stands in when a repository has no display name.
const DefaultLabel = "unknown/repo"

// Repo identifies one repository on the analysis server. ID addresses the
// listing endpoint; FullName is the owner/name label shown to the user.
type Repo struct {
	ID       string
	FullName string
}

// Label returns the display name, falling back to DefaultLabel.
func (r Repo) Label() string {
	if r.FullName == "" {
		return DefaultLabel
	}
	return r.FullName
}

// Parse reads a repository argument. The form "42=acme/widget" carries both
// the server ID and the label; a bare "acme/widget" carries the label only,
// leaving the ID empty.
func Parse(argument string) Repo {
	argument = strings.TrimSpace(argument)
	if id, name, ok := strings.Cut(argument, "="); ok {
		return Repo{ID: strings.TrimSpace(id), FullName: strings.TrimSpace(name)}
	}
	return Repo{FullName: argument}
}

// ParseAll maps Parse over a list of arguments.
func ParseAll(arguments []string) []Repo {
	repos := make([]Repo, 0, len(arguments))
	for _, argument := range arguments {
		repos = append(repos, Parse(argument))
	}
	return repos
}
