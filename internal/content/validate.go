package content

import (
	"fmt"
	"regexp"
)

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	tagPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
)

const (
	maxTitleLen = 200
	maxTags     = 10
)

// Problems lists everything that would make the post unpublishable.
// An empty result means the post is good to go.
func (p *Post) Problems() []string {
	var problems []string

	if p.Title == "" {
		problems = append(problems, "missing title")
	} else if len(p.Title) > maxTitleLen {
		problems = append(problems, fmt.Sprintf("title longer than %d characters", maxTitleLen))
	}
	if p.Date.IsZero() {
		problems = append(problems, "missing date in front matter")
	}
	if !slugPattern.MatchString(p.Slug) {
		problems = append(problems, fmt.Sprintf("slug %q is not url-safe", p.Slug))
	}
	if len(p.Tags) > maxTags {
		problems = append(problems, fmt.Sprintf("more than %d tags", maxTags))
	}
	for _, tag := range p.Tags {
		if !tagPattern.MatchString(tag) {
			problems = append(problems, fmt.Sprintf("tag %q is not url-safe", tag))
		}
	}
	if p.Summary == "" {
		problems = append(problems, "empty summary and no body paragraph to derive one")
	}
	return problems
}
