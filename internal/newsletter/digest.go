package newsletter

import (
	"fmt"
	"strings"

	"github.com/quietpage/folio/internal/content"
)

// Digest builds the plain-text body for a recent-posts campaign. The
// caller decides how many posts to include and pastes or sends the
// result through the provider.
func Digest(siteTitle, baseURL string, posts []*content.Post) string {
	base := strings.TrimRight(baseURL, "/")

	var sb strings.Builder
	sb.WriteString("Latest from ")
	sb.WriteString(siteTitle)
	sb.WriteString("\n")

	if len(posts) == 0 {
		sb.WriteString("\nNo new posts this time.\n")
		return sb.String()
	}

	for _, p := range posts {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s (%s)\n", p.Title, p.Date.Format("Jan 2, 2006")))
		if p.Summary != "" {
			sb.WriteString(p.Summary)
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s/blog/%s\n", base, p.Slug))
	}
	return sb.String()
}
