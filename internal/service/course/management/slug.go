package management

import (
	"strings"

	"SimpleMOOC/internal/models"

	"github.com/gosimple/slug"
)

// Slugify transliterates name to ASCII, lowercases it and joins the words with
// hyphens, cut to the course slug limit.
func Slugify(name string) string {
	s := slug.Make(name)
	if len(s) > models.CourseSlugMaxLen {
		s = strings.TrimRight(s[:models.CourseSlugMaxLen], "-")
	}
	return s
}
