package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slugInvalid    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
	slugEdgeHyphen = regexp.MustCompile(`^-+|-+$`)
)

// Slug returns the URL-friendly form of a course name.
func Slug(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return slugEdgeHyphen.ReplaceAllString(s, "")
}

// SlugURL returns the canonical course path, /courses/<slug>-<id>.
func SlugURL(id int, name string) string {
	return "/courses/" + Slug(name) + "-" + strconv.Itoa(id)
}

// IDFromSlug extracts the numeric id after the last hyphen. The id is the
// source of truth, the name part is cosmetic.
func IDFromSlug(slug string) (int, bool) {
	i := strings.LastIndexByte(slug, '-')
	if i == -1 {
		return 0, false
	}

	raw := slug[i+1:]
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, false
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return id, true
}

// ValidSlug reports whether slug is the canonical slug for the course.
// A false result means the caller should redirect to SlugURL.
func ValidSlug(slug string, id int, name string) bool {
	got, ok := IDFromSlug(slug)
	if !ok || got != id {
		return false
	}

	return slug[:strings.LastIndexByte(slug, '-')] == Slug(name)
}
