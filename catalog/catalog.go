// Package catalog holds the course catalog shown on the site and used to
// ground the course assistant.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed courses.yaml
var coursesYAML []byte

// ErrCourseNotFound is returned when no course matches a lookup.
var ErrCourseNotFound = errors.New("course not found")

type Course struct {
	ID          int      `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Outcome     string   `yaml:"outcome" json:"outcome"`
	Duration    string   `yaml:"duration" json:"duration"`
	Tools       []string `yaml:"tools" json:"tools"`
	Content     []string `yaml:"content" json:"content"`
	Placement   string   `yaml:"placement" json:"placement"`
	Type        string   `yaml:"type" json:"type"`
	CourseType  string   `yaml:"coursetype" json:"coursetype"`
	Brochure    string   `yaml:"brochure,omitempty" json:"brochure,omitempty"`
}

// URL returns the canonical path of the course page.
func (c Course) URL() string {
	return SlugURL(c.ID, c.Name)
}

// Summary is the projection of a course handed to the assistant. It omits
// ids and links.
type Summary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Outcome     string   `json:"outcome"`
	Duration    string   `json:"duration"`
	Tools       []string `json:"tools"`
	Content     []string `json:"content"`
	Placement   string   `json:"placement"`
	Type        string   `json:"type"`
	CourseType  string   `json:"coursetype"`
}

type Catalog struct {
	courses []Course
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(coursesYAML)
}

// Parse decodes a YAML list of courses.
func Parse(data []byte) (*Catalog, error) {
	var courses []Course
	if err := yaml.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("parsing courses: %w", err)
	}

	seen := make(map[int]string, len(courses))
	for _, c := range courses {
		if c.Name == "" {
			return nil, fmt.Errorf("course %d has no name", c.ID)
		}
		if other, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("duplicate course id %d: %q and %q", c.ID, other, c.Name)
		}
		seen[c.ID] = c.Name
	}

	return &Catalog{courses: courses}, nil
}

// Courses returns a copy of all courses in catalog order.
func (c *Catalog) Courses() []Course {
	return append([]Course(nil), c.courses...)
}

func (c *Catalog) Find(id int) (Course, error) {
	for _, course := range c.courses {
		if course.ID == id {
			return course, nil
		}
	}

	return Course{}, ErrCourseNotFound
}

// FindSlug resolves a /courses/:slug parameter. The name part of the slug
// is ignored; use ValidSlug to decide whether to redirect.
func (c *Catalog) FindSlug(slug string) (Course, error) {
	id, ok := IDFromSlug(slug)
	if !ok {
		return Course{}, ErrCourseNotFound
	}

	return c.Find(id)
}

// Search filters courses whose name or description contains query,
// ignoring case. An empty kind or "All" matches every type.
func (c *Catalog) Search(query, kind string) []Course {
	q := strings.ToLower(query)

	var out []Course
	for _, course := range c.courses {
		if kind != "" && kind != "All" && course.Type != kind {
			continue
		}
		if strings.Contains(strings.ToLower(course.Name), q) ||
			strings.Contains(strings.ToLower(course.Description), q) {
			out = append(out, course)
		}
	}

	return out
}

// Recommend returns up to limit other courses, preferring the same type,
// then the same course type, then the rest of the catalog in order.
// A non-positive limit yields no recommendations.
func (c *Catalog) Recommend(current Course, limit int) []Course {
	if limit <= 0 {
		return nil
	}

	var out []Course
	added := map[string]bool{current.Name: true}

	add := func(match func(Course) bool) {
		for _, course := range c.courses {
			if !added[course.Name] && match(course) {
				added[course.Name] = true
				out = append(out, course)
			}
		}
	}

	add(func(o Course) bool { return o.Type == current.Type })
	add(func(o Course) bool { return o.CourseType == current.CourseType })
	add(func(Course) bool { return true })

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}

func (c *Catalog) Summaries() []Summary {
	out := make([]Summary, 0, len(c.courses))
	for _, course := range c.courses {
		out = append(out, Summary{
			Name:        course.Name,
			Description: course.Description,
			Outcome:     course.Outcome,
			Duration:    course.Duration,
			Tools:       course.Tools,
			Content:     course.Content,
			Placement:   course.Placement,
			Type:        course.Type,
			CourseType:  course.CourseType,
		})
	}

	return out
}
