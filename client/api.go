package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/newus-learner-hub/hubgate/client/schema"
	"github.com/xeipuuv/gojsonschema"
)

// Lead is a contact form submission.
type Lead struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message,omitempty"`
}

// Subscription is a newsletter sign-up.
type Subscription struct {
	Email string `json:"email"`
}

// CourseInquiry requests a brochure or registers interest in a course.
type CourseInquiry struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Course      string `json:"course"`
	BrochureURL string `json:"brochureUrl,omitempty"`
}

// ValidationError reports a payload rejected before any network call.
type ValidationError struct {
	Type   schema.SchemaType
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Type, strings.Join(e.Fields, "; "))
}

func newValidationError(t schema.SchemaType, result *gojsonschema.Result) *ValidationError {
	fields := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		if field := e.Field(); field != "(root)" {
			fields = append(fields, field+": "+e.Description())
		} else {
			fields = append(fields, e.Description())
		}
	}

	return &ValidationError{Type: t, Fields: fields}
}

// API exposes the backend endpoints used by the site's forms.
type API struct {
	client  *Client
	schemas *schema.Schema
}

// NewAPI creates the endpoint wrapper around c.
func NewAPI(c *Client) (*API, error) {
	schemas, err := schema.New()
	if err != nil {
		return nil, err
	}

	return &API{client: c, schemas: schemas}, nil
}

// SubmitLead posts a contact lead to /lead.
func (a *API) SubmitLead(ctx context.Context, lead Lead) (*Envelope, error) {
	return a.post(ctx, "/lead", schema.SchemaTypeLead, lead)
}

// SubscribeNewsletter posts a subscription to /newsletter.
func (a *API) SubscribeNewsletter(ctx context.Context, sub Subscription) (*Envelope, error) {
	return a.post(ctx, "/newsletter", schema.SchemaTypeNewsletter, sub)
}

// SubmitCourseInquiry posts a brochure request to /course-inquiry.
func (a *API) SubmitCourseInquiry(ctx context.Context, inquiry CourseInquiry) (*Envelope, error) {
	return a.post(ctx, "/course-inquiry", schema.SchemaTypeCourseInquiry, inquiry)
}

// CheckHealth calls /health.
func (a *API) CheckHealth(ctx context.Context) (*Envelope, error) {
	return a.client.Request(ctx, "/health", Options{Method: http.MethodGet})
}

func (a *API) post(ctx context.Context, endpoint string, t schema.SchemaType, payload any) (*Envelope, error) {
	res, err := a.schemas.Validate(t, payload)
	if err != nil {
		return nil, err
	}

	if !res.Valid() {
		return nil, newValidationError(t, res)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return a.client.Request(ctx, endpoint, Options{
		Method: http.MethodPost,
		Body:   body,
	})
}
