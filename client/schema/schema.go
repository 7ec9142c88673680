package schema

import (
	_ "embed"
	"errors"

	"github.com/xeipuuv/gojsonschema"
)

type SchemaType int

const (
	SchemaTypeLead SchemaType = iota
	SchemaTypeNewsletter
	SchemaTypeCourseInquiry
)

func (t SchemaType) String() string {
	switch t {
	case SchemaTypeLead:
		return "lead"
	case SchemaTypeNewsletter:
		return "newsletter"
	case SchemaTypeCourseInquiry:
		return "course inquiry"
	default:
		return "unknown"
	}
}

var ErrSchemaNotFound = errors.New("schema not found")

type Schema struct {
	schemas map[SchemaType]*gojsonschema.Schema
}

func (s *Schema) Get(schemaType SchemaType) (*gojsonschema.Schema, error) {
	schema, ok := s.schemas[schemaType]
	if !ok {
		return nil, ErrSchemaNotFound
	}

	return schema, nil
}

// Validate checks data, which is marshalled to JSON first, against the
// schema of the given type.
func (s *Schema) Validate(schemaType SchemaType, data any) (*gojsonschema.Result, error) {
	schema, err := s.Get(schemaType)
	if err != nil {
		return nil, err
	}

	return schema.Validate(gojsonschema.NewGoLoader(data))
}

//go:embed lead.json
var leadSchema []byte

//go:embed newsletter.json
var newsletterSchema []byte

//go:embed course-inquiry.json
var courseInquirySchema []byte

// New compiles the embedded payload schemas.
func New() (*Schema, error) {
	sources := map[SchemaType][]byte{
		SchemaTypeLead:          leadSchema,
		SchemaTypeNewsletter:    newsletterSchema,
		SchemaTypeCourseInquiry: courseInquirySchema,
	}

	schemas := make(map[SchemaType]*gojsonschema.Schema, len(sources))
	for t, src := range sources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(src))
		if err != nil {
			return nil, err
		}
		schemas[t] = schema
	}

	return &Schema{schemas: schemas}, nil
}
