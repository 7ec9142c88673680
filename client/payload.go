package client

import (
	"encoding/json"
	"errors"
	"strings"
)

// PayloadKind tags the decoded form of a response body.
type PayloadKind int

const (
	PayloadText PayloadKind = iota
	PayloadJSON
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadJSON:
		return "json"
	case PayloadText:
		return "text"
	default:
		return "unknown"
	}
}

// Payload is a response body decoded according to its declared
// content type.
type Payload struct {
	Kind PayloadKind

	// JSON holds the validated body when Kind is PayloadJSON.
	JSON json.RawMessage

	// Text holds the raw body when Kind is PayloadText.
	Text string
}

var errMalformedJSON = errors.New("malformed JSON response")

// decodePayload inspects the content type and decodes body accordingly.
// A body declared as JSON that does not parse is an error.
func decodePayload(contentType string, body []byte) (Payload, error) {
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return Payload{Kind: PayloadText, Text: string(body)}, nil
	}

	if !json.Valid(body) {
		return Payload{}, errMalformedJSON
	}

	return Payload{Kind: PayloadJSON, JSON: json.RawMessage(body)}, nil
}

// errorMessage extracts a failure message with the precedence: the
// `error` field of a JSON body, the raw text body, the status line.
// JSON bodies without an `error` string fall through to the status line.
func (p Payload) errorMessage(status int, reason string) string {
	switch p.Kind {
	case PayloadJSON:
		var body struct {
			Error any `json:"error"`
		}
		if err := json.Unmarshal(p.JSON, &body); err == nil {
			if msg, ok := body.Error.(string); ok && msg != "" {
				return msg
			}
		}
	case PayloadText:
		if p.Text != "" {
			return p.Text
		}
	}

	return statusLine(status, reason)
}

// Envelope is the normalized value returned for a successful request.
type Envelope struct {
	StatusCode int
	Payload    Payload
}

// Bytes returns the envelope as JSON: the body unchanged for JSON
// payloads, {"ok":true,"text":...} for text payloads.
func (e *Envelope) Bytes() ([]byte, error) {
	if e.Payload.Kind == PayloadJSON {
		return e.Payload.JSON, nil
	}

	return json.Marshal(textEnvelope{OK: true, Text: e.Payload.Text})
}

// Decode unmarshals the envelope into v.
func (e *Envelope) Decode(v any) error {
	data, err := e.Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Map decodes the envelope into a generic object. A JSON body that is
// not an object results in an error.
func (e *Envelope) Map() (map[string]any, error) {
	var m map[string]any
	if err := e.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

type textEnvelope struct {
	OK   bool   `json:"ok"`
	Text string `json:"text"`
}
