package proxy

import (
	"encoding/json"
	"net/http"
)

// NewPreflightResponse answers a CORS preflight without contacting the
// upstream. The allowed origin reflects origin, or * when it is empty.
func NewPreflightResponse(origin string) Response {
	if origin == "" {
		origin = "*"
	}

	header := make(http.Header)
	setCORS(header, origin)

	return Response{
		StatusCode: http.StatusNoContent,
		Header:     header,
	}
}

// NewErrorResponse creates a 500 response carrying err's message.
func NewErrorResponse(err error) Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	setCORS(header, "*")

	body, marshalErr := json.Marshal(struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	})
	if marshalErr != nil {
		return Response{StatusCode: http.StatusInternalServerError, Header: header}
	}

	return Response{
		StatusCode: http.StatusInternalServerError,
		Header:     header,
		Body:       body,
	}
}
