// Package client validates submissions for callers that hold both the form
// data and the served form schema as JSON, such as the browser build.
package client

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mbolis/quick-form/schema"
	"github.com/mbolis/quick-form/validation"
)

// Validate checks dataJSON against schemaJSON, the body of
// GET /api/form-schema, and returns the error map as JSON ("{}" when the
// data is acceptable). Malformed input is returned as an error, never as a
// field message.
func Validate(dataJSON, schemaJSON string, now time.Time) (string, error) {
	formSchema, err := schema.Load(strings.NewReader(schemaJSON), now)
	if err != nil {
		return "", fmt.Errorf("client.schema: %w", err)
	}

	data := map[string]any{}
	err = json.Unmarshal([]byte(dataJSON), &data)
	if err != nil {
		return "", fmt.Errorf("client.parse_data: %w", err)
	}

	out, err := json.Marshal(validation.Validate(data, formSchema))
	if err != nil {
		return "", fmt.Errorf("client.encode: %w", err)
	}
	return string(out), nil
}
