package tags

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/handiism/imagedata/internal/model"
)

var (
	// ErrNoTags is returned when a sidecar has no "tags" key or its value is not a list.
	ErrNoTags = errors.New("no 'tags' array found")

	// ErrBadTag is returned when a "tags" list holds something other than strings.
	ErrBadTag = errors.New("tags list contains a non-string value")
)

// ParseSidecar extracts the joined tag string from a JSON sidecar.
//
// The document must be a JSON object whose "tags" value is a list of
// strings; every other key is ignored. The tags are joined with "; ":
//
//	ParseSidecar([]byte(`{"tags": ["x", "y"], "place": "canal"}`)) // "x; y", nil
//
// Returns an error if:
//   - The data is not valid JSON
//   - There is no "tags" list (ErrNoTags)
//   - A tag is not a string (ErrBadTag)
func ParseSidecar(data []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parsing JSON: %w", err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return "", ErrNoTags
	}

	list, ok := obj["tags"].([]any)
	if !ok {
		return "", ErrNoTags
	}

	tags := make([]string, len(list))
	for i, v := range list {
		tag, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%w: element %d is %s", ErrBadTag, i, jsonKind(v))
		}
		tags[i] = tag
	}

	return model.JoinTags(tags), nil
}

// ReadSidecar reads and parses the sidecar at path.
func ReadSidecar(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ParseSidecar(data)
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case float64:
		return "a number"
	case []any:
		return "a list"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
