package utils

import "encoding/json"

// IsJSON reports whether raw decodes as a JSON document. It never returns an error.
func IsJSON(raw string) bool {
	var v interface{}
	return json.Unmarshal([]byte(raw), &v) == nil
}
