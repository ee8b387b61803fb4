package moyklass

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Response is a successful API response. The body is kept verbatim; when it is
// not valid JSON, Text returns it as is and IsJSON reports false.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsJSON reports whether the body is a valid JSON document.
func (r *Response) IsJSON() bool {
	return gjson.ValidBytes(r.Body)
}

// Text returns the raw body. It is the fallback for non-JSON responses.
func (r *Response) Text() string {
	return string(r.Body)
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if !r.IsJSON() {
		return ErrNotJSON
	}
	return json.Unmarshal(r.Body, v)
}

// Value returns the body decoded into generic Go values, or nil when the body
// is not JSON.
func (r *Response) Value() any {
	if !r.IsJSON() {
		return nil
	}
	return gjson.ParseBytes(r.Body).Value()
}

// Get looks up a gjson path in the body. Non-JSON bodies yield an empty result.
func (r *Response) Get(path string) gjson.Result {
	if !r.IsJSON() {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Body, path)
}

// Records returns the objects of the array found at key. An empty key, or a
// body that is itself an array, selects the top-level array. Non-object
// elements are skipped.
func (r *Response) Records(key string) []map[string]any {
	if !r.IsJSON() {
		return nil
	}

	list := gjson.ParseBytes(r.Body)
	if key != "" && !list.IsArray() {
		list = list.Get(key)
	}
	if !list.IsArray() {
		return nil
	}

	var records []map[string]any
	list.ForEach(func(_, item gjson.Result) bool {
		if record, ok := item.Value().(map[string]any); ok {
			records = append(records, record)
		}
		return true
	})
	return records
}
