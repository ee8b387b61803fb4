package moyklass

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// DefaultLimit is the page size used when Page.Limit is zero.
const DefaultLimit = 100

// Wire encoding rules shared by every facade:
//
//   - required fields carry no omitempty and are always sent;
//   - optional fields are pointers or slices tagged omitempty; nil pointers
//     and nil or empty slices are "absent" and never sent;
//   - defaulted booleans are plain bool fields without omitempty, sent as
//     "true"/"false" in queries and as JSON booleans in bodies;
//   - enums implement query.Encoder and are only sent when Valid.

// Page selects a window of a list endpoint. Limit 0 is sent as DefaultLimit,
// so limit=0 is never sent.
type Page struct {
	Offset int `url:"offset"`
	Limit  int `url:"limit"`
}

func (p Page) withDefaults() Page {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	return p
}

type wireEnum interface {
	Valid() bool
	wireValue() string
}

func encodeEnum[E wireEnum](key string, v *url.Values, e E) error {
	if e.Valid() {
		v.Set(key, e.wireValue())
	}
	return nil
}

func encodeEnumList[E wireEnum](key string, v *url.Values, items []E) error {
	for _, item := range items {
		if item.Valid() {
			v.Add(key, item.wireValue())
		}
	}
	return nil
}

// validOrZero returns e if it is a known member, otherwise the zero value, so
// that an omitempty JSON field drops it.
func validOrZero[E wireEnum](e E) E {
	if e.Valid() {
		return e
	}
	var zero E
	return zero
}

// encodeQuery converts a tagged parameter struct into query values. A nil
// params pointer yields empty values.
func encodeQuery(params any) (url.Values, error) {
	values, err := query.Values(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query parameters: %w", err)
	}
	return values, nil
}
