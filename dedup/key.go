package dedup

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key builds a cache key from an endpoint and optional parameters.
// Parameters are sorted by name so that equal sets yield equal keys.
func Key(endpoint string, params map[string]any) string {
	if len(params) == 0 {
		return endpoint
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+escape(fmt.Sprint(params[name])))
	}

	return endpoint + "?" + strings.Join(pairs, "&")
}

// escape query-escapes s, encoding spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
