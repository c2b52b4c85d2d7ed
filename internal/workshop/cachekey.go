package workshop

import (
	"net/http"
	"sort"
	"strings"
)

// BatchKeyPrefix namespaces batch cache keys.
const BatchKeyPrefix = "/api/cached-v1/"

// BatchCacheKey returns a key that is identical for every ordering of the
// same identifier multiset. The input slice is not modified.
func BatchCacheKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return BatchKeyPrefix + strings.Join(sorted, KeySeparator)
}

// RequestCacheKey keys a GET request by path and its query re-encoded with
// sorted parameter names.
func RequestCacheKey(r *http.Request) string {
	query := r.URL.Query().Encode()
	if query == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + query
}
