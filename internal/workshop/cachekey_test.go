package workshop

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchCacheKeyIsOrderIndependent(t *testing.T) {
	t.Parallel()

	perms := [][]string{
		{"a", "b", "c"},
		{"a", "c", "b"},
		{"b", "a", "c"},
		{"b", "c", "a"},
		{"c", "a", "b"},
		{"c", "b", "a"},
	}
	want := BatchCacheKey(perms[0])
	require.Equal(t, "/api/cached-v1/a,b,c", want)
	for _, p := range perms[1:] {
		require.Equal(t, want, BatchCacheKey(p))
	}
}

func TestBatchCacheKeyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []string{"9", "1"}
	_ = BatchCacheKey(in)
	require.Equal(t, []string{"9", "1"}, in)
}

func TestBatchCacheKeyDistinguishesSubsets(t *testing.T) {
	t.Parallel()

	require.Equal(t, BatchCacheKey([]string{"42"}), BatchCacheKey([]string{"42"}))
	require.NotEqual(t, BatchCacheKey([]string{"a"}), BatchCacheKey([]string{"a", "b"}))
	require.NotEqual(t, BatchCacheKey([]string{"b"}), BatchCacheKey([]string{"a", "b"}))
}

func TestRequestCacheKeySortsQuery(t *testing.T) {
	t.Parallel()

	a := httptest.NewRequest("GET", "/list?sort=top&page=2", nil)
	b := httptest.NewRequest("GET", "/list?page=2&sort=top", nil)
	require.Equal(t, RequestCacheKey(a), RequestCacheKey(b))
	require.Equal(t, "/detail", RequestCacheKey(httptest.NewRequest("GET", "/detail", nil)))
}
