package workshop

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetailRecordKeepsZeroCounters(t *testing.T) {
	t.Parallel()

	var record DetailRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"result":1,"publishedfileid":"5","banned":0,"visibility":0,
		"subscriptions":0,"favorited":0,"lifetime_subscriptions":0,
		"lifetime_favorited":0,"views":0,"time_created":0,"time_updated":0
	}`), &record))

	out, err := json.Marshal(NewDetailEnvelope(record))
	require.NoError(t, err)

	var decoded struct {
		Response struct {
			PublishedFileDetails []map[string]json.RawMessage `json:"publishedfiledetails"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded.Response.PublishedFileDetails, 1)
	fields := decoded.Response.PublishedFileDetails[0]
	for _, key := range []string{
		"banned", "visibility", "subscriptions", "favorited",
		"lifetime_subscriptions", "lifetime_favorited", "views",
		"time_created", "time_updated",
	} {
		require.Contains(t, fields, key)
		require.Equal(t, "0", string(fields[key]), key)
	}
}
