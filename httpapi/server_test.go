package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siftql/siftql/httpapi"
	_ "github.com/siftql/siftql/operators"
)

func TestHealthAndValidate(t *testing.T) {
	srv, err := httpapi.New(httpapi.Config{Addr: ":0"})
	require.NoError(t, err)

	router := httptest.NewServer(srv.Handler())
	defer router.Close()

	resp, err := router.Client().Get(router.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := json.Marshal([]map[string]any{
		{
			"input": map[string]any{"age": float64(30)},
			"query": map[string]any{"age": map[string]any{"$gte": float64(18)}},
		},
		{
			"input": map[string]any{"age": float64(10)},
			"query": map[string]any{"age": map[string]any{"$gte": float64(18)}},
		},
	})
	resp, err = router.Client().Post(router.URL+"/validate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.Equal(t, true, out[0]["valid"])
	assert.Equal(t, false, out[1]["valid"])

	resp, err = router.Client().Get(router.URL + "/cache/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	var stats map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, float64(1), stats["Misses"])
	assert.Equal(t, float64(1), stats["Hits"])
	assert.Equal(t, float64(1), stats["Entries"])

	resp, err = router.Client().Get(router.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	var snap map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, float64(2), snap["Total"])
	assert.Equal(t, float64(1), snap["Matches"])

	cachedQuery, _ := json.Marshal(map[string]any{"age": map[string]any{"$gte": float64(18)}})
	resp, err = router.Client().Post(router.URL+"/cache/inspect", "application/json", bytes.NewReader(cachedQuery))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	var inspected map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inspected))
	assert.Equal(t, map[string]any{"age": map[string]any{"$gte": float64(18)}}, inspected)
}

func TestValidateFailingItemReturns400(t *testing.T) {
	srv, err := httpapi.New(httpapi.Config{Addr: ":0"})
	require.NoError(t, err)

	router := httptest.NewServer(srv.Handler())
	defer router.Close()

	body, _ := json.Marshal([]map[string]any{
		{
			"input": map[string]any{"age": float64(30)},
			"query": map[string]any{"age": map[string]any{"$in": "not an array"}},
		},
	})
	resp, err := router.Client().Post(router.URL+"/validate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out["error"], "item 0")
}
