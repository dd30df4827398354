package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

func TestClient_OverviewSendsPagingAndToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/skills/overview", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"skills":[{"name":"Go","teachers":[],"learners":[],"teachersCount":0,"learnersCount":0}],
			"pagination":{"currentPage":2,"totalPages":3,"pageSize":5,"totalItems":11,"hasNextPage":true,"hasPrevPage":true}}`))
	}))
	defer ts.Close()

	c := New(ts.URL, WithToken("tok"))
	res, err := c.Overview(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Len(t, res.Skills, 1)
	assert.Equal(t, "Go", res.Skills[0].Name)
	assert.Equal(t, 11, res.Pagination.TotalItems)
	assert.True(t, res.Pagination.HasNextPage)
}

func TestClient_SignInStoresToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body["email"])
		_, _ = w.Write([]byte(`{"token":"abc","user":{"id":"1","name":"Ann","savedSkills":[]}}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	u, err := c.SignIn(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "abc", c.Token())
}

func TestClient_ErrorEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_AUTHENTICATED","message":"no active session"}}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL).SavedSkills(context.Background())
	require.Error(t, err)
	assert.True(t, IsAPIError(err))
	assert.True(t, shared.IsNotAuthenticated(err))
	assert.Contains(t, err.Error(), "no active session")
}

func TestClient_TransportFailureIsUpstream(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := New(url).Categories(context.Background())
	require.Error(t, err)
	assert.True(t, shared.IsUpstream(err))
	assert.False(t, IsAPIError(err))
}
