package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "s3cret-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid username or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "user_id": 1,
			"username": req.Username, "email": req.Username + "@example.com",
			"token": "tok-abc",
		})
	})

	mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired token"})
			return
		}
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "plant_a.csv", header.Filename)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"total_count":2,` +
			`"averages":{"avg_flowrate":11,"avg_pressure":21,"avg_temp":31},` +
			`"distribution":{"A":1,"B":1},"raw_data":[]}`))
	})

	mux.HandleFunc("GET /api/history", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":2,"name":"new.csv","date":"2026-03-01T10:00:00Z"},` +
			`{"id":1,"name":"old.csv","date":"2026-03-01T09:00:00Z"}]`))
	})

	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Logged out successfully"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAPIClientLogin(t *testing.T) {
	server := newStubServer(t)
	api := NewAPIClient(server.URL, 2*time.Second)

	result, err := api.Login(context.Background(), "operator", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", result.Token)
	assert.Equal(t, "operator", result.Username)
}

func TestAPIClientLoginFailureSurfacesMessage(t *testing.T) {
	server := newStubServer(t)
	api := NewAPIClient(server.URL, 2*time.Second)

	_, err := api.Login(context.Background(), "operator", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid username or password")
}

func TestAPIClientUploadAndHistory(t *testing.T) {
	server := newStubServer(t)
	api := NewAPIClient(server.URL, 2*time.Second)

	_, err := api.Login(context.Background(), "operator", "s3cret-pass")
	require.NoError(t, err)

	sum, err := api.Upload(context.Background(), "plant_a.csv", strings.NewReader("Flowrate,Type\n10,A\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalCount)
	assert.Equal(t, 11.0, sum.Averages.Flowrate)
	require.Len(t, sum.Distribution, 2)
	assert.Equal(t, "A", sum.Distribution[0].Value)

	entries, err := api.History(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "new.csv", entries[0].Name)
}

func TestAPIClientUploadWithoutToken(t *testing.T) {
	server := newStubServer(t)
	api := NewAPIClient(server.URL, 2*time.Second)

	_, err := api.Upload(context.Background(), "plant_a.csv", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestAPIClientTimeoutSurfacesAsError(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	api := NewAPIClient(slow.URL, 50*time.Millisecond)
	_, err := api.History(context.Background())
	assert.Error(t, err)
}

func TestAPIClientLogoutForgetsToken(t *testing.T) {
	server := newStubServer(t)
	api := NewAPIClient(server.URL, 2*time.Second)

	_, err := api.Login(context.Background(), "operator", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, api.Logout(context.Background()))
	assert.Empty(t, api.token)
}
