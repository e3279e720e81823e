package lockpin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, tokenStatus, pinStatus int, pinBody string) (*Client, *int) {
	t.Helper()
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if tokenStatus != http.StatusOK {
			w.WriteHeader(tokenStatus)
			io.WriteString(w, `{"error":"invalid_client"}`)
			return
		}
		io.WriteString(w, `{"access_token":"tok-123"}`)
	})
	mux.HandleFunc("/pins/hourly", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(pinStatus)
		io.WriteString(w, pinBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/oauth/token", srv.URL+"/pins/hourly",
		"client-id", "client-secret", time.UTC, 2*time.Second, zerolog.New(io.Discard))
	return c, &tokenCalls
}

func TestIssuePin(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	t.Run("happy path", func(t *testing.T) {
		c, tokenCalls := testClient(t, http.StatusOK, http.StatusOK, `{"pin": 4821}`)
		pin, err := c.IssuePin(context.Background(), start, end, "250601-001")
		require.NoError(t, err)
		assert.Equal(t, int64(4821), pin)
		assert.Equal(t, 1, *tokenCalls)
	})

	t.Run("fresh token per call", func(t *testing.T) {
		c, tokenCalls := testClient(t, http.StatusOK, http.StatusOK, `{"pinCode": "1234"}`)
		_, err := c.IssuePin(context.Background(), start, end, "a")
		require.NoError(t, err)
		_, err = c.IssuePin(context.Background(), start, end, "b")
		require.NoError(t, err)
		assert.Equal(t, 2, *tokenCalls)
	})

	t.Run("invalid range rejected before any call", func(t *testing.T) {
		c, tokenCalls := testClient(t, http.StatusOK, http.StatusOK, `{"pin": 1}`)
		_, err := c.IssuePin(context.Background(), end, start, "x")
		assert.ErrorIs(t, err, ErrInvalidRange)
		assert.Equal(t, 0, *tokenCalls)
	})

	t.Run("authentication failure", func(t *testing.T) {
		c, _ := testClient(t, http.StatusForbidden, http.StatusOK, `{"pin": 1}`)
		_, err := c.IssuePin(context.Background(), start, end, "x")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
		assert.Contains(t, err.Error(), "invalid_client")
	})

	t.Run("provider error carries status and body", func(t *testing.T) {
		c, _ := testClient(t, http.StatusOK, http.StatusBadGateway, `{"message":"lock offline"}`)
		_, err := c.IssuePin(context.Background(), start, end, "x")
		assert.ErrorIs(t, err, ErrPinProvider)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "lock offline")
	})

	t.Run("unparseable pin body", func(t *testing.T) {
		c, _ := testClient(t, http.StatusOK, http.StatusOK, `{"status":"ok"}`)
		_, err := c.IssuePin(context.Background(), start, end, "x")
		assert.ErrorIs(t, err, ErrPinFormat)
	})
}
