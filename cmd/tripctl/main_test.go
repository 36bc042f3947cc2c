package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_WeekendRetries5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "/api/v1/dates/weekend", r.URL.Path)
		assert.Equal(t, "2026-01-09", r.URL.Query().Get("reference"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reference":"2026-01-09","start":"2026-01-16","end":"2026-01-18","nights":2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 3, nil)
	c.http.RetryWaitMin = time.Millisecond
	c.http.RetryWaitMax = time.Millisecond

	w, err := c.Weekend(context.Background(), "2026-01-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-16", w.Start)
	assert.Equal(t, "2026-01-18", w.End)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ExhaustedRetriesKeepErrorBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"cache warmer is disabled"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 2, nil)
	c.http.RetryWaitMin = time.Millisecond
	c.http.RetryWaitMax = time.Millisecond

	_, err := c.Weekend(context.Background(), "2026-01-09")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "cache warmer is disabled", apiErr.Message)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetry4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid date \"2026-02-30\": day does not exist in calendar","field":"reference"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 3, nil)
	_, err := c.Weekend(context.Background(), "2026-02-30")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "reference", apiErr.Field)
	assert.Contains(t, apiErr.Message, "2026-02-30")
	assert.Equal(t, int32(1), calls.Load())
}

func TestRun_Presets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body struct {
			Presets   []string `json:"presets"`
			Reference string   `json:"reference"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"weekend", "next-week"}, body.Presets)
		assert.Equal(t, "2026-01-05", body.Reference)

		_, _ = w.Write([]byte(`{
			"reference":"2026-01-05","presets":["weekend","next-week"],
			"departures":[{"date":"2026-01-09","earliest":"06:00","latest":"23:59"},{"date":"2026-01-16","earliest":"23:00","latest":"06:00"}],
			"returns":[{"date":"2026-01-11","earliest":"06:00","latest":"23:59"},{"date":"2026-01-18","earliest":"23:00","latest":"06:00"}]
		}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), []string{"--server", srv.URL, "presets", "-r", "2026-01-05", "weekend", "next-week"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "depart  2026-01-09  06:00-23:59")
	assert.Contains(t, out.String(), "return  2026-01-18  23:00-06:00")
}

func TestRun_WeekendJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reference":"2026-01-05","start":"2026-01-09","end":"2026-01-11","nights":2}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--server", srv.URL, "--json", "weekend"}, &out))

	var w Weekend
	require.NoError(t, json.Unmarshal(out.Bytes(), &w))
	assert.Equal(t, "2026-01-09", w.Start)
}
