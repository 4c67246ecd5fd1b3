// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package structured

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xtract "github.com/finsight/report-xtract"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return c
}

func testChunk() *xtract.Chunk {
	return &xtract.Chunk{ID: "c1", PageNumber: 1, Data: []byte("page bytes"), Size: 10}
}

func TestClient_Extract(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/documents:extract", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"text": "Account balance: $120.00",
			"confidence": 0.92,
			"blocks": [{"type": "paragraph", "text": "Account balance: $120.00"}]
		}`))
	})

	out, err := c.Extract(context.Background(), testChunk())
	require.NoError(t, err)
	assert.Equal(t, "Account balance: $120.00", out.Text)
	assert.Equal(t, 0.92, out.Signal)
	assert.Equal(t, 1, out.BlockCount)
}

func TestClient_Extract_EmptyTextIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text": "", "confidence": 0.05}`))
	})

	out, err := c.Extract(context.Background(), testChunk())
	require.NoError(t, err)
	assert.Empty(t, out.Text)
	assert.Equal(t, 0.05, out.Signal)
}

func TestClient_Extract_ServerErrorIsTransient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := c.Extract(context.Background(), testChunk())
	require.Error(t, err)
	assert.True(t, xtract.IsTransient(err))
	assert.ErrorIs(t, err, xtract.ErrBackendUnavailable)
}

func TestClient_Extract_ClientErrorIsPermanent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unsupported media", http.StatusUnprocessableEntity)
	})

	_, err := c.Extract(context.Background(), testChunk())
	require.Error(t, err)
	assert.False(t, xtract.IsTransient(err))
}

func TestClient_Extract_ContractViolationIsPermanent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		// confidence outside [0,1] violates the response schema
		_, _ = w.Write([]byte(`{"text": "ok", "confidence": 3.5}`))
	})

	_, err := c.Extract(context.Background(), testChunk())
	require.Error(t, err)
	assert.False(t, xtract.IsTransient(err))
}

func TestClient_Extract_MissingFieldFailsValidation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"confidence": 0.8}`))
	})

	_, err := c.Extract(context.Background(), testChunk())
	require.Error(t, err)
}

func TestClient_Extract_UnreachableBackendIsTransient(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = c.Extract(context.Background(), testChunk())
	require.Error(t, err)
	assert.True(t, xtract.IsTransient(err))
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestClient_Method(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://localhost"})
	require.NoError(t, err)
	assert.Equal(t, xtract.MethodStructured, c.Method())
}
