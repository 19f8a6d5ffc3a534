package submit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/policycheck/internal/core"
)

var batch = []core.PolicyRecord{
	{PolicyNumber: "123456789", IsValid: true},
	{PolicyNumber: "111111111", IsValid: false},
}

func TestClient_Submit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var got []core.PolicyRecord
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, batch, got)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 1042}`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{URL: srv.URL, Token: "secret"})
	require.NoError(t, err)

	id, err := c.Submit(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, int64(1042), id)
}

func TestClient_SubmitFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"down"}`},
		{"bad request", http.StatusBadRequest, `{"id": 1}`},
		{"missing id", http.StatusOK, `{}`},
		{"not json", http.StatusOK, `accepted`},
		{"fractional id", http.StatusOK, `{"id": 1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewClient(Options{URL: srv.URL})
			require.NoError(t, err)

			_, err = c.Submit(context.Background(), batch)
			require.Error(t, err)
			assert.Equal(t, "SUB004", core.MapError(err).Code)
		})
	}
}

func TestClient_NoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(Options{URL: srv.URL})
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), batch)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(Options{URL: srv.URL, Timeout: 30 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Submit(context.Background(), batch)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_EmptyBatch(t *testing.T) {
	c, err := NewClient(Options{URL: "http://127.0.0.1:0"})
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrEmptyBatch))
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Options{})
	assert.Error(t, err)
}

func TestClient_DrivesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 9}`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{URL: srv.URL})
	require.NoError(t, err)

	sess := core.NewSession("s1", core.SessionConfig{Submitter: c, MinSubmitDuration: time.Millisecond})
	_, err = sess.Load(context.Background(), core.RawFile{
		Name: "p.csv", Type: "text/csv", Size: 19,
		Body: strings.NewReader("123456789,711111111"),
	})
	require.NoError(t, err)

	_, err = sess.Submit(context.Background())
	require.NoError(t, err)
	st, err := sess.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.SubmissionOutcome{Status: core.SubmissionSuccess, ResourceID: 9, PolicyCount: 2}, st.Submission)
}
