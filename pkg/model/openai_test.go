package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/journally/pkg/entry"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, status int, body string, seen *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const okBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1,
  "model": "gpt-3.5-turbo",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "  That sounds like a full day.  "}, "finish_reason": "stop"}]
}`

func TestOpenAICompleteSendsTranscript(t *testing.T) {
	var seen capturedRequest
	srv := newServer(t, http.StatusOK, okBody, &seen)
	c := NewOpenAI("test-key", srv.URL)

	turns := []entry.Turn{
		entry.NewTurn(entry.Assistant, "How was your day?"),
		entry.NewTurn(entry.User, "Busy."),
	}
	reply, err := c.Complete(context.Background(), Request{
		System:      SystemInstruction,
		Messages:    FromTurns(turns),
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
	})
	require.NoError(t, err)
	assert.Equal(t, "That sounds like a full day.", reply)

	assert.Equal(t, DefaultModel, seen.Model)
	assert.InDelta(t, 0.7, seen.Temperature, 0.0001)
	require.Len(t, seen.Messages, 3)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, SystemInstruction, seen.Messages[0].Content)
	assert.Equal(t, "assistant", seen.Messages[1].Role)
	assert.Equal(t, "user", seen.Messages[2].Role)
	assert.Equal(t, "Busy.", seen.Messages[2].Content)
}

func TestOpenAICompleteFailures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		want   error
	}{
		"server error": {status: http.StatusInternalServerError, body: `{"error":{"message":"boom","type":"server_error"}}`},
		"malformed":    {status: http.StatusOK, body: `{"choices": [`},
		"no choices":   {status: http.StatusOK, body: `{"choices": []}`, want: ErrEmptyReply},
		"blank reply":  {status: http.StatusOK, body: `{"choices": [{"message": {"role": "assistant", "content": "  "}}]}`, want: ErrEmptyReply},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, tc.status, tc.body, nil)
			_, err := NewOpenAI("test-key", srv.URL).Complete(context.Background(), Request{
				Messages: []Message{{Role: entry.User, Content: "hi"}},
			})
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestMissingCredential(t *testing.T) {
	ctx := context.Background()
	_, err := NewOpenAI("", "").Complete(ctx, Request{Messages: []Message{{Role: entry.User, Content: "hi"}}})
	assert.ErrorIs(t, err, ErrMissingCredential)

	g, err := NewGemini(ctx, " ")
	require.NoError(t, err)
	_, err = g.Complete(ctx, Request{Messages: []Message{{Role: entry.User, Content: "hi"}}})
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.NoError(t, g.Close())
}

func TestNewSelectsProvider(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, Settings{})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, c)

	c, err = New(ctx, Settings{Provider: "Gemini"})
	require.NoError(t, err)
	assert.IsType(t, &Gemini{}, c)

	_, err = New(ctx, Settings{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}
