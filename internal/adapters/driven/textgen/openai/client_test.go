package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	return client, srv
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.ModelName())
	assert.Equal(t, DefaultTemperature, client.temperature)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestSummarizeOne_JoinsFragments(t *testing.T) {
	var gotReq responsesRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{
			"id": "resp-1",
			"output": []map[string]any{
				{"content": []map[string]any{{"text": "- point one"}, {"text": "- point two"}}},
				{"content": []map[string]any{{"text": "- point three"}}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	got := client.SummarizeOne(context.Background(), "summarise this")

	assert.Equal(t, "- point one\n- point two\n- point three", got)
	assert.Equal(t, "summarise this", gotReq.Input)
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.InDelta(t, DefaultTemperature, gotReq.Temperature, 0.001)
}

func TestSummarizeOne_EmptyOutput(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"id": "resp-2"}))
	})

	got := client.SummarizeOne(context.Background(), "prompt")

	assert.Equal(t, "(empty)", got)
}

func TestSummarizeOne_BlankFragments(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"id":     "resp-3",
			"output": []map[string]any{{"content": []map[string]any{{"text": "  "}}}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	got := client.SummarizeOne(context.Background(), "prompt")

	assert.Equal(t, "(empty)", got)
}

func TestSummarizeOne_ServerErrorIsData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`)) //nolint:errcheck
	})

	got := client.SummarizeOne(context.Background(), "prompt")

	assert.Contains(t, got, "(error:")
	assert.Contains(t, got, "status 500")
}

func TestSummarizeOne_APIErrorMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "auth"},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	got := client.SummarizeOne(context.Background(), "prompt")

	assert.Contains(t, got, "(error:")
	assert.Contains(t, got, "invalid api key")
}

func TestSummarizeOne_MalformedJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json")) //nolint:errcheck
	})

	got := client.SummarizeOne(context.Background(), "prompt")

	assert.Contains(t, got, "(error:")
}

func TestSummarizeOne_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"id":"late"}`)) //nolint:errcheck
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got := client.SummarizeOne(ctx, "prompt")

	assert.Contains(t, got, "(error:")
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestPing_BadKey(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`)) //nolint:errcheck
	})

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
