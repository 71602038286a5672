package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// noNetwork fails the test if any request leaves the process.
func noNetwork(t *testing.T) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Errorf("unexpected request to %s", r.URL)
		return nil, errors.New("network disabled")
	})}
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestEcho(t *testing.T) {
	got, err := Echo{}.Respond(context.Background(), Prompt{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestOpenAIRespond(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) || !assert.Len(t, req.Messages, 2) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "You are a helpful assistant.", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "what is the capital of UK?", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"London"}}]}`)
	}))
	defer srv.Close()

	o := NewOpenAI(OpenAIOptions{
		Key:          "sk-test",
		BaseURL:      srv.URL + "/v1",
		SystemPrompt: "You are a helpful assistant.",
		HTTPClient:   srv.Client(),
	})
	got, err := o.Respond(context.Background(), Prompt{Text: "what is the capital of UK?"})
	require.NoError(t, err)
	assert.Equal(t, "London", got)
}

func TestOpenAIMissingKey(t *testing.T) {
	o := NewOpenAI(OpenAIOptions{HTTPClient: noNetwork(t)})

	_, err := o.Respond(context.Background(), Prompt{Text: "hi"})
	require.Error(t, err)
	assert.Equal(t, KindMissingConfig, KindOf(err))

	text, ok := Reply(context.Background(), o, Prompt{Text: "hi"})
	assert.False(t, ok)
	assert.Equal(t, openAIMissingKey, text)
}

func TestOpenAINetworkErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	o := NewOpenAI(OpenAIOptions{Key: "sk-test", BaseURL: url + "/v1"})

	_, err := o.Respond(context.Background(), Prompt{Text: "hi"})
	assert.Equal(t, KindTransport, KindOf(err))

	text, ok := Reply(context.Background(), o, Prompt{Text: "hi"})
	assert.False(t, ok)
	assert.Equal(t, openAIFallback, text)
}

func TestOpenAIErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantStatus int
	}{
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantKind: KindShape},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom","type":"server_error"}}`, wantKind: KindTransport, wantStatus: 500},
		{name: "malformed", status: http.StatusOK, body: `{"choices":"nope"}`, wantKind: KindShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			o := NewOpenAI(OpenAIOptions{Key: "k", BaseURL: srv.URL + "/v1", HTTPClient: srv.Client()})
			_, err := o.Respond(context.Background(), Prompt{Text: "hi"})

			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantKind, se.Kind)
			assert.Equal(t, tt.wantStatus, se.Status)

			text, ok := Reply(context.Background(), o, Prompt{Text: "hi"})
			assert.False(t, ok)
			assert.Equal(t, openAIFallback, text)
		})
	}
}

func TestBackendWithoutAddressNeverDials(t *testing.T) {
	b := NewBackend("", noNetwork(t))
	assert.False(t, b.Configured())

	for _, ep := range []string{EndpointAsk, EndpointGenerate, EndpointStore} {
		_, err := b.Endpoint(ep).Respond(context.Background(), Prompt{Text: "hi"})
		assert.Equal(t, KindMissingConfig, KindOf(err), ep)
	}
	err := b.LogInteraction(context.Background(), Interaction{Message: "hi", Response: "hi"})
	assert.Equal(t, KindMissingConfig, KindOf(err))

	text, ok := Reply(context.Background(), b.Endpoint(EndpointAsk), Prompt{Text: "hi"})
	assert.False(t, ok)
	assert.Equal(t, backendMissingAddr, text)
}

func TestBackendEndpoints(t *testing.T) {
	var (
		mu  sync.Mutex
		got []map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		mu.Lock()
		got = append(got, map[string]string{"path": r.URL.Path})
		for k, v := range payload {
			got[len(got)-1][k] = v
		}
		mu.Unlock()

		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "reply from " + r.URL.Path})
	}))
	defer srv.Close()

	b := NewBackend(srv.URL, srv.Client())

	text, err := b.Endpoint(EndpointGenerate).Respond(context.Background(), Prompt{Text: "a poem", User: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "reply from /generate", text)

	require.NoError(t, b.LogInteraction(context.Background(), Interaction{User: "Ann", Message: "hi", Response: "HI"}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, map[string]string{"path": "/generate", "message": "a poem", "user": "Ann"}, got[0])
	assert.Equal(t, map[string]string{"path": "/log_interaction", "message": "hi", "response": "HI", "user": "Ann"}, got[1])
}

func TestBackendAddrWithoutScheme(t *testing.T) {
	b := NewBackend("localhost:8000/", nil)
	assert.Equal(t, "http://localhost:8000/ask", b.url(EndpointAsk))
}

func TestBackendFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{name: "bad status", status: http.StatusBadGateway, body: `{"message":"nope"}`, wantKind: KindTransport},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantKind: KindShape},
		{name: "no message", status: http.StatusOK, body: `{"result":"ok"}`, wantKind: KindShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			b := NewBackend(srv.URL, srv.Client())
			_, err := b.Endpoint(EndpointAsk).Respond(context.Background(), Prompt{Text: "hi"})
			assert.Equal(t, tt.wantKind, KindOf(err))

			text, ok := Reply(context.Background(), b.Endpoint(EndpointAsk), Prompt{Text: "hi"})
			assert.False(t, ok)
			assert.Contains(t, text, "Error contacting server: ")
		})
	}
}

func TestBackendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.Listener.Addr().String()
	srv.Close()

	b := NewBackend(addr, nil)
	_, err := b.Endpoint(EndpointStore).Respond(context.Background(), Prompt{Text: "hi"})

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindTransport, se.Kind)
	assert.Equal(t, EndpointStore, se.Op)
	assert.Equal(t, "SOURCE_TRANSPORT", se.Code())
}

func TestUserTextForeignError(t *testing.T) {
	assert.Equal(t, genericFallback, UserText(errors.New("boom")))
}
