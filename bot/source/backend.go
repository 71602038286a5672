package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Backend endpoints.
const (
	EndpointAsk            = "/ask"
	EndpointGenerate       = "/generate"
	EndpointStore          = "/store"
	EndpointLogInteraction = "/log_interaction"
)

const maxBackendBody = 1 << 20

// Backend talks to the companion HTTP server. Every endpoint answers {"message": "..."}.
type Backend struct {
	addr   string
	client *http.Client
}

// NewBackend returns a client for addr (host:port, optionally with a scheme).
// An empty addr is accepted; every call then fails with KindMissingConfig.
func NewBackend(addr string, client *http.Client) *Backend {
	if client == nil {
		client = http.DefaultClient
	}
	return &Backend{addr: strings.TrimRight(strings.TrimSpace(addr), "/"), client: client}
}

// Configured reports whether a server address is set.
func (b *Backend) Configured() bool { return b.addr != "" }

type backendRequest struct {
	Message string `json:"message"`
	User    string `json:"user,omitempty"`
}

// Interaction is one prompt/reply pair sent to /log_interaction.
type Interaction struct {
	User     string `json:"user,omitempty"`
	Message  string `json:"message"`
	Response string `json:"response"`
}

type backendResponse struct {
	Message *string `json:"message"`
}

// Endpoint returns a Source bound to one endpoint, such as EndpointAsk.
func (b *Backend) Endpoint(endpoint string) Source {
	return endpointSource{backend: b, endpoint: endpoint}
}

// LogInteraction records a prompt/reply pair.
func (b *Backend) LogInteraction(ctx context.Context, in Interaction) error {
	start := time.Now()
	_, err := b.Call(ctx, EndpointLogInteraction, in)
	observe(NameBackend, EndpointLogInteraction, start, err)
	return err
}

// Call posts payload as JSON to endpoint and returns the "message" field of the reply.
func (b *Backend) Call(ctx context.Context, endpoint string, payload any) (string, error) {
	fail := func(kind Kind, status int, err error) (string, error) {
		return "", &Error{Source: NameBackend, Op: endpoint, Kind: kind, Status: status, Err: err}
	}
	if b.addr == "" {
		return fail(KindMissingConfig, 0, errors.New("SERVER_ADDR is not set"))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fail(KindShape, 0, fmt.Errorf("encode payload: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url(endpoint), bytes.NewReader(body))
	if err != nil {
		return fail(KindTransport, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fail(KindTransport, 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBackendBody))
	if err != nil {
		return fail(KindTransport, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(KindTransport, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var out backendResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return fail(KindShape, 0, fmt.Errorf("decode response: %w", err))
	}
	if out.Message == nil {
		return fail(KindShape, 0, errors.New(`response has no "message" field`))
	}
	return *out.Message, nil
}

func (b *Backend) url(endpoint string) string {
	if strings.HasPrefix(b.addr, "http://") || strings.HasPrefix(b.addr, "https://") {
		return b.addr + endpoint
	}
	return "http://" + b.addr + endpoint
}

type endpointSource struct {
	backend  *Backend
	endpoint string
}

func (s endpointSource) Name() string { return NameBackend }

func (s endpointSource) Respond(ctx context.Context, p Prompt) (string, error) {
	return s.backend.Call(ctx, s.endpoint, backendRequest{Message: p.Text, User: p.User})
}
