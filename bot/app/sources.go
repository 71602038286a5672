package app

import (
	"net/http"

	"github.com/m3rciful/screambot/bot/source"
	coreconfig "github.com/m3rciful/screambot/core/config"
)

// buildSource resolves a configured source name; backend sources post to endpoint.
func buildSource(cfg *coreconfig.Config, name, endpoint string, backend *source.Backend, client *http.Client) source.Source {
	switch name {
	case coreconfig.SourceOpenAI:
		return source.NewOpenAI(source.OpenAIOptions{
			Key:          cfg.OpenAI.Key,
			Model:        cfg.OpenAI.Model,
			BaseURL:      cfg.OpenAI.BaseURL,
			SystemPrompt: cfg.OpenAI.SystemPrompt,
			HTTPClient:   client,
		})
	case coreconfig.SourceBackend:
		return backend.Endpoint(endpoint)
	}
	return source.Echo{}
}
