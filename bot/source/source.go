// Package source produces reply text for the bot: the user's own words, a chat-completion
// model, or the backend server. Every failure is an *Error; Reply is the one place where
// an error becomes text the user reads.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/screambot/core/logger"
	"github.com/m3rciful/screambot/core/metrics"
	"github.com/m3rciful/screambot/core/netutil"
)

// Prompt is what the user asked for.
type Prompt struct {
	Text string
	// User is the sender's display name, forwarded to the backend.
	User string
}

// Source returns reply text for a prompt.
type Source interface {
	Name() string
	Respond(ctx context.Context, p Prompt) (string, error)
}

// Kind classifies source failures.
type Kind string

const (
	KindMissingConfig Kind = "missing_config"
	KindTransport     Kind = "transport"
	KindShape         Kind = "shape"
)

// Source names.
const (
	NameEcho    = "echo"
	NameOpenAI  = "openai"
	NameBackend = "backend"
)

// Error is returned by every Source on failure.
type Error struct {
	Source string
	Op     string
	Kind   Kind
	// Status is the HTTP status code when the remote answered with a non-2xx status.
	Status int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Source, e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code reports a stable identifier for handler summaries.
func (e *Error) Code() string {
	return "SOURCE_" + strings.ToUpper(string(e.Kind))
}

// KindOf returns the failure kind of err, or "" when err is not a source error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

const (
	openAIMissingKey   = "API key not provided. Please set the OPENAI_KEY environment variable."
	openAIFallback     = "Sorry, I could not get a response from the language model."
	backendMissingAddr = "Server address not provided. Please set the SERVER_ADDR environment variable."
	genericFallback    = "Something went wrong, please try again later."
)

// UserText renders err as the message shown to the user.
func UserText(err error) string {
	var se *Error
	if !errors.As(err, &se) {
		return genericFallback
	}
	switch se.Source {
	case NameOpenAI:
		if se.Kind == KindMissingConfig {
			return openAIMissingKey
		}
		return openAIFallback
	case NameBackend:
		if se.Kind == KindMissingConfig {
			return backendMissingAddr
		}
		return fmt.Sprintf("Error contacting server: %v", se.Err)
	}
	return genericFallback
}

// Reply asks src for a response. On failure it logs a warning and returns the fallback
// text with ok=false; it never returns an error.
func Reply(ctx context.Context, src Source, p Prompt) (text string, ok bool) {
	start := time.Now()
	text, err := src.Respond(ctx, p)
	observe(src.Name(), "respond", start, err)
	if err == nil {
		return text, true
	}
	logFailure(ctx, src.Name(), err)
	return UserText(err), false
}

func observe(name, op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = string(KindOf(err))
		if result == "" {
			result = "error"
		}
	}
	metrics.SourceRequests.WithLabelValues(name, op, result).Inc()
	metrics.SourceDuration.WithLabelValues(name, op).Observe(time.Since(start).Seconds())
}

func logFailure(ctx context.Context, name string, err error) {
	attrs := []slog.Attr{
		slog.String("status", "fail"),
		slog.String("source", name),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	}
	var se *Error
	if errors.As(err, &se) {
		attrs = append(attrs,
			slog.String("op", se.Op),
			slog.String("err_kind", string(se.Kind)),
		)
		switch {
		case se.Status != 0:
			attrs = append(attrs,
				slog.Int("http_code", se.Status),
				slog.String("cause", netutil.HTTPStatusKind(se.Status)),
			)
		case se.Kind == KindTransport:
			attrs = append(attrs, slog.String("cause", netutil.Classify(se.Err)))
		}
	}
	logger.LogEvent(ctx, logger.SRC, slog.LevelWarn, "source.fail", attrs...)
}

// Echo returns the prompt unchanged.
type Echo struct{}

func (Echo) Name() string { return NameEcho }

func (Echo) Respond(_ context.Context, p Prompt) (string, error) {
	return p.Text, nil
}
