// Package handlers wires the bot's commands, text echo and menu taps into a dispatch table.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/m3rciful/screambot/bot/dispatch"
	"github.com/m3rciful/screambot/bot/menu"
	"github.com/m3rciful/screambot/bot/session"
	"github.com/m3rciful/screambot/bot/source"
	"github.com/m3rciful/screambot/bot/transform"
	"github.com/m3rciful/screambot/core/logger"
	"github.com/m3rciful/screambot/core/metrics"
)

const (
	screamReply     = "Screaming mode activated!"
	whisperReply    = "Screaming mode deactivated!"
	unsupportedTap  = "Unsupported action"
	generateUsage   = "Usage: /generate <prompt>"
	storeUsage      = "Usage: /store <text>"
	commandListHead = "The commands are:"
)

// Deps are the collaborators the handlers call.
type Deps struct {
	// Reply produces the answer to plain text; nil means echo.
	Reply source.Source
	// Generator answers /generate.
	Generator source.Source
	// Backend serves /store and receives interaction logs.
	Backend *source.Backend
	// LogInteractions posts every text prompt/reply pair to the backend.
	LogInteractions bool
}

type handlers struct {
	deps   Deps
	router *dispatch.Router
}

// NewRouter builds the dispatch table.
func NewRouter(d Deps) (*dispatch.Router, error) {
	if d.Reply == nil {
		d.Reply = source.Echo{}
	}
	if d.Backend == nil {
		d.Backend = source.NewBackend("", nil)
	}
	if d.Generator == nil {
		return nil, errors.New("handlers: generator source is required")
	}

	h := &handlers{deps: d, router: dispatch.NewRouter()}
	commands := []struct {
		name, description string
		fn                dispatch.CommandFunc
	}{
		{"scream", "Reply in upper case", h.scream},
		{"start", "List the commands", h.start},
		{"whisper", "Reply as written", h.whisper},
		{"menu", "Show the menu", h.menu},
		{"generate", "Generate a reply to a prompt", h.generate},
		{"store", "Store text on the server", h.store},
	}
	for _, c := range commands {
		if err := h.router.Command(c.name, c.description, c.fn); err != nil {
			return nil, err
		}
	}
	h.router.Text(h.text)
	h.router.Tap(h.tap)
	return h.router, nil
}

func (h *handlers) scream(ctx context.Context, s *session.Session, _ dispatch.Command) (dispatch.Response, error) {
	s.Scream()
	metrics.ModeSwitches.WithLabelValues("scream").Inc()
	logger.Info(ctx, "app", "mode.scream", slog.Bool("screaming", true))
	return dispatch.Response{Text: screamReply}, nil
}

func (h *handlers) whisper(ctx context.Context, s *session.Session, _ dispatch.Command) (dispatch.Response, error) {
	s.Whisper()
	metrics.ModeSwitches.WithLabelValues("whisper").Inc()
	logger.Info(ctx, "app", "mode.whisper", slog.Bool("screaming", false))
	return dispatch.Response{Text: whisperReply}, nil
}

func (h *handlers) start(context.Context, *session.Session, dispatch.Command) (dispatch.Response, error) {
	var b strings.Builder
	b.WriteString(commandListHead)
	for _, c := range h.router.Commands() {
		b.WriteString("\n/")
		b.WriteString(c.Name)
	}
	return dispatch.Response{Text: b.String()}, nil
}

func (h *handlers) menu(context.Context, *session.Session, dispatch.Command) (dispatch.Response, error) {
	return menu.First().Send(), nil
}

func (h *handlers) generate(ctx context.Context, _ *session.Session, cmd dispatch.Command) (dispatch.Response, error) {
	prompt := strings.TrimSpace(cmd.Payload)
	if prompt == "" {
		return dispatch.Response{Text: generateUsage}, nil
	}
	text, _ := source.Reply(ctx, h.deps.Generator, source.Prompt{Text: prompt, User: cmd.Sender.FirstName})
	return dispatch.Response{Text: text}, nil
}

func (h *handlers) store(ctx context.Context, _ *session.Session, cmd dispatch.Command) (dispatch.Response, error) {
	payload := strings.TrimSpace(cmd.Payload)
	if payload == "" {
		return dispatch.Response{Text: storeUsage}, nil
	}
	src := h.deps.Backend.Endpoint(source.EndpointStore)
	text, _ := source.Reply(ctx, src, source.Prompt{Text: payload, User: cmd.Sender.FirstName})
	return dispatch.Response{Text: text}, nil
}

func (h *handlers) text(ctx context.Context, s *session.Session, msg dispatch.TextMessage) (dispatch.Response, error) {
	logger.Info(ctx, "app", "text.received",
		slog.String("payload", logger.SanitizeLimit(msg.Sender.FirstName+" wrote "+msg.Text, 256)),
	)

	screaming := s.Screaming()
	if _, echo := h.deps.Reply.(source.Echo); echo {
		reply := transform.Apply(msg.Text, screaming)
		h.logInteraction(ctx, msg, reply)
		return dispatch.Response{Text: reply, KeepEntities: !screaming}, nil
	}

	reply, ok := source.Reply(ctx, h.deps.Reply, source.Prompt{Text: msg.Text, User: msg.Sender.FirstName})
	if !ok {
		return dispatch.Response{Text: reply}, nil
	}
	reply = transform.Apply(reply, screaming)
	h.logInteraction(ctx, msg, reply)
	return dispatch.Response{Text: reply}, nil
}

func (h *handlers) logInteraction(ctx context.Context, msg dispatch.TextMessage, reply string) {
	if !h.deps.LogInteractions {
		return
	}
	err := h.deps.Backend.LogInteraction(ctx, source.Interaction{
		User:     msg.Sender.FirstName,
		Message:  msg.Text,
		Response: reply,
	})
	if err != nil {
		logger.Warn(ctx, "source", "interaction.log_failed",
			slog.String("source", source.NameBackend),
			slog.String("err_kind", string(source.KindOf(err))),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
}

func (h *handlers) tap(ctx context.Context, _ *session.Session, tap dispatch.ButtonTap) (dispatch.Response, error) {
	screen, ok := menu.ForTap(tap.Data)
	if !ok {
		return dispatch.Response{Notice: unsupportedTap}, nil
	}
	logger.Debug(ctx, "app", "menu.navigate", slog.String("payload", logger.SanitizeLimit(tap.Data, 64)))
	return screen.Edit(), nil
}
