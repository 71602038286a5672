// Package app connects the dispatch table to Telegram: it turns telebot updates into
// events, runs them against the chat's session and renders the response.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/screambot/bot/dispatch"
	"github.com/m3rciful/screambot/bot/handlers"
	"github.com/m3rciful/screambot/bot/session"
	"github.com/m3rciful/screambot/bot/source"
	coreconfig "github.com/m3rciful/screambot/core/config"
	"github.com/m3rciful/screambot/core/logger"
	"github.com/m3rciful/screambot/core/netutil"
	tg "github.com/m3rciful/screambot/core/telegram"
	"github.com/m3rciful/screambot/core/telegram/callbacks"
	"github.com/m3rciful/screambot/core/telegram/commands"
	tghelpers "github.com/m3rciful/screambot/core/telegram/helpers"
	tgrouter "github.com/m3rciful/screambot/core/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// App is the bot: configuration, the dispatch table and the session store.
type App struct {
	cfg      *coreconfig.Config
	table    *dispatch.Router
	sessions *session.Store
	registry *tg.Registry
	backend  *source.Backend
	timeout  time.Duration

	replySource string
	generator   string
}

// New builds the app from normalized configuration.
func New(cfg *coreconfig.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}
	timeout := time.Duration(cfg.Bot.RequestTimeoutSeconds) * time.Second
	client := netutil.BuildHTTPClient(timeout)

	backend := source.NewBackend(cfg.Backend.ServerAddr, client)
	reply := buildSource(cfg, cfg.Bot.ReplySource, source.EndpointAsk, backend, client)
	generator := buildSource(cfg, cfg.Bot.Generator, source.EndpointGenerate, backend, client)

	table, err := handlers.NewRouter(handlers.Deps{
		Reply:           reply,
		Generator:       generator,
		Backend:         backend,
		LogInteractions: cfg.InteractionLogging(),
	})
	if err != nil {
		return nil, fmt.Errorf("app: build handlers: %w", err)
	}

	a := &App{
		cfg:         cfg,
		table:       table,
		sessions:    session.NewStore(session.Options{Shared: cfg.Bot.SharedSession}),
		registry:    tg.NewRegistry(),
		backend:     backend,
		timeout:     timeout,
		replySource: reply.Name(),
		generator:   generator.Name(),
	}
	for _, spec := range table.Commands() {
		if err := a.registry.RegisterCommand("/"+spec.Name, commands.Command{
			Handler:     a.onCommand,
			Description: spec.Description,
		}); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}
	a.registry.SetTextFallback(a.onText)
	a.registry.SetCallback(a.onTap)
	return a, nil
}

// TelegramRunOptions wires the registry routes and default middleware into the runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := tgrouter.CommandRoutes(a.registry)
	routes = append(routes, tgrouter.TextRoutes(a.registry)...)
	routes = append(routes, tgrouter.CallbackRoute(a.registry))

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ tg.Runtime) error {
			logger.Info(ctx, "app", "sources",
				slog.String("reply_source", a.replySource),
				slog.String("generator", a.generator),
				slog.Bool("shared_session", a.cfg.Bot.SharedSession),
				slog.Bool("backend", a.backend.Configured()),
				slog.Bool("log_interactions", a.cfg.InteractionLogging()),
			)
			return nil
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			logger.Info(ctx, "app", "sessions", slog.Int("sessions", a.sessions.Len()))
			return nil
		},
	}, nil
}

func (a *App) onCommand(c tele.Context) error {
	key, ok := tg.CommandName(c.Text())
	if !ok {
		return nil
	}
	var payload string
	if m := c.Message(); m != nil {
		payload = m.Payload
	}
	_, chatID := tghelpers.IDs(c)
	return a.handle(c, dispatch.Command{
		Chat:    chatID,
		Sender:  senderOf(c),
		Name:    key[1:],
		Payload: payload,
	})
}

func (a *App) onText(c tele.Context) error {
	_, chatID := tghelpers.IDs(c)
	return a.handle(c, dispatch.TextMessage{Chat: chatID, Sender: senderOf(c), Text: c.Text()})
}

func (a *App) onTap(c tele.Context) error {
	_, chatID := tghelpers.IDs(c)
	return a.handle(c, dispatch.ButtonTap{Chat: chatID, Sender: senderOf(c), Data: callbacks.Data(c.Callback())})
}

func (a *App) handle(c tele.Context, ev dispatch.Event) error {
	ctx, cancel := tghelpers.RequestContext(c, a.timeout)
	defer cancel()

	resp, err := a.table.Dispatch(ctx, a.sessions.Get(ev.ChatID()), ev)
	if err != nil {
		_ = tghelpers.Answer(c, "")
		return err
	}
	return render(c, resp)
}

func senderOf(c tele.Context) dispatch.Sender {
	u := c.Sender()
	if u == nil {
		return dispatch.Sender{}
	}
	return dispatch.Sender{ID: u.ID, FirstName: u.FirstName, Username: u.Username}
}
