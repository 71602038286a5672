package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/screambot/core/logger"
	"github.com/m3rciful/screambot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// Registry holds bot commands and the catch-all text and callback handlers.
type Registry struct {
	commands     map[string]commands.Command
	order        []string
	callback     tele.HandlerFunc
	textFallback tele.HandlerFunc
}

// NewRegistry creates an empty Registry whose callback handler only acknowledges the tap.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
		callback: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
		},
	}
}

// RegisterCommand adds a new command. name must start with a slash and be lower-case.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	skip := func(reason string) error {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", reason),
		)
		return fmt.Errorf("telegram: command %q: %s", name, reason)
	}
	switch {
	case r == nil || name == "" || cmd.Handler == nil || cmd.Description == "":
		return skip("invalid")
	case name[0] != '/':
		return skip("no_slash_prefix")
	case name != strings.ToLower(name):
		return skip("not_lower_case")
	}
	if _, exists := r.commands[name]; exists {
		return skip("duplicate")
	}
	r.commands[name] = cmd
	r.order = append(r.order, name)
	return nil
}

// ListCommands returns the commands in registration order, optionally without hidden ones.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	list := make([]tele.Command, 0, len(r.order))
	for _, name := range r.order {
		meta := r.commands[name]
		if visibleOnly && meta.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: meta.Description})
	}
	return list
}

// LookupCommand finds a command by name, ignoring case, the leading slash and an @bot suffix.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	key, ok := normalizeCommand(name)
	if !ok {
		return "", commands.Command{}, false
	}
	cmd, ok := r.commands[key]
	return key, cmd, ok
}

// Commands returns registered command names in registration order.
func (r *Registry) Commands() []string {
	return append([]string(nil), r.order...)
}

// Command returns the command registered under key.
func (r *Registry) Command(key string) (commands.Command, bool) {
	cmd, ok := r.commands[key]
	return cmd, ok
}

// SetCallback replaces the handler for inline button taps.
func (r *Registry) SetCallback(h tele.HandlerFunc) {
	if h != nil {
		r.callback = h
	}
}

// Callback returns the current callback handler.
func (r *Registry) Callback() tele.HandlerFunc {
	return r.callback
}

// SetTextFallback sets the handler for text that is not a command.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the current text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}

// CommandName extracts the lower-case command key ("/name") from message text.
func CommandName(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", false
	}
	return normalizeCommand(fields[0])
}

func normalizeCommand(name string) (string, bool) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", false
	}
	return "/" + strings.ToLower(name), true
}

// SetupCommands publishes the visible commands in the Telegram command menu.
func SetupCommands(bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if err := bot.SetCommands(list); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
		return
	}
	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "register.commands.set",
		slog.Int("commands", len(list)),
	)
}
