package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/screambot/core/logger"
	tg "github.com/m3rciful/screambot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// TextRoutes builds the OnText handler. Slash commands resolve through the registry
// case-insensitively; unknown commands are ignored; other text goes to the text fallback.
func TextRoutes(reg *tg.Registry) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if key, ok := tg.CommandName(text); ok {
			if _, cmd, found := reg.LookupCommand(key); found && cmd.Handler != nil {
				return handleWithSummary(c, "command."+normalizeHandlerName(key), start, func() error {
					return cmd.Handler(c)
				})
			}
			logHandlerSummary(c, "command.unknown", start, "skip", nil,
				slog.String("command", logger.SanitizeLimit(key, 64)),
			)
			return nil
		}

		if fb := reg.TextFallback(); fb != nil {
			return handleWithSummary(c, "text", start, func() error {
				return fb(c)
			})
		}

		logHandlerSummary(c, "text", start, "skip", nil)
		return nil
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: handler},
	}
}
