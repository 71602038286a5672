package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/screambot/core/logger"
	tg "github.com/m3rciful/screambot/core/telegram"
	"github.com/m3rciful/screambot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute routes every inline button tap to the registry's callback handler.
// The handler answers the callback query itself.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		data := callbacks.Data(cb)
		name := "callback." + normalizeHandlerName(data)
		cbHandler := reg.Callback()
		if cbHandler == nil {
			logHandlerSummary(c, name, start, "skip", nil)
			return c.Respond()
		}
		return handleWithSummary(c, name, start, func() error {
			return cbHandler(c)
		}, slog.String("cb_data", logger.SanitizeLimit(data, 64)))
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  handler,
	}
}
