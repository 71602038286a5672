package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/screambot/core/logger"
	tg "github.com/m3rciful/screambot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes binds every registered command to its "/name" endpoint.
// Commands Telebot cannot match exactly, such as "/SCREAM", reach TextRoutes instead.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	names := reg.Commands()
	routes := make([]tg.Route, 0, len(names))
	for _, key := range names {
		def, _ := reg.Command(key)
		h := def.Handler
		name := "command." + normalizeHandlerName(key)
		routes = append(routes, tg.Route{
			Endpoint: key,
			Handler: func(c tele.Context) error {
				return handleWithSummary(c, name, time.Now(), func() error {
					return h(c)
				})
			},
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(names)),
	)

	return routes
}
