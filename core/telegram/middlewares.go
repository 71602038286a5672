package telegram

import (
	"github.com/m3rciful/screambot/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain for bots.
// Order matters: recover wraps everything, logger seeds the request context before metrics counts sends.
func DefaultMiddlewares() []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}
}
