// Package dispatch maps inbound events to handlers through an explicit table.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/m3rciful/screambot/bot/session"
)

// CommandFunc handles a slash command.
type CommandFunc func(ctx context.Context, s *session.Session, cmd Command) (Response, error)

// TextFunc handles a plain text message.
type TextFunc func(ctx context.Context, s *session.Session, msg TextMessage) (Response, error)

// TapFunc handles an inline button tap.
type TapFunc func(ctx context.Context, s *session.Session, tap ButtonTap) (Response, error)

// CommandSpec describes a registered command.
type CommandSpec struct {
	Name        string
	Description string
	Handler     CommandFunc
}

// Router holds one handler per event kind, and one per command name.
type Router struct {
	commands map[string]CommandSpec
	order    []string
	text     TextFunc
	tap      TapFunc
}

// NewRouter returns a router with no handlers.
func NewRouter() *Router {
	return &Router{commands: make(map[string]CommandSpec)}
}

// Command registers h under name. Names are lower-case without the leading slash.
func (r *Router) Command(name, description string, h CommandFunc) error {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	switch {
	case name == "" || h == nil:
		return fmt.Errorf("dispatch: invalid command %q", name)
	case name != strings.ToLower(name):
		return fmt.Errorf("dispatch: command %q must be lower-case", name)
	}
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("dispatch: command %q already registered", name)
	}
	r.commands[name] = CommandSpec{Name: name, Description: description, Handler: h}
	r.order = append(r.order, name)
	return nil
}

// Text sets the catch-all text handler.
func (r *Router) Text(h TextFunc) { r.text = h }

// Tap sets the button tap handler.
func (r *Router) Tap(h TapFunc) { r.tap = h }

// Commands lists registered commands in registration order.
func (r *Router) Commands() []CommandSpec {
	out := make([]CommandSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Lookup reports whether name is a registered command.
func (r *Router) Lookup(name string) (CommandSpec, bool) {
	spec, ok := r.commands[strings.ToLower(name)]
	return spec, ok
}

// Dispatch calls the one handler responsible for ev.
// Unknown commands and kinds without a handler yield an empty Response.
func (r *Router) Dispatch(ctx context.Context, s *session.Session, ev Event) (Response, error) {
	switch e := ev.(type) {
	case Command:
		spec, ok := r.Lookup(e.Name)
		if !ok {
			return Response{}, nil
		}
		return spec.Handler(ctx, s, e)
	case TextMessage:
		if r.text == nil {
			return Response{}, nil
		}
		return r.text(ctx, s, e)
	case ButtonTap:
		if r.tap == nil {
			return Response{}, nil
		}
		return r.tap(ctx, s, e)
	}
	return Response{}, fmt.Errorf("dispatch: unsupported event %T", ev)
}

