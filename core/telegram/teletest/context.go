// Package teletest provides an in-memory tele.Context for handler tests.
package teletest

import (
	"sync"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

var nextUpdateID atomic.Int64

// Call records one outbound Bot API call made through the context.
type Call struct {
	What any
	Opts []any
}

// Context implements the parts of tele.Context the bot uses. Calling any other
// method panics through the nil embedded interface.
type Context struct {
	tele.Context

	Upd tele.Update
	// SendErr is returned by Send and Edit when set.
	SendErr error

	mu        sync.Mutex
	store     map[string]any
	sent      []Call
	edits     []Call
	responses []*tele.CallbackResponse
}

// NewText returns a context for a text message from user in a private chat.
func NewText(user *tele.User, text string, entities ...tele.MessageEntity) *Context {
	return &Context{Upd: tele.Update{
		ID: int(nextUpdateID.Add(1)),
		Message: &tele.Message{
			ID:       int(nextUpdateID.Load()),
			Sender:   user,
			Chat:     &tele.Chat{ID: user.ID, Type: tele.ChatPrivate},
			Text:     text,
			Entities: entities,
		},
	}}
}

// NewCommand returns a context for text that Telebot matched as a command.
func NewCommand(user *tele.User, text, payload string) *Context {
	c := NewText(user, text)
	c.Upd.Message.Payload = payload
	return c
}

// NewCallback returns a context for a tap on a button with data under a bot message.
func NewCallback(user *tele.User, data string) *Context {
	return &Context{Upd: tele.Update{
		ID: int(nextUpdateID.Add(1)),
		Callback: &tele.Callback{
			ID:     "cb",
			Sender: user,
			Data:   data,
			Message: &tele.Message{
				ID:   int(nextUpdateID.Load()),
				Chat: &tele.Chat{ID: user.ID, Type: tele.ChatPrivate},
			},
		},
	}}
}

func (c *Context) Update() tele.Update { return c.Upd }

func (c *Context) Message() *tele.Message {
	switch {
	case c.Upd.Message != nil:
		return c.Upd.Message
	case c.Upd.Callback != nil:
		return c.Upd.Callback.Message
	}
	return nil
}

func (c *Context) Callback() *tele.Callback { return c.Upd.Callback }

func (c *Context) Sender() *tele.User {
	switch {
	case c.Upd.Callback != nil:
		return c.Upd.Callback.Sender
	case c.Upd.Message != nil:
		return c.Upd.Message.Sender
	}
	return nil
}

func (c *Context) Chat() *tele.Chat {
	if m := c.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (c *Context) Text() string {
	m := c.Upd.Message
	if m == nil {
		return ""
	}
	if m.Caption != "" {
		return m.Caption
	}
	return m.Text
}

func (c *Context) Send(what any, opts ...any) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, Call{What: what, Opts: opts})
	return nil
}

func (c *Context) Reply(what any, opts ...any) error { return c.Send(what, opts...) }

func (c *Context) Edit(what any, opts ...any) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edits = append(c.edits, Call{What: what, Opts: opts})
	return nil
}

func (c *Context) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var r *tele.CallbackResponse
	if len(resp) > 0 {
		r = resp[0]
	}
	c.responses = append(c.responses, r)
	return nil
}

func (c *Context) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
}

// Sent returns the messages sent so far.
func (c *Context) Sent() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.sent...)
}

// Edits returns the message edits made so far.
func (c *Context) Edits() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.edits...)
}

// Responses returns the callback answers; a nil entry is a bare acknowledgement.
func (c *Context) Responses() []*tele.CallbackResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*tele.CallbackResponse(nil), c.responses...)
}

// SendOptions returns the *tele.SendOptions passed with call, or nil.
func SendOptions(call Call) *tele.SendOptions {
	for _, o := range call.Opts {
		if so, ok := o.(*tele.SendOptions); ok {
			return so
		}
	}
	return nil
}
