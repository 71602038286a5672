package helpers

import (
	tele "gopkg.in/telebot.v4"
)

// SendText sends text to the current recipient. Empty text is not sent.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	if text == "" {
		return nil
	}
	if len(opts) > 0 && opts[0] != nil {
		return c.Send(text, opts[0])
	}
	return c.Send(text)
}

// EditText replaces the text of the message the update came from.
func EditText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	if len(opts) > 0 && opts[0] != nil {
		return c.Edit(text, opts[0])
	}
	return c.Edit(text)
}

// Answer acknowledges a callback query, showing notice as a popup when set.
func Answer(c tele.Context, notice string) error {
	if c.Callback() == nil {
		return nil
	}
	if notice == "" {
		return c.Respond()
	}
	return c.Respond(&tele.CallbackResponse{Text: notice})
}
