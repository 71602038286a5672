package app

import (
	"github.com/m3rciful/screambot/bot/dispatch"
	tghelpers "github.com/m3rciful/screambot/core/telegram/helpers"
	"github.com/m3rciful/screambot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// render sends resp back through c. Button taps are always answered, and only
// an Edit response changes the tapped message.
func render(c tele.Context, resp dispatch.Response) error {
	if c.Callback() != nil {
		if err := tghelpers.Answer(c, resp.Notice); err != nil {
			return err
		}
		if resp.Text == "" {
			return nil
		}
		if resp.Edit {
			return tghelpers.EditText(c, resp.Text, sendOptions(c, resp))
		}
	}
	return tghelpers.SendText(c, resp.Text, sendOptions(c, resp))
}

func sendOptions(c tele.Context, resp dispatch.Response) *tele.SendOptions {
	opts := &tele.SendOptions{}
	if resp.ParseMode == dispatch.ParseHTML {
		opts.ParseMode = tele.ModeHTML
	}
	if resp.Markup != nil {
		opts.ReplyMarkup = markup(resp.Markup)
	}
	if resp.KeepEntities {
		if m := c.Message(); m != nil && len(m.Entities) > 0 {
			opts.Entities = m.Entities
		}
	}
	return opts
}

func markup(m *dispatch.Markup) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(m.Rows))
	for _, row := range m.Rows {
		r := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			r = append(r, keyboard.InlineBtn{Text: b.Text, Data: b.Data, URL: b.URL})
		}
		rows = append(rows, r)
	}
	return keyboard.InlineButtonsRows(rows...)
}
