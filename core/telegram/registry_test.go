package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/screambot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/scream", commands.Command{Handler: noop, Description: "Reply in upper case"}))
	require.NoError(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "List the commands"}))
	require.NoError(t, reg.RegisterCommand("/debug", commands.Command{Handler: noop, Description: "internal", Hidden: true}))

	assert.Error(t, reg.RegisterCommand("/scream", commands.Command{Handler: noop, Description: "again"}))
	assert.Error(t, reg.RegisterCommand("menu", commands.Command{Handler: noop, Description: "no slash"}))
	assert.Error(t, reg.RegisterCommand("/Menu", commands.Command{Handler: noop, Description: "case"}))
	assert.Error(t, reg.RegisterCommand("/menu", commands.Command{Description: "no handler"}))

	assert.Equal(t, []string{"/scream", "/start", "/debug"}, reg.Commands())
	assert.Equal(t, []tele.Command{
		{Text: "scream", Description: "Reply in upper case"},
		{Text: "start", Description: "List the commands"},
	}, reg.ListCommands(true))
	assert.Len(t, reg.ListCommands(false), 3)
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/scream", commands.Command{Handler: noop, Description: "d"}))

	for _, name := range []string{"/scream", "scream", "/SCREAM", "/scream@screambot"} {
		key, _, ok := reg.LookupCommand(name)
		assert.True(t, ok, name)
		assert.Equal(t, "/scream", key, name)
	}
	_, _, ok := reg.LookupCommand("/whisper")
	assert.False(t, ok)
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{text: "/start", want: "/start", ok: true},
		{text: "  /Generate@bot a poem", want: "/generate", ok: true},
		{text: "hello /start", ok: false},
		{text: "/", ok: false},
		{text: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := CommandName(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestBuildPoller(t *testing.T) {
	lp, ok := BuildPoller(PollerOptions{RunMode: "longpoll"}).(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, lp.Timeout)

	lp, ok = BuildPoller(PollerOptions{RunMode: "longpoll", LongPollTimeoutSeconds: 25}).(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, 25*time.Second, lp.Timeout)

	wh, ok := BuildPoller(PollerOptions{
		RunMode: "WEBHOOK",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://bot.example.com/hook"},
	}).(*tele.Webhook)
	require.True(t, ok)
	assert.Equal(t, "0.0.0.0:8443", wh.Listen)
	assert.Equal(t, "https://bot.example.com/hook", wh.Endpoint.PublicURL)
}
