package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/screambot/bot/menu"
	coreconfig "github.com/m3rciful/screambot/core/config"
	"github.com/m3rciful/screambot/core/telegram/teletest"
)

var (
	ann = &tele.User{ID: 1, FirstName: "Ann"}
	bob = &tele.User{ID: 2, FirstName: "Bob"}
)

type harness struct {
	routes map[any]tele.HandlerFunc
}

func newHarness(t *testing.T, mutate func(*coreconfig.Config)) *harness {
	t.Helper()
	cfg := &coreconfig.Config{}
	cfg.Telegram.Token = "test-token"
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, coreconfig.Normalize(cfg))

	a, err := New(cfg)
	require.NoError(t, err)
	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)

	h := &harness{routes: make(map[any]tele.HandlerFunc)}
	for _, r := range opts.Routes {
		handler := r.Handler
		for i := len(opts.Middlewares) - 1; i >= 0; i-- {
			handler = opts.Middlewares[i].Use(handler)
		}
		h.routes[r.Endpoint] = handler
	}
	return h
}

// text delivers a message the way Telebot would: exact commands hit their endpoint,
// everything else goes to OnText.
func (h *harness) text(t *testing.T, c *teletest.Context) {
	t.Helper()
	handler, ok := h.routes[c.Text()]
	if !ok {
		handler = h.routes[tele.OnText]
	}
	require.NotNil(t, handler)
	require.NoError(t, handler(c))
}

func (h *harness) tap(t *testing.T, c *teletest.Context) {
	t.Helper()
	require.NoError(t, h.routes[tele.OnCallback](c))
}

func lastSent(t *testing.T, c *teletest.Context) (string, *tele.SendOptions) {
	t.Helper()
	sent := c.Sent()
	require.NotEmpty(t, sent)
	last := sent[len(sent)-1]
	text, ok := last.What.(string)
	require.True(t, ok)
	return text, teletest.SendOptions(last)
}

func TestEchoAndScreaming(t *testing.T) {
	h := newHarness(t, nil)

	bold := tele.MessageEntity{Type: tele.EntityBold, Offset: 0, Length: 5}
	c := teletest.NewText(ann, "hello", bold)
	h.text(t, c)
	text, opts := lastSent(t, c)
	assert.Equal(t, "hello", text)
	require.NotNil(t, opts)
	assert.Equal(t, tele.Entities{bold}, opts.Entities)

	c = teletest.NewCommand(ann, "/scream", "")
	h.text(t, c)
	text, _ = lastSent(t, c)
	assert.Equal(t, "Screaming mode activated!", text)

	c = teletest.NewText(ann, "hello", bold)
	h.text(t, c)
	text, opts = lastSent(t, c)
	assert.Equal(t, "HELLO", text)
	assert.Empty(t, opts.Entities)

	c = teletest.NewText(bob, "hello")
	h.text(t, c)
	text, _ = lastSent(t, c)
	assert.Equal(t, "hello", text, "sessions are per chat")

	c = teletest.NewText(ann, "/WHISPER")
	h.text(t, c)
	text, _ = lastSent(t, c)
	assert.Equal(t, "Screaming mode deactivated!", text)
}

func TestSharedSession(t *testing.T) {
	h := newHarness(t, func(cfg *coreconfig.Config) { cfg.Bot.SharedSession = true })

	h.text(t, teletest.NewCommand(ann, "/scream", ""))
	c := teletest.NewText(bob, "hello")
	h.text(t, c)
	text, _ := lastSent(t, c)
	assert.Equal(t, "HELLO", text)
}

func TestUnknownCommandSendsNothing(t *testing.T) {
	h := newHarness(t, nil)
	c := teletest.NewText(ann, "/dance")
	h.text(t, c)
	assert.Empty(t, c.Sent())
}

func TestStartListsCommands(t *testing.T) {
	h := newHarness(t, nil)
	c := teletest.NewCommand(ann, "/start", "")
	h.text(t, c)
	text, _ := lastSent(t, c)
	assert.Equal(t, "The commands are:\n/scream\n/start\n/whisper\n/menu\n/generate\n/store", text)
}

func TestMenuFlow(t *testing.T) {
	h := newHarness(t, nil)

	c := teletest.NewCommand(ann, "/menu", "")
	h.text(t, c)
	text, opts := lastSent(t, c)
	assert.Equal(t, menu.First().Text, text)
	require.NotNil(t, opts)
	assert.Equal(t, tele.ModeHTML, opts.ParseMode)
	require.NotNil(t, opts.ReplyMarkup)
	require.Len(t, opts.ReplyMarkup.InlineKeyboard, 1)
	assert.Equal(t, "Next", opts.ReplyMarkup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "Next", opts.ReplyMarkup.InlineKeyboard[0][0].Data)

	tap := teletest.NewCallback(ann, menu.NextButton)
	h.tap(t, tap)
	require.Len(t, tap.Responses(), 1)
	assert.Nil(t, tap.Responses()[0])
	edits := tap.Edits()
	require.Len(t, edits, 1)
	assert.Equal(t, menu.Second().Text, edits[0].What)
	kb := teletest.SendOptions(edits[0]).ReplyMarkup.InlineKeyboard
	require.Len(t, kb, 2)
	assert.Equal(t, "Back", kb[0][0].Data)
	assert.Equal(t, menu.TutorialURL, kb[1][0].URL)
	assert.Empty(t, tap.Sent())

	back := teletest.NewCallback(ann, menu.BackButton)
	h.tap(t, back)
	require.Len(t, back.Edits(), 1)
	assert.Equal(t, menu.First().Text, back.Edits()[0].What)

	unknown := teletest.NewCallback(ann, "Sideways")
	h.tap(t, unknown)
	require.Len(t, unknown.Responses(), 1)
	require.NotNil(t, unknown.Responses()[0])
	assert.Equal(t, "Unsupported action", unknown.Responses()[0].Text)
	assert.Empty(t, unknown.Edits())
}

func TestGenerateWithoutKey(t *testing.T) {
	h := newHarness(t, nil)
	c := teletest.NewCommand(ann, "/generate a poem", "a poem")
	h.text(t, c)
	text, _ := lastSent(t, c)
	assert.Equal(t, "API key not provided. Please set the OPENAI_KEY environment variable.", text)
}

func TestBackendSources(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": r.URL.Path + ":" + payload["message"]})
	}))
	defer srv.Close()

	h := newHarness(t, func(cfg *coreconfig.Config) {
		cfg.Backend.ServerAddr = srv.URL
		cfg.Bot.ReplySource = coreconfig.SourceBackend
		cfg.Bot.Generator = coreconfig.SourceBackend
	})

	c := teletest.NewText(ann, "hi")
	h.text(t, c)
	text, _ := lastSent(t, c)
	assert.Equal(t, "/ask:hi", text)

	c = teletest.NewCommand(ann, "/generate a poem", "a poem")
	h.text(t, c)
	text, _ = lastSent(t, c)
	assert.Equal(t, "/generate:a poem", text)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/ask", "/log_interaction", "/generate"}, paths)
}
