package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/screambot/bot/session"
)

func replyWith(text string) CommandFunc {
	return func(context.Context, *session.Session, Command) (Response, error) {
		return Response{Text: text}, nil
	}
}

func TestRouterDispatchesByKind(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Command("ping", "pong back", replyWith("pong")))
	r.Text(func(_ context.Context, _ *session.Session, m TextMessage) (Response, error) {
		return Response{Text: "text:" + m.Text}, nil
	})
	r.Tap(func(_ context.Context, _ *session.Session, b ButtonTap) (Response, error) {
		return Response{Text: "tap:" + b.Data, Edit: true}, nil
	})

	s := &session.Session{}
	tests := []struct {
		name string
		ev   Event
		want Response
	}{
		{name: "command", ev: Command{Name: "ping"}, want: Response{Text: "pong"}},
		{name: "command case-insensitive", ev: Command{Name: "PING"}, want: Response{Text: "pong"}},
		{name: "unknown command", ev: Command{Name: "nope"}, want: Response{}},
		{name: "text", ev: TextMessage{Text: "hi"}, want: Response{Text: "text:hi"}},
		{name: "tap", ev: ButtonTap{Data: "Next"}, want: Response{Text: "tap:Next", Edit: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Dispatch(context.Background(), s, tt.ev)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Dispatch() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRouterWithoutHandlers(t *testing.T) {
	r := NewRouter()
	for _, ev := range []Event{TextMessage{Text: "x"}, ButtonTap{Data: "x"}, Command{Name: "x"}} {
		got, err := r.Dispatch(context.Background(), &session.Session{}, ev)
		require.NoError(t, err)
		assert.True(t, got.Empty())
	}
}

func TestRouterCommandRegistration(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Command("/b", "second", replyWith("b")))
	require.NoError(t, r.Command("a", "first", replyWith("a")))

	assert.Error(t, r.Command("a", "again", replyWith("a")))
	assert.Error(t, r.Command("", "empty", replyWith("x")))
	assert.Error(t, r.Command("Upper", "case", replyWith("x")))
	assert.Error(t, r.Command("nil", "handler", nil))

	var names []string
	for _, c := range r.Commands() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"b", "a"}, names, "registration order is kept")
}

func TestRouterPropagatesHandlerError(t *testing.T) {
	r := NewRouter()
	boom := errors.New("boom")
	require.NoError(t, r.Command("fail", "fails", func(context.Context, *session.Session, Command) (Response, error) {
		return Response{}, boom
	}))

	_, err := r.Dispatch(context.Background(), &session.Session{}, Command{Name: "fail"})
	assert.ErrorIs(t, err, boom)
}

func TestResponseEmpty(t *testing.T) {
	assert.True(t, Response{}.Empty())
	assert.True(t, Response{Edit: true}.Empty())
	assert.False(t, Response{Notice: "Unsupported action"}.Empty())
	assert.False(t, Response{Text: "x"}.Empty())
}
